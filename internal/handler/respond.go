package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/RohitKonga/cake-haven/internal/domain/banner"
	"github.com/RohitKonga/cake-haven/internal/domain/catalog"
	"github.com/RohitKonga/cake-haven/internal/domain/coupon"
	"github.com/RohitKonga/cake-haven/internal/domain/custom"
	"github.com/RohitKonga/cake-haven/internal/domain/order"
	"github.com/RohitKonga/cake-haven/internal/domain/user"
	"github.com/RohitKonga/cake-haven/internal/media"
)

// errorBody is the JSON error envelope shared by every endpoint.
type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Code: status, Message: message})
}

// writeDomainError translates a domain error into the HTTP error envelope.
// Unrecognized errors are logged and reported as 500 without leaking detail.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	// Malformed or missing input.
	case errors.Is(err, order.ErrEmptyItems),
		errors.Is(err, order.ErrInvalidPayment),
		errors.Is(err, custom.ErrNoPriceSet),
		errors.Is(err, custom.ErrInvalidReviewStatus),
		errors.Is(err, banner.ErrInvalidSlot),
		errors.Is(err, coupon.ErrExpired):
		writeError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, user.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())

	case errors.Is(err, custom.ErrNotOwner):
		writeError(w, http.StatusForbidden, err.Error())

	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, custom.ErrNotFound),
		errors.Is(err, coupon.ErrNotFound),
		errors.Is(err, banner.ErrNotFound),
		errors.Is(err, user.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())

	// Conflicts with current entity state.
	case errors.Is(err, user.ErrEmailTaken),
		errors.Is(err, coupon.ErrDuplicateCode),
		errors.Is(err, custom.ErrNotApproved):
		writeError(w, http.StatusConflict, err.Error())

	case errors.Is(err, media.ErrNotConfigured):
		writeError(w, http.StatusInternalServerError, err.Error())

	default:
		var (
			invalidCake       *order.InvalidCakeError
			invalidStatus     *order.InvalidStatusError
			invalidTransition *order.InvalidTransitionError
		)
		switch {
		case errors.As(err, &invalidCake):
			writeError(w, http.StatusUnprocessableEntity, invalidCake.Error())
		case errors.As(err, &invalidStatus):
			writeError(w, http.StatusBadRequest, invalidStatus.Error())
		case errors.As(err, &invalidTransition):
			writeError(w, http.StatusConflict, invalidTransition.Error())
		default:
			zctx.From(r.Context()).Error("Request failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
	}
}

// decodeJSON parses the request body into v, rejecting unknown top-level
// syntax errors with a uniform message.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(err, "invalid JSON body")
	}
	return nil
}
