package custom

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateRequest holds the buyer-supplied fields for a new custom request.
type CreateRequest struct {
	Shape   string
	Flavor  string
	Weight  string
	Theme   string
	Message string
}

// Service encapsulates the custom request workflow around the repository.
type Service struct {
	requests Repository
}

// NewService creates a custom request Service.
func NewService(requests Repository) *Service {
	return &Service{requests: requests}
}

// Create stores a new request in the Requested state with no price.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (*Request, error) {
	r := &Request{
		ID:      uuid.New().String(),
		UserID:  userID,
		Shape:   req.Shape,
		Flavor:  req.Flavor,
		Weight:  req.Weight,
		Theme:   req.Theme,
		Message: req.Message,
		Status:  StatusRequested,
	}
	if err := s.requests.Create(ctx, r); err != nil {
		return nil, errors.Wrap(err, "create custom request")
	}
	return r, nil
}

// Review applies an admin decision. Only Approved and Rejected are accepted;
// a request that has already been ordered can no longer be reviewed.
func (s *Service) Review(ctx context.Context, id string, status Status, price *decimal.Decimal) (*Request, error) {
	if status != StatusApproved && status != StatusRejected {
		return nil, ErrInvalidReviewStatus
	}

	current, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == StatusOrdered {
		return nil, ErrNotApproved
	}

	return s.requests.Review(ctx, id, status, price)
}

// ListMine returns the requests owned by the given user, newest first.
func (s *Service) ListMine(ctx context.Context, userID string) ([]Request, error) {
	return s.requests.ListByUser(ctx, userID)
}

// ListAll returns every request, newest first.
func (s *Service) ListAll(ctx context.Context) ([]Request, error) {
	return s.requests.ListAll(ctx)
}

// Get returns a request, enforcing ownership for non-admin callers.
func (s *Service) Get(ctx context.Context, id, userID string, admin bool) (*Request, error) {
	r, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !admin && r.UserID != userID {
		return nil, ErrNotOwner
	}
	return r, nil
}

// AttachImage records an uploaded image on a request owned by userID.
func (s *Service) AttachImage(ctx context.Context, id, userID, url, publicID string) (*Request, error) {
	if _, err := s.Get(ctx, id, userID, false); err != nil {
		return nil, err
	}
	return s.requests.SetImage(ctx, id, url, publicID)
}
