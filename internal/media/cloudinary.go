package media

import (
	"context"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/go-faster/errors"
)

var _ Uploader = (*CloudinaryUploader)(nil)

// CloudinaryUploader implements Uploader against the Cloudinary API.
type CloudinaryUploader struct {
	client *cloudinary.Cloudinary
}

// NewCloudinary creates a CloudinaryUploader from account credentials.
// It returns ErrNotConfigured when any credential is missing so callers can
// run without a media host and surface the condition per-request.
func NewCloudinary(cloudName, apiKey, apiSecret string) (*CloudinaryUploader, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, ErrNotConfigured
	}

	client, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, errors.Wrap(err, "create cloudinary client")
	}
	return &CloudinaryUploader{client: client}, nil
}

// Upload streams the image to Cloudinary under the given folder.
func (u *CloudinaryUploader) Upload(ctx context.Context, r io.Reader, folder string) (*Asset, error) {
	res, err := u.client.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       folder,
		ResourceType: "image",
	})
	if err != nil {
		return nil, errors.Wrap(err, "cloudinary upload")
	}

	return &Asset{
		URL:      res.SecureURL,
		PublicID: res.PublicID,
	}, nil
}

// Destroy removes a previously uploaded image by its public id.
func (u *CloudinaryUploader) Destroy(ctx context.Context, publicID string) error {
	_, err := u.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return errors.Wrap(err, "cloudinary destroy")
	}
	return nil
}
