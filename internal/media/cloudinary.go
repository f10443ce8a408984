package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"backoffice/internal/domain"
)

// Cloudinary загружает файлы в папку аккаунта Cloudinary
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinary(cloudName, apiKey, apiSecret, folder string) (*Cloudinary, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary credentials are incomplete")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return &Cloudinary{cld: cld, folder: folder}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, name string, r io.Reader, kind domain.MediaKind) (string, error) {
	resourceType := "image"
	if kind == domain.MediaVideo {
		resourceType = "video"
	}
	resp, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       c.folder,
		ResourceType: resourceType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("upload %s: %s", name, resp.Error.Message)
	}
	return resp.SecureURL, nil
}
