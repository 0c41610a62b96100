// Package media stores practitioner and account images and hands back a
// public URL for them.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/config"
	"github.com/google/uuid"
)

var (
	ErrUnsupportedType = errors.New("only jpeg, png and webp images are accepted")
	ErrEmptyUpload     = errors.New("uploaded image is empty")
)

var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Object is an image waiting to be stored.
type Object struct {
	Folder      string
	ContentType string
	Size        int64
	Body        io.Reader
}

type Store interface {
	Upload(ctx context.Context, obj Object) (string, error)
}

// New builds the store selected by cfg.Driver.
func New(ctx context.Context, cfg config.MediaConfig) (Store, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3Store(ctx, cfg)
	case "local":
		return NewLocalStore(cfg.LocalDir, cfg.PublicBaseURL)
	}
	return nil, fmt.Errorf("unsupported media driver %q", cfg.Driver)
}

// objectKey validates the content type and returns a fresh key under folder.
func objectKey(prefix string, obj Object) (string, error) {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(obj.ContentType, ";", 2)[0]))
	ext, ok := allowedContentTypes[ct]
	if !ok {
		return "", ErrUnsupportedType
	}
	if obj.Size == 0 {
		return "", ErrEmptyUpload
	}
	return path.Join(prefix, obj.Folder, uuid.NewString()+ext), nil
}
