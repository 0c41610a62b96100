package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmehra2102/prod-golang-projects/aarogya/pkg/media"
	"github.com/dmehra2102/prod-golang-projects/aarogya/pkg/metrics"
)

// uploadImage stores obj and reports rejected images as a ValidationError.
func uploadImage(ctx context.Context, store media.Store, m *metrics.Collector, obj media.Object) (string, error) {
	url, err := store.Upload(ctx, obj)
	if err != nil {
		m.MediaUploads.WithLabelValues("failed").Inc()
		if errors.Is(err, media.ErrUnsupportedType) || errors.Is(err, media.ErrEmptyUpload) {
			return "", &ValidationError{Fields: []string{err.Error()}}
		}
		return "", fmt.Errorf("uploading image: %w", err)
	}
	m.MediaUploads.WithLabelValues("stored").Inc()
	return url, nil
}
