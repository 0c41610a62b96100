package media

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// BreakerStore stops calling a failing backend for a while instead of
// letting every add-doctor request wait on it.
type BreakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker[string]
}

func NewBreakerStore(next Store, log *zap.Logger) *BreakerStore {
	settings := gobreaker.Settings{
		Name:        "media-upload",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// Rejected input says nothing about backend health.
			return err == nil || errors.Is(err, ErrUnsupportedType) || errors.Is(err, ErrEmptyUpload)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("media circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return &BreakerStore{next: next, cb: gobreaker.NewCircuitBreaker[string](settings)}
}

func (s *BreakerStore) Upload(ctx context.Context, obj Object) (string, error) {
	return s.cb.Execute(func() (string, error) {
		return s.next.Upload(ctx, obj)
	})
}
