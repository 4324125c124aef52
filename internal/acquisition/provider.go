package acquisition

import (
	"context"
	"errors"

	"github.com/machinepulse/machinepulse/pkg/models"
)

var ErrAcquisitionFailed = errors.New("sample acquisition failed")

// Provider delivers raw sensor windows for one machine. Timestamps across
// successive Acquire calls are monotonically non-decreasing.
type Provider interface {
	// Acquire returns the next sample window
	Acquire(ctx context.Context) (*models.SampleWindow, error)

	// Close releases any resources held by the provider
	Close() error
}
