// Package storage persists metric snapshots for the history view.
package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/mission-control/internal/model"
)

// Validation errors.
var (
	ErrNilContext        = errors.New("context cannot be nil")
	ErrEmptyString       = errors.New("string parameter cannot be empty")
	ErrInvalidSnapshot   = errors.New("invalid snapshot")
	ErrUnsupportedDriver = errors.New("unsupported database driver")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateSnapshot rejects snapshots without a timestamp or with values that
// cannot be stored.
func validateSnapshot(snap model.Snapshot) error {
	if snap.TakenAt.IsZero() {
		return fmt.Errorf("%w: taken_at is zero", ErrInvalidSnapshot)
	}
	for _, name := range model.MetricNames {
		if v := snap.Metrics.Get(name); math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidSnapshot, name)
		}
	}
	if math.IsNaN(snap.PercentReached) || math.IsInf(snap.PercentReached, 0) {
		return fmt.Errorf("%w: percent_reached is not finite", ErrInvalidSnapshot)
	}
	return nil
}
