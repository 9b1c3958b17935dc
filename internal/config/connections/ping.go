// Package connections holds what the backend connection packages share.
package connections

import (
	"context"
	"errors"
	"fmt"
)

var ErrNotInitialized = errors.New("not initialized")

type Pinger interface {
	Ping(ctx context.Context) error
}

// Check names one backend for PingAll.
type Check struct {
	Name   string
	Target Pinger
}

// PingAll pings every target in order and returns one "<name>: <err>"
// error per failure.
func PingAll(ctx context.Context, checks ...Check) []error {
	var errs []error
	for _, c := range checks {
		if c.Target == nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.Name, ErrNotInitialized))
			continue
		}
		if err := c.Target.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.Name, err))
		}
	}
	return errs
}
