package microlog

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// Publisher delivers an enriched record to a social target. Concrete
// network clients live outside this module; callers plug them in via
// WithPublisher.
type Publisher interface {
	Publish(ctx context.Context, r Record) error
}

// PublishFunc adapts a function to the Publisher interface.
type PublishFunc func(ctx context.Context, r Record) error

func (f PublishFunc) Publish(ctx context.Context, r Record) error {
	return f(ctx, r)
}

// Fanout publishes to every target and reports all failures together.
// A record counts as published only when every target accepted it, so a
// partial failure keeps the entry queued for retry.
type Fanout struct {
	targets []Publisher
}

// NewFanout returns a Publisher that delivers to all targets.
func NewFanout(targets ...Publisher) *Fanout {
	return &Fanout{targets: targets}
}

func (f *Fanout) Publish(ctx context.Context, r Record) error {
	var errs []error
	for i, t := range f.targets {
		if err := t.Publish(ctx, r); err != nil {
			errs = append(errs, fmt.Errorf("target %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// logPublisher is the default target when no real publisher is
// configured: it records the would-be post and succeeds, so local
// archiving and the queue keep working.
type logPublisher struct{}

func (logPublisher) Publish(_ context.Context, r Record) error {
	log.Printf("publish (no targets configured): %s", r.Encode())
	return nil
}
