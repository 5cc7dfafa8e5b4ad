// Package lifecycle exposes content store events as a lifecycle.Source so
// they can be consumed alongside other process events.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/folio/pkg/core"
)

type contentSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
}

// NewSource bridges a content event channel to lifecycle events.
// The output closes when events closes or the Start context ends.
func NewSource(events <-chan core.Event) lifecycle.Source {
	return &contentSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *contentSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *contentSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
