package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	RepositoryType  string `json:"repository_type"`
	RepositoryState any    `json:"repository_state,omitempty"`
	Watchable       bool   `json:"watchable"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := ServiceState{RepositoryType: "unknown"}
	if s.repo != nil {
		state.RepositoryType = "repository"
		if comp, ok := s.repo.(introspection.Component); ok {
			state.RepositoryType = comp.ComponentType()
		}
		if in, ok := s.repo.(introspection.Introspectable); ok {
			state.RepositoryState = in.State()
		}
		_, state.Watchable = s.repo.(Watchable)
	}
	return state
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
