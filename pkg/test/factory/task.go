package factory

import (
	fab "github.com/Goldziher/fabricator"
)

// NewTask fabricates a T; customData overrides fields by name.
func NewTask[T any](customData ...map[string]any) T {
	instance := fab.New(*new(T))

	if len(customData) > 0 {
		return instance.Build(customData...)
	}

	return instance.Build()
}
