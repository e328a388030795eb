package main

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// slogRegistry holds the named handlers shared by a [SlogManager] and all
// managers derived from it.
type slogRegistry struct {
	sync.RWMutex
	handlers map[string]slog.Handler
}

// derivation is one WithAttrs or WithGroup step, replayed on each handler.
type derivation struct {
	attrs []slog.Attr
	group string
}

// SlogManager is a [slog.Handler] that fans records out to a set of named
// handlers that can be swapped at runtime, such as the terminal and the UI.
// Managers derived through WithAttrs or WithGroup follow handler swaps.
type SlogManager struct {
	registry *slogRegistry
	steps    []derivation
}

func NewSlogManager() *SlogManager {
	return &SlogManager{
		registry: &slogRegistry{handlers: make(map[string]slog.Handler)},
	}
}

func (m *SlogManager) derive(step derivation) *SlogManager {
	steps := make([]derivation, len(m.steps), len(m.steps)+1)
	copy(steps, m.steps)

	return &SlogManager{
		registry: m.registry,
		steps:    append(steps, step),
	}
}

func (m *SlogManager) apply(h slog.Handler) slog.Handler {
	for _, step := range m.steps {
		if step.group != "" {
			h = h.WithGroup(step.group)
		} else {
			h = h.WithAttrs(step.attrs)
		}
	}

	return h
}

func (m *SlogManager) Enabled(ctx context.Context, level slog.Level) bool {
	m.registry.RLock()
	defer m.registry.RUnlock()

	for _, h := range m.registry.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

func (m *SlogManager) Handle(ctx context.Context, r slog.Record) error {
	m.registry.RLock()
	defer m.registry.RUnlock()

	var errs []error
	for _, h := range m.registry.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := m.apply(h).Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (m *SlogManager) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return m
	}

	return m.derive(derivation{attrs: attrs})
}

func (m *SlogManager) WithGroup(name string) slog.Handler {
	if name == "" {
		return m
	}

	return m.derive(derivation{group: name})
}

//nolint:unparam
func (m *SlogManager) GetHandler(name string) (slog.Handler, bool) {
	m.registry.RLock()
	defer m.registry.RUnlock()

	h, ok := m.registry.handlers[name]

	return h, ok
}

// AddHandler registers or replaces a named handler.
func (m *SlogManager) AddHandler(name string, handler slog.Handler) {
	m.registry.Lock()
	defer m.registry.Unlock()

	m.registry.handlers[name] = handler
}

func (m *SlogManager) RemoveHandler(name string) {
	m.registry.Lock()
	defer m.registry.Unlock()

	delete(m.registry.handlers, name)
}
