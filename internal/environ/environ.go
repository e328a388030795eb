// Package environ exposes the process environment as a mutable mapping.
//
// The [Store] holds no state of its own: every read and write goes straight
// to the operating system, so changes are visible immediately through the
// store, through the native primitive and to child processes.
//
// The store is not synchronized. The environment is process-wide state, and
// concurrent mutation races with concurrent reads unless the caller
// serializes access.
package environ

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/desertwitch/osbridge/internal/oserror"
	"github.com/joho/godotenv"
)

type envProvider interface {
	Getenv(key string) (string, bool)
	Setenv(key, value string) error
	Unsetenv(key string) error
	Environ() []string
}

// Store is a live view of the process environment.
type Store struct {
	env envProvider
}

// NewStore returns a pointer to a new [Store] over the given provider,
// usually the current platform variant.
func NewStore(env envProvider) *Store {
	return &Store{
		env: env,
	}
}

// Get returns the value of name, or def if it is not set.
func (s *Store) Get(name, def string) string {
	if value, ok := s.env.Getenv(name); ok {
		return value
	}

	return def
}

// Lookup returns the value of name and whether it is set. An empty value
// that is set is reported as present.
func (s *Store) Lookup(name string) (string, bool) {
	return s.env.Getenv(name)
}

// Contains reports whether name is set.
func (s *Store) Contains(name string) bool {
	_, ok := s.env.Getenv(name)

	return ok
}

// Set assigns value to name.
func (s *Store) Set(name, value string) error {
	if err := validateName("setenv", name); err != nil {
		return err
	}

	if strings.ContainsRune(value, 0) {
		return oserror.Invalid("setenv", name, "value contains NUL")
	}

	if err := s.env.Setenv(name, value); err != nil {
		return oserror.Wrap("setenv", name, err)
	}

	return nil
}

// Delete removes name. Deleting a name that is not set is a no-op.
func (s *Store) Delete(name string) error {
	if err := validateName("unsetenv", name); err != nil {
		return err
	}

	if !s.Contains(name) {
		return nil
	}

	if err := s.env.Unsetenv(name); err != nil {
		return oserror.Wrap("unsetenv", name, err)
	}

	return nil
}

// Putenv calls the native set primitive directly, leaving validation to the
// operating system.
func (s *Store) Putenv(name, value string) error {
	if err := s.env.Setenv(name, value); err != nil {
		return oserror.Wrap("putenv", name, err)
	}

	return nil
}

// Unsetenv calls the native unset primitive directly.
func (s *Store) Unsetenv(name string) error {
	if err := s.env.Unsetenv(name); err != nil {
		return oserror.Wrap("unsetenv", name, err)
	}

	return nil
}

// Load imports variables from dotenv files. Variables that are already set
// are left untouched.
func (s *Store) Load(filenames ...string) error {
	vars, err := godotenv.Read(filenames...)
	if err != nil {
		return fmt.Errorf("(environ-load) %w", err)
	}

	for _, name := range slices.Sorted(maps.Keys(vars)) {
		if s.Contains(name) {
			continue
		}

		if err := s.Set(name, vars[name]); err != nil {
			return fmt.Errorf("(environ-load) %w", err)
		}
	}

	return nil
}

// Mapping returns a live read-only view of the environment.
func (s *Store) Mapping() *View {
	return &View{store: s}
}

// View is a read-only mapping over a [Store]. It never caches: every call
// reflects the environment at that moment.
type View struct {
	store *Store
}

// Len returns the number of variables.
func (v *View) Len() int {
	var n int
	for range v.Items() {
		n++
	}

	return n
}

// Keys returns the variable names in sorted order.
func (v *View) Keys() []string {
	var keys []string
	for name := range v.Items() {
		keys = append(keys, name)
	}
	slices.Sort(keys)

	return keys
}

// Lookup is [Store.Lookup].
func (v *View) Lookup(name string) (string, bool) {
	return v.store.Lookup(name)
}

// Items iterates over name and value pairs in the order the operating system
// reports them.
func (v *View) Items() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, kv := range v.store.env.Environ() {
			name, value, ok := splitEntry(kv)
			if !ok {
				continue
			}

			if !yield(name, value) {
				return
			}
		}
	}
}

// splitEntry splits a "name=value" entry. Entries starting with '=' are
// hidden per-drive working directories on Windows and are skipped.
func splitEntry(kv string) (string, string, bool) {
	name, value, ok := strings.Cut(kv, "=")
	if !ok || name == "" {
		return "", "", false
	}

	return name, value, true
}

func validateName(op, name string) error {
	switch {
	case name == "":
		return oserror.Invalid(op, name, "empty variable name")
	case strings.ContainsAny(name, "=\x00"):
		return oserror.Invalid(op, name, "variable name contains '=' or NUL")
	}

	return nil
}
