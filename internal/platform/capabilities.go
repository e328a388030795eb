package platform

import (
	"slices"
	"sync"
)

// Op identifies a high-level operation in the capability sets.
type Op string

const (
	OpOpen     Op = "open"
	OpStat     Op = "stat"
	OpMkdir    Op = "mkdir"
	OpScan     Op = "scandir"
	OpRename   Op = "rename"
	OpSymlink  Op = "symlink"
	OpSync     Op = "sync"
	OpTruncate Op = "truncate"
	OpChdir    Op = "chdir"
)

// Set is a read-only set of operations.
type Set struct {
	ops map[Op]struct{}
}

func newSet(ops ...Op) Set {
	s := Set{ops: make(map[Op]struct{}, len(ops))}
	for _, op := range ops {
		s.ops[op] = struct{}{}
	}

	return s
}

// Contains reports whether op is a member of the set.
func (s Set) Contains(op Op) bool {
	_, ok := s.ops[op]

	return ok
}

// Len returns the number of operations in the set.
func (s Set) Len() int {
	return len(s.ops)
}

// List returns the members in sorted order.
func (s Set) List() []Op {
	ops := make([]Op, 0, len(s.ops))
	for op := range s.ops {
		ops = append(ops, op)
	}
	slices.Sort(ops)

	return ops
}

// Capabilities describes which operations accept a descriptor instead of a
// path, a directory-relative descriptor, or a follow-symlinks toggle.
type Capabilities struct {
	SupportsFD             Set
	SupportsDirFD          Set
	SupportsFollowSymlinks Set
}

//nolint:gochecknoglobals
var capabilities = sync.OnceValue(nativeCapabilities)

// Caps returns the capability sets of the running platform. They are
// populated on first use and never change afterwards.
func Caps() Capabilities {
	return capabilities()
}
