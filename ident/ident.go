// Package ident produces the opaque identifiers shared by pages and blocks.
package ident

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator hands out identifiers that are unique for the process lifetime.
type Generator interface {
	NewID() string
}

type uuidGen struct{}

func (uuidGen) NewID() string { return uuid.NewString() }

// UUID returns the production generator backed by random v4 UUIDs.
func UUID() Generator { return uuidGen{} }

// Sequence is a deterministic generator yielding prefix-1, prefix-2, ...
// It is safe for concurrent use.
type Sequence struct {
	prefix string
	n      atomic.Uint64
}

// NewSequence returns a Sequence that starts at 1.
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

// NewID returns the next identifier in the sequence.
func (s *Sequence) NewID() string {
	return s.prefix + "-" + strconv.FormatUint(s.n.Add(1), 10)
}

// Func adapts a plain function to Generator.
type Func func() string

func (f Func) NewID() string { return f() }
