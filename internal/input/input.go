// Package input owns the identity and lifetime of a byte source consumed
// by the scanner. An Input is reference counted: every Token whose Atom
// points into it holds a strong reference, and the bytes must outlive
// every such Token.
package input

import "sync/atomic"

// Input is a named byte stream plus its start position. The core consumes
// an abstract byte input provider; raw I/O (reading from paths or file
// handles) is an external collaborator's job, so Input simply wraps an
// already-resident byte slice.
type Input struct {
	label string
	data  []byte
	refs  int32
}

// New wraps data under label with an initial reference count of one.
func New(label string, data []byte) *Input {
	return &Input{label: label, data: data, refs: 1}
}

// Label returns the input's diagnostic label.
func (in *Input) Label() string { return in.label }

// Data returns the full resident byte slice.
func (in *Input) Data() []byte { return in.data }

// Len returns the number of resident bytes.
func (in *Input) Len() int { return len(in.data) }

// Slice returns the bounded [start, end) byte range. Both bounds are
// clamped to the resident data so a caller never runs off the end.
func (in *Input) Slice(start, end int) []byte {
	if start < 0 {
		start = 0
	}
	if end > len(in.data) {
		end = len(in.data)
	}
	if start > end {
		start = end
	}
	return in.data[start:end]
}

// Ref increments the reference count and returns in, for chaining.
func (in *Input) Ref() *Input {
	atomic.AddInt32(&in.refs, 1)
	return in
}

// Unref decrements the reference count. When it reaches zero the Input
// is considered released; its backing slice may be dropped by the owner.
// Returns the remaining count.
func (in *Input) Unref() int32 {
	return atomic.AddInt32(&in.refs, -1)
}

// Refs reports the current reference count, for tests and diagnostics.
func (in *Input) Refs() int32 {
	return atomic.LoadInt32(&in.refs)
}
