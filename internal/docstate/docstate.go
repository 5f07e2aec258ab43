// Package docstate implements spec §3's DocumentState: the accumulated
// %YAML and %TAG directives for one document, shared by reference
// between the parser and the Document it is building (spec §5).
// Grounded on the teacher's internal/common.DefaultTagDirectives and the
// Tag_directives list threaded through internal/parserc/parserc.go.
package docstate

import (
	"fmt"
	"sync/atomic"
)

// Version is a %YAML major.minor pair.
type Version struct {
	Major, Minor int8
}

// TagDirective binds a handle (e.g. "!", "!!", "!e!") to a URI prefix.
type TagDirective struct {
	Handle string
	Prefix string
}

// DefaultTagDirectives are the implicit "!" and "!!" handle bindings
// every document starts with (spec §3), and the table internal/emitter
// writes back out when serializing a document that never set them
// explicitly.
var DefaultTagDirectives = []TagDirective{
	{Handle: "!", Prefix: "!"},
	{Handle: "!!", Prefix: "tag:yaml.org,2002:"},
}

// DocumentState accumulates directives for one document.
type DocumentState struct {
	Version         Version
	VersionExplicit bool
	TagDirectives   []TagDirective
	TagsExplicit    bool
	StartImplicit   bool
	EndImplicit     bool

	refs int32
}

// New returns a DocumentState seeded with the default primary/secondary
// tag handles and a reference count of one.
func New() *DocumentState {
	ds := &DocumentState{
		Version: Version{Major: 1, Minor: 2},
		refs:     1,
	}
	ds.TagDirectives = append(ds.TagDirectives, DefaultTagDirectives...)
	return ds
}

// Ref increments the reference count and returns ds.
func (ds *DocumentState) Ref() *DocumentState {
	atomic.AddInt32(&ds.refs, 1)
	return ds
}

// Unref decrements the reference count and returns the remainder.
func (ds *DocumentState) Unref() int32 {
	return atomic.AddInt32(&ds.refs, -1)
}

// SetVersion records an explicit %YAML directive. Only 1.1 and 1.2 are
// accepted; other values return an error but parsing may continue.
func (ds *DocumentState) SetVersion(major, minor int8) error {
	if ds.VersionExplicit {
		return fmt.Errorf("docstate: duplicate %%YAML directive")
	}
	ds.Version = Version{Major: major, Minor: minor}
	ds.VersionExplicit = true
	if major != 1 || (minor != 1 && minor != 2) {
		return fmt.Errorf("docstate: unsupported YAML version %d.%d", major, minor)
	}
	return nil
}

// AddTagDirective records a %TAG directive, rejecting a duplicate handle.
func (ds *DocumentState) AddTagDirective(handle, prefix string) error {
	for _, td := range ds.TagDirectives {
		if td.Handle == handle {
			isDefault := false
			for _, d := range DefaultTagDirectives {
				isDefault = isDefault || td == d
			}
			if isDefault {
				// overriding a default binding is allowed once.
				break
			}
			return fmt.Errorf("docstate: duplicate %%TAG directive for handle %q", handle)
		}
	}
	ds.TagsExplicit = true
	// remove an existing default entry for this handle, if any, then append.
	filtered := ds.TagDirectives[:0]
	for _, td := range ds.TagDirectives {
		if td.Handle != handle {
			filtered = append(filtered, td)
		}
	}
	ds.TagDirectives = append(filtered, TagDirective{Handle: handle, Prefix: prefix})
	return nil
}

// Lookup resolves a tag handle to its bound prefix.
func (ds *DocumentState) Lookup(handle string) (string, bool) {
	for _, td := range ds.TagDirectives {
		if td.Handle == handle {
			return td.Prefix, true
		}
	}
	return "", false
}

// Reset clears directives back to defaults, for the next document in a
// multi-document stream (spec §4.4 example 4: a second document without
// a %TAG directive sees the directive reset to defaults).
func (ds *DocumentState) Reset() {
	ds.Version = Version{Major: 1, Minor: 2}
	ds.VersionExplicit = false
	ds.TagsExplicit = false
	ds.StartImplicit = false
	ds.EndImplicit = false
	ds.TagDirectives = append(ds.TagDirectives[:0], DefaultTagDirectives...)
}
