package yaml

import "github.com/ohporter/go-fyaml/internal/resolve"

// shortTag and longTag and resolveScalar bridge the root package's tag
// strings to internal/resolve, kept as its own package (verbatim from
// the teacher, Apache-2.0 licensed) since its core-schema tag table and
// timestamp/base64 helpers are generic enough to reuse unmodified.
func shortTag(tag string) string { return resolve.ShortTag(tag) }
func longTag(tag string) string  { return resolve.LongTag(tag) }

func resolveScalar(tag, in string) (string, interface{}, error) {
	return resolve.Resolve(tag, in)
}
