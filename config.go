package yaml

// ParserConfig describes resource limits for processing one input. No
// function of this package takes a ParserConfig: the scanner, the
// builder and Resolve apply their own built-in limits and checks.
type ParserConfig struct {
	// MaxNestingDepth is a combined flow/block collection nesting cap.
	MaxNestingDepth int

	// AllowDuplicateKeys names a switch for the duplicate mapping-key
	// check; false by default.
	AllowDuplicateKeys bool

	// MaxAliasExpansions is a cap on the nodes one Resolve call
	// materializes.
	MaxAliasExpansions int
}

// DefaultParserConfig returns the package's built-in limits.
func DefaultParserConfig() ParserConfig {
	return ParserConfig{MaxNestingDepth: 10000, MaxAliasExpansions: 1_000_000}
}

// EmitterConfig holds internal/emitter output settings. NewEmitter
// applies only Indent; WidthLimit, Canonical and LineBreak are not
// applied.
type EmitterConfig struct {
	Indent      int
	WidthLimit  int
	Canonical   bool
	LineBreak   byte // '\n', '\r', or 0 for platform default ('\n')
}

// DefaultEmitterConfig returns the package's built-in emitter defaults.
func DefaultEmitterConfig() EmitterConfig {
	return EmitterConfig{Indent: 2, WidthLimit: 80, LineBreak: '\n'}
}
