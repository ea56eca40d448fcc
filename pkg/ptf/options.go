package ptf

// Option configures Open and FromBytes.
type Option func(*options)

type options struct {
	eager    bool
	noVerify bool
}

// WithEager decodes and parses the session while opening, so that structural
// errors surface from Open instead of from Blocks.
func WithEager() Option {
	return func(o *options) { o.eager = true }
}

// WithoutVerify skips the coverage check that normally follows parsing.
// Intended for diagnosing damaged files.
func WithoutVerify() Option {
	return func(o *options) { o.noVerify = true }
}
