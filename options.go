package xmlpull

// Encoding pins a Parser to a specific source encoding, bypassing BOM
// sniffing. AutoDetect (the default) sniffs a BOM and falls back to UTF-8.
type Encoding int

const (
	AutoDetect Encoding = iota
	UTF8
	UTF16BE
	UTF16LE
)

type config struct {
	nameMatching     bool
	encoding         Encoding
	scratchIncrement int
}

func defaultConfig() config {
	return config{encoding: AutoDetect, scratchIncrement: defaultScratchIncrement}
}

// Option configures a Parser at construction time.
type Option func(*config)

// WithNameMatching switches the Parser into the name-matching variant: a
// CloseTag's CurrentTagName is popped from a stack of open element names
// rather than re-derived from the raw "</name>" bytes just parsed. This does
// not validate that the two agree; tag-balance validation remains out of
// scope beyond this one accessor-level change.
func WithNameMatching() Option {
	return func(c *config) { c.nameMatching = true }
}

// WithEncoding pins the source encoding, skipping BOM sniffing. Useful when
// a caller already knows the transport encoding, e.g. from a
// Content-Type charset negotiated out of band.
func WithEncoding(e Encoding) Option {
	return func(c *config) { c.encoding = e }
}

// WithInitialScratchSize sets the growth increment for the name scratch area
// used to reassemble names out of non-UTF-8 input. n must be positive;
// non-positive values are ignored.
func WithInitialScratchSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.scratchIncrement = n
		}
	}
}
