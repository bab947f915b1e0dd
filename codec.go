package xmlpull

import "unicode/utf8"

// Codec decodes one source encoding into Unicode codepoints and encodes
// codepoints back into the canonical UTF-8 this package always reports
// decoded text in, regardless of the source encoding. Implementations are
// the two concrete types in codec_utf8.go and codec_utf16.go (utf16Codec
// covers both byte orders); callers never need to implement this interface
// themselves.
type Codec interface {
	// ParseNext decodes the codepoint at the start of in, returning its
	// value and the number of bytes it occupied. It returns ErrIncompleteChar
	// if in does not yet hold enough bytes to tell, or ErrInvalidChar if the
	// bytes present can never form a valid character.
	ParseNext(in []byte) (cp rune, size int, err error)
	// EncodeChar writes the canonical UTF-8 encoding of cp into out, which
	// must have enough room, and returns the number of bytes written.
	EncodeChar(cp rune, out []byte) (int, error)
	// IsSupportedEncoding reports whether name (as found in an XML
	// declaration's encoding attribute) names this codec's encoding.
	IsSupportedEncoding(name string) bool
	// IsASCII reports whether b is below 0x80. Only in UTF-8 does that make b
	// a complete character by itself; in UTF-16 it is one byte of a two-byte
	// code unit. The parser does not call it.
	IsASCII(b byte) bool
	// Name returns the canonical encoding name, e.g. "UTF-8".
	Name() string
}

// encodeUTF8 writes the canonical UTF-8 encoding of cp into out and returns
// the number of bytes written. out must be at least utf8.UTFMax bytes when
// non-nil and the caller doesn't already know cp encodes shorter.
func encodeUTF8(cp rune, out []byte) (int, error) {
	if !isValidCodepoint(cp) {
		return 0, ErrInvalidChar
	}
	return utf8.EncodeRune(out, cp), nil
}
