package xmlpull

import (
	"fmt"
)

// TextType selects which termination sentinel and which illegal-character
// policy decodeText applies while scanning a run of text.
type TextType int

const (
	// TextPlain decodes exactly the byte range given, with no sentinel
	// search; used for ranges whose extent is already known (an attribute
	// value or character-data run previously measured by the parser).
	TextPlain TextType = iota
	// TextAttValueApos decodes an attribute value delimited by "'";
	// a literal '<' is illegal.
	TextAttValueApos
	// TextAttValueQuote decodes an attribute value delimited by '"';
	// a literal '<' is illegal.
	TextAttValueQuote
	// TextCharData decodes character data up to (not including) the next
	// '<'.
	TextCharData
)

// predefinedEntities are the five entities spec.md allows; no user-defined
// entities are ever recognized.
var predefinedEntities = map[string]rune{
	"amp":  '&',
	"lt":   '<',
	"gt":   '>',
	"apos": '\'',
	"quot": '"',
}

type textDecodeResult struct {
	isIncomplete bool
	isError      bool
	kind         ErrorKind
	err          error
	writeCount   int
	consumed     int
}

// decodeText scans data (bytes available right after the delimiter that
// opened this run) according to textType, expanding entity and numeric
// character references and rejecting context-illegal characters, and writes
// the canonical UTF-8 result into out. out may be nil to measure writeCount
// without writing.
//
// The sentinel character that terminates AttValueApos/AttValueQuote/CharData
// is never consumed; consumed counts only the bytes that were part of the
// text itself. Running out of data before the sentinel (or, for TextPlain,
// before a reference terminates) reports isIncomplete, not isError.
func decodeText(codec Codec, data []byte, textType TextType, out []byte) textDecodeResult {
	pos := 0
	written := 0
	for {
		if pos >= len(data) {
			if textType == TextPlain {
				return textDecodeResult{writeCount: written, consumed: pos}
			}
			return textDecodeResult{isIncomplete: true}
		}
		// Every comparison below is against the decoded codepoint, never the
		// raw byte at data[pos]: in UTF-16 a sentinel like '<' or '&' is two
		// bytes wide and its leading byte (0x00 for BMP ASCII in UTF-16BE)
		// carries no meaning on its own.
		cp, n, err := codec.ParseNext(data[pos:])
		if err != nil {
			if err == ErrIncompleteChar {
				return textDecodeResult{isIncomplete: true}
			}
			return textDecodeResult{isError: true, kind: EncodingErrorKind, err: err}
		}
		switch textType {
		case TextAttValueApos:
			if cp == '\'' {
				return textDecodeResult{writeCount: written, consumed: pos}
			}
		case TextAttValueQuote:
			if cp == '"' {
				return textDecodeResult{writeCount: written, consumed: pos}
			}
		case TextCharData:
			if cp == '<' {
				return textDecodeResult{writeCount: written, consumed: pos}
			}
		}
		if cp == '<' && (textType == TextAttValueApos || textType == TextAttValueQuote) {
			return textDecodeResult{isError: true, kind: SyntacticErrorKind, err: ErrIllegalLessThan}
		}
		if cp == '&' {
			refCp, refLen, incomplete, err := parseReference(codec, data[pos:], n)
			if incomplete {
				return textDecodeResult{isIncomplete: true}
			}
			if err != nil {
				return textDecodeResult{isError: true, kind: SyntacticErrorKind, err: err}
			}
			if !isXMLChar(refCp) {
				return textDecodeResult{isError: true, kind: SyntacticErrorKind, err: fmt.Errorf("%w: U+%04X", ErrIllegalCharacter, refCp)}
			}
			written += appendRuneCounting(out, written, refCp)
			pos += refLen
			continue
		}
		if !isXMLChar(cp) {
			return textDecodeResult{isError: true, kind: SyntacticErrorKind, err: fmt.Errorf("%w: U+%04X", ErrIllegalCharacter, cp)}
		}
		written += appendRuneCounting(out, written, cp)
		pos += n
	}
}

// appendRuneCounting writes cp's canonical UTF-8 encoding into out at
// offset, truncating the write (but never the returned count) if out is too
// short to hold it. Passing a nil out measures without writing.
func appendRuneCounting(out []byte, offset int, cp rune) int {
	var tmp [4]byte
	n, _ := encodeUTF8(cp, tmp[:])
	if out != nil && offset < len(out) {
		avail := len(out) - offset
		if avail > n {
			avail = n
		}
		copy(out[offset:offset+avail], tmp[:avail])
	}
	return n
}

// decodeRefChar decodes one codepoint of a reference body at data[pos],
// reporting incomplete (rather than an encoding error) when pos is past the
// end of the data currently available. Every character of a reference —
// the leading '#', the digits, the entity name, the trailing ';' — is
// decoded through codec rather than indexed as a raw byte, since none of
// them are necessarily one byte wide in the source encoding.
func decodeRefChar(codec Codec, data []byte, pos int) (cp rune, n int, incomplete bool, err error) {
	if pos >= len(data) {
		return 0, 0, true, nil
	}
	cp, n, err = codec.ParseNext(data[pos:])
	if err != nil {
		if err == ErrIncompleteChar {
			return 0, 0, true, nil
		}
		return 0, 0, false, err
	}
	return cp, n, false, nil
}

// parseReference decodes the entity or character reference whose leading
// '&' starts data[0] and has already been decoded by the caller into
// ampLen source bytes. It returns the referenced codepoint and the total
// number of bytes consumed from data[0], including the terminating ';', or
// reports incomplete if data ends before a ';' could be found.
func parseReference(codec Codec, data []byte, ampLen int) (cp rune, consumed int, incomplete bool, err error) {
	pos := ampLen
	c, n, incomplete, err := decodeRefChar(codec, data, pos)
	if incomplete || err != nil {
		return 0, 0, incomplete, err
	}
	if c == '#' {
		return parseCharRef(codec, data, pos+n)
	}
	var nameBuf [4]rune
	nameLen := 0
	for {
		if c == ';' {
			pos += n
			if nameLen > len(nameBuf) {
				return 0, 0, false, fmt.Errorf("%w: reference name too long", ErrUnknownEntity)
			}
			name := string(nameBuf[:nameLen])
			val, ok := predefinedEntities[name]
			if !ok {
				return 0, 0, false, fmt.Errorf("%w: %q", ErrUnknownEntity, name)
			}
			return val, pos, false, nil
		}
		if nameLen < len(nameBuf) {
			nameBuf[nameLen] = c
		}
		nameLen++
		pos += n
		c, n, incomplete, err = decodeRefChar(codec, data, pos)
		if incomplete || err != nil {
			return 0, 0, incomplete, err
		}
	}
}

// parseCharRef decodes the [0-9]+ ";" or "x" [0-9a-fA-F]+ ";" part of a
// numeric reference starting at data[pos], the character right after the
// '#' (which the caller has already consumed), digit by digit, so that an
// unterminated reference at the end of available input is reported as
// incomplete rather than malformed.
func parseCharRef(codec Codec, data []byte, pos int) (rune, int, bool, error) {
	c, n, incomplete, err := decodeRefChar(codec, data, pos)
	if incomplete || err != nil {
		return 0, 0, incomplete, err
	}
	hex := false
	if c == 'x' || c == 'X' {
		hex = true
		pos += n
	}
	var value int64
	digits := 0
	for {
		c, n, incomplete, err := decodeRefChar(codec, data, pos)
		if incomplete || err != nil {
			return 0, 0, incomplete, err
		}
		if c == ';' {
			pos += n
			break
		}
		var d int64
		switch {
		case hex && isHexDigitRune(c):
			d = int64(hexDigitValueRune(c))
		case !hex && isDigitRune(c):
			d = int64(c - '0')
		default:
			return 0, 0, false, fmt.Errorf("%w: unexpected %q in numeric reference", ErrMalformedReference, c)
		}
		digits++
		base := int64(10)
		if hex {
			base = 16
		}
		value = value*base + d
		if value > 0x10FFFF {
			return 0, 0, false, fmt.Errorf("%w: numeric reference out of range", ErrMalformedReference)
		}
		pos += n
	}
	if digits == 0 {
		return 0, 0, false, fmt.Errorf("%w: empty numeric reference", ErrMalformedReference)
	}
	return rune(value), pos, false, nil
}
