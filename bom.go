package xmlpull

import "bytes"

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
)

// detectCodec picks the Codec for the start of a document and reports how
// many leading bytes of initial were consumed by a byte-order mark (0 if
// none, or if none applies for a pinned encoding).
func detectCodec(initial []byte, cfg config) (Codec, int) {
	switch cfg.encoding {
	case UTF16BE:
		return utf16Codec{bigEndian: true}, bomLen(initial, bomUTF16BE)
	case UTF16LE:
		return utf16Codec{bigEndian: false}, bomLen(initial, bomUTF16LE)
	case UTF8:
		return utf8Codec{}, bomLen(initial, bomUTF8)
	}
	switch {
	case bytes.HasPrefix(initial, bomUTF16BE):
		return utf16Codec{bigEndian: true}, len(bomUTF16BE)
	case bytes.HasPrefix(initial, bomUTF16LE):
		return utf16Codec{bigEndian: false}, len(bomUTF16LE)
	case bytes.HasPrefix(initial, bomUTF8):
		return utf8Codec{}, len(bomUTF8)
	default:
		return utf8Codec{}, 0
	}
}

func bomLen(initial, bom []byte) int {
	if bytes.HasPrefix(initial, bom) {
		return len(bom)
	}
	return 0
}
