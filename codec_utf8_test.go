package xmlpull

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUTF8CodecParseNext(t *testing.T) {
	testCases := []struct {
		name     string
		input    []byte
		wantCp   rune
		wantSize int
		wantErr  error
	}{
		{"empty", nil, 0, 0, ErrIncompleteChar},
		{"ascii", []byte("A"), 'A', 1, nil},
		{"two byte", []byte{0xC3, 0xA9}, 0xE9, 2, nil}, // é
		{"two byte incomplete", []byte{0xC3}, 0, 0, ErrIncompleteChar},
		{"overlong two byte", []byte{0xC0, 0x80}, 0, 0, ErrInvalidChar},
		{"three byte", []byte{0xE4, 0xB8, 0xAD}, 0x4E2D, 3, nil}, // 中
		{"three byte incomplete", []byte{0xE4, 0xB8}, 0, 0, ErrIncompleteChar},
		{"surrogate half rejected", []byte{0xED, 0xA0, 0x80}, 0, 0, ErrInvalidChar},
		{"four byte", []byte{0xF0, 0x9F, 0x98, 0x80}, 0x1F600, 4, nil}, // emoji
		{"four byte incomplete", []byte{0xF0, 0x9F}, 0, 0, ErrIncompleteChar},
		{"four byte out of range lead", []byte{0xF5, 0x80, 0x80, 0x80}, 0, 0, ErrInvalidChar},
		{"stray continuation byte", []byte{0x80}, 0, 0, ErrInvalidChar},
		{"bad continuation", []byte{0xC3, 0x28}, 0, 0, ErrInvalidChar},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cp, size, err := (utf8Codec{}).ParseNext(tc.input)
			if tc.wantErr != nil {
				assert.Equal(t, tc.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantCp, cp)
			assert.Equal(t, tc.wantSize, size)
		})
	}
}

func TestUTF8CodecIsSupportedEncoding(t *testing.T) {
	c := utf8Codec{}
	assert.True(t, c.IsSupportedEncoding("UTF-8"))
	assert.False(t, c.IsSupportedEncoding("UTF-16"))
	assert.False(t, c.IsSupportedEncoding("utf-8"))
}

func TestUTF8CodecEncodeChar(t *testing.T) {
	out := make([]byte, 4)
	n, err := (utf8Codec{}).EncodeChar(0x4E2D, out)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []byte{0xE4, 0xB8, 0xAD}, out[:n])

	_, err = (utf8Codec{}).EncodeChar(0xD800, out)
	assert.ErrorIs(t, err, ErrInvalidChar)
}
