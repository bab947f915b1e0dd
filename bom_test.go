package xmlpull

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectCodecNoBOMDefaultsToUTF8(t *testing.T) {
	c, n := detectCodec([]byte("<r/>"), defaultConfig())
	assert.Equal(t, 0, n)
	_, ok := c.(utf8Codec)
	assert.True(t, ok)
}

func TestDetectCodecUTF16BEBOM(t *testing.T) {
	data := append([]byte{0xFE, 0xFF}, 0, '<')
	c, n := detectCodec(data, defaultConfig())
	assert.Equal(t, 2, n)
	codec, ok := c.(utf16Codec)
	assert.True(t, ok)
	assert.True(t, codec.bigEndian)
}

func TestDetectCodecUTF16LEBOM(t *testing.T) {
	data := append([]byte{0xFF, 0xFE}, '<', 0)
	c, n := detectCodec(data, defaultConfig())
	assert.Equal(t, 2, n)
	codec, ok := c.(utf16Codec)
	assert.True(t, ok)
	assert.False(t, codec.bigEndian)
}

func TestDetectCodecPinnedEncodingIgnoresMismatchedBOM(t *testing.T) {
	cfg := defaultConfig()
	cfg.encoding = UTF8
	data := append([]byte{0xFE, 0xFF}, []byte("<r/>")...)
	c, n := detectCodec(data, cfg)
	assert.Equal(t, 0, n)
	_, ok := c.(utf8Codec)
	assert.True(t, ok)
}

func TestDetectCodecPinnedUTF16BEStripsItsOwnBOM(t *testing.T) {
	cfg := defaultConfig()
	cfg.encoding = UTF16BE
	data := append([]byte{0xFE, 0xFF}, 0, '<')
	c, n := detectCodec(data, cfg)
	assert.Equal(t, 2, n)
	codec, ok := c.(utf16Codec)
	assert.True(t, ok)
	assert.True(t, codec.bigEndian)
}
