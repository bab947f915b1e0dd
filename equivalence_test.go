package xmlpull_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xmlpull "github.com/belgoking/sergut-sub001"
	"github.com/belgoking/sergut-sub001/internal/xmlpulltest"
)

var equivDoc = []byte(`<root a="1"><child>hi &amp; bye</child></root>`)

func TestAppendPartitioningProducesIdenticalTokenSequence(t *testing.T) {
	whole, err := xmlpulltest.Run([][]byte{equivDoc})
	require.NoError(t, err)
	require.NotEmpty(t, whole)

	chunkSizes := []int{1, 2, 3, 5, 7, 11, len(equivDoc)}
	for _, n := range chunkSizes {
		chunked, err := xmlpulltest.Run(xmlpulltest.FixedChunks(equivDoc, n))
		require.NoError(t, err)
		assert.Equal(t, whole, chunked, "chunk size %d diverged", n)
	}
}

func TestEncodingEquivalenceUTF8AndUTF16(t *testing.T) {
	utf8Result, err := xmlpulltest.Run([][]byte{equivDoc})
	require.NoError(t, err)

	be := utf16beEncodeForTest(t, string(equivDoc))
	beResult, err := xmlpulltest.Run([][]byte{be}, xmlpull.WithEncoding(xmlpull.UTF16BE))
	require.NoError(t, err)
	assert.Equal(t, utf8Result, beResult)

	le := utf16leEncodeForTest(t, string(equivDoc))
	leResult, err := xmlpulltest.Run([][]byte{le}, xmlpull.WithEncoding(xmlpull.UTF16LE))
	require.NoError(t, err)
	assert.Equal(t, utf8Result, leResult)
}

func TestSmallPartitionsOfMinimalDocumentAgree(t *testing.T) {
	doc := []byte(`<r/>`)
	for _, parts := range xmlpulltest.Partitions(doc) {
		got, err := xmlpulltest.Run(parts)
		require.NoError(t, err)
		assert.Equal(t, []xmlpulltest.Event{
			{Type: xmlpull.OpenDocument},
			{Type: xmlpull.OpenTag, Name: "r"},
			{Type: xmlpull.CloseTag, Name: "r"},
			{Type: xmlpull.CloseDocument},
		}, got)
	}
}

func utf16beEncodeForTest(t *testing.T, s string) []byte {
	t.Helper()
	out := make([]byte, 0, len(s)*2)
	for _, r := range s {
		out = append(out, byte(r>>8), byte(r))
	}
	return out
}

func utf16leEncodeForTest(t *testing.T, s string) []byte {
	t.Helper()
	out := make([]byte, 0, len(s)*2)
	for _, r := range s {
		out = append(out, byte(r), byte(r>>8))
	}
	return out
}
