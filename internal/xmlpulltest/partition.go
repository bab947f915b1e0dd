// Package xmlpulltest holds fixture helpers shared by tests that need to
// feed a document to a Parser in more than one way and check the resulting
// token sequences agree.
package xmlpulltest

// Partitions returns every way of cutting doc into contiguous, non-empty
// pieces, used to check that a Parser produces the same token sequence
// however its input arrives via AppendData. It's exponential in len(doc), so
// callers should keep doc short.
func Partitions(doc []byte) [][][]byte {
	if len(doc) == 0 {
		return [][][]byte{{}}
	}
	if len(doc) == 1 {
		return [][][]byte{{doc}}
	}
	var out [][][]byte
	for cut := 1; cut <= len(doc); cut++ {
		head := doc[:cut]
		for _, rest := range Partitions(doc[cut:]) {
			piece := append([][]byte{head}, rest...)
			out = append(out, piece)
		}
	}
	return out
}

// FixedChunks splits doc into chunks of size n (the last one possibly
// shorter), the partitioning strategy cmd/xmlpullcat uses in practice.
func FixedChunks(doc []byte, n int) [][]byte {
	if n <= 0 {
		panic("xmlpulltest: chunk size must be positive")
	}
	var out [][]byte
	for i := 0; i < len(doc); i += n {
		end := i + n
		if end > len(doc) {
			end = len(doc)
		}
		out = append(out, doc[i:end])
	}
	return out
}
