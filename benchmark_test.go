package xmlpull

import "testing"

var benchDoc = []byte(`<?xml version="1.0" encoding="UTF-8"?>
<catalog xmlns:ignored="urn:example">
  <book id="bk101" price="44.95">
    <author>Gambardella, Matthew</author>
    <title>XML Developer's Guide</title>
    <description>An in-depth look at creating applications with XML.</description>
  </book>
  <book id="bk102" price="5.95">
    <author>Ralls, Kim</author>
    <title>Midnight Rain</title>
    <description>A former architect battles corporate zombies.</description>
  </book>
</catalog>`)

func BenchmarkParseNextWholeDocument(b *testing.B) {
	var valBuf [256]byte
	for i := 0; i < b.N; i++ {
		p := New(benchDoc)
		for {
			tt := p.ParseNext()
			switch tt {
			case Attribute, Text:
				p.CurrentValue(valBuf[:0])
			case Error, CloseDocument:
				goto done
			}
		}
	done:
	}
}

func BenchmarkParseNextChunked(b *testing.B) {
	const chunkSize = 64
	for i := 0; i < b.N; i++ {
		p := New(nil)
		pos := 0
		for {
			if pos < len(benchDoc) {
				end := pos + chunkSize
				if end > len(benchDoc) {
					end = len(benchDoc)
				}
				p.AppendData(benchDoc[pos:end])
				pos = end
			}
			tt := p.ParseNext()
			if tt == CloseDocument || tt == Error {
				break
			}
		}
	}
}

func BenchmarkUTF8CodecParseNext(b *testing.B) {
	c := utf8Codec{}
	data := []byte("hello world, 日本語")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		off := 0
		for off < len(data) {
			_, n, err := c.ParseNext(data[off:])
			if err != nil {
				b.Fatal(err)
			}
			off += n
		}
	}
}
