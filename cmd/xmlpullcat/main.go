// Command xmlpullcat drives a Parser over a file or stdin and logs each
// tag, attribute and text token, feeding the input in caller-chosen chunk sizes to exercise the
// AppendData/IncompleteDocument resumption path end to end.
package main

import (
	"flag"
	"io"
	"log"
	"os"

	xmlpull "github.com/belgoking/sergut-sub001"
)

func main() {
	chunkSize := flag.Int("chunk", 4096, "number of bytes to read per AppendData call")
	nameMatching := flag.Bool("name-matching", false, "use the name-matching close-tag variant")
	flag.Parse()

	var r io.Reader = os.Stdin
	if path := flag.Arg(0); path != "" {
		f, err := os.Open(path)
		if err != nil {
			log.Fatalf("xmlpullcat: %v", err)
		}
		defer f.Close()
		r = f
	}

	if err := run(r, *chunkSize, *nameMatching); err != nil {
		log.Fatalf("xmlpullcat: %v", err)
	}
}

func run(r io.Reader, chunkSize int, nameMatching bool) error {
	var opts []xmlpull.Option
	if nameMatching {
		opts = append(opts, xmlpull.WithNameMatching())
	}
	p := xmlpull.New(nil, opts...)
	buf := make([]byte, chunkSize)
	valBuf := make([]byte, 0, 256)
	eof := false

	for {
		tt := p.ParseNext()
		switch tt {
		case xmlpull.IncompleteDocument:
			if eof {
				return p.Err()
			}
			n, err := r.Read(buf)
			if n > 0 {
				p.AppendData(buf[:n])
			}
			if err == io.EOF {
				eof = true
			} else if err != nil {
				return err
			}
		case xmlpull.OpenTag:
			log.Printf("open  %s", p.CurrentTagName())
		case xmlpull.CloseTag:
			log.Printf("close %s", p.CurrentTagName())
		case xmlpull.Attribute:
			n, err := p.CurrentValue(valBuf[:cap(valBuf)])
			if err != nil {
				return err
			}
			log.Printf("attr  %s=%q", p.CurrentAttributeName(), valBuf[:n])
		case xmlpull.Text:
			n, err := p.CurrentValue(valBuf[:cap(valBuf)])
			if err != nil {
				return err
			}
			log.Printf("text  %q", valBuf[:n])
		case xmlpull.CloseDocument:
			return nil
		case xmlpull.Error:
			return p.Err()
		}
	}
}
