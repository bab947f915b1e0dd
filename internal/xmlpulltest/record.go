package xmlpulltest

import (
	"fmt"

	xmlpull "github.com/belgoking/sergut-sub001"
)

// Event is a flattened, comparable summary of one token a Parser produced,
// suitable for asserting two differently-chunked runs over the same
// document agree.
type Event struct {
	Type  xmlpull.TokenType
	Name  string
	Value string
}

// Run feeds chunks to a fresh Parser one at a time via AppendData, recording
// every non-IncompleteDocument token until CloseDocument or Error, and
// returns the recorded sequence plus the terminal error (nil on a clean
// CloseDocument).
func Run(chunks [][]byte, opts ...xmlpull.Option) ([]Event, error) {
	p := xmlpull.New(nil, opts...)
	var events []Event
	valBuf := make([]byte, 0, 4096)
	chunkIdx := 0

	for {
		tt := p.ParseNext()
		switch tt {
		case xmlpull.IncompleteDocument:
			if chunkIdx >= len(chunks) {
				return events, fmt.Errorf("xmlpulltest: ran out of chunks while incomplete")
			}
			p.AppendData(chunks[chunkIdx])
			chunkIdx++
		case xmlpull.OpenTag, xmlpull.CloseTag:
			events = append(events, Event{Type: tt, Name: string(p.CurrentTagName())})
		case xmlpull.Attribute:
			n, err := p.CurrentValue(valBuf[:cap(valBuf)])
			if err != nil {
				return events, err
			}
			events = append(events, Event{Type: tt, Name: string(p.CurrentAttributeName()), Value: string(valBuf[:n])})
		case xmlpull.Text:
			n, err := p.CurrentValue(valBuf[:cap(valBuf)])
			if err != nil {
				return events, err
			}
			events = append(events, Event{Type: tt, Value: string(valBuf[:n])})
		case xmlpull.OpenDocument:
			events = append(events, Event{Type: tt})
		case xmlpull.CloseDocument:
			events = append(events, Event{Type: tt})
			return events, nil
		case xmlpull.Error:
			return events, p.Err()
		}
	}
}
