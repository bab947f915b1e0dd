package xmlpull

import "fmt"

type nameKind int

const (
	nameTag nameKind = iota
	nameAttr
)

type nameRef struct{ begin, end int }

// cursorSnapshot is enough state to undo a tentative lookahead (e.g. "is the
// next character '?' " while sniffing the XML declaration, or "is the next
// character '/' " while sniffing a close tag) that turned out not to apply.
type cursorSnapshot struct {
	curStart    int
	readOffset  int
	currentChar rune
}

// stateSnapshot is the full reader+parser state needed to support save
// points: capturing it before a ParseNext call that goes on to produce
// OpenTag or CloseTag lets a later ParseNext call, after restoring it,
// recompute and re-emit that exact same token.
type stateSnapshot struct {
	tokenType             TokenType
	curStart, readOffset  int
	currentChar           rune
	tagBegin, tagEnd      int
	attrBegin, attrEnd    int
	valueBegin, valueEnd  int
	valueDecodedLen       int
	depth                 int
	incomplete            bool
	tagStackLen           int
}

// Parser is a streaming, non-validating XML pull parser. The zero value is
// not usable; construct one with New.
type Parser struct {
	codec        Codec
	utf8Native   bool
	nameMatching bool

	buf     []byte
	scratch *nameScratch

	readOffset  int
	curStart    int
	currentChar rune

	tagBegin, tagEnd     int
	attrBegin, attrEnd   int
	valueBegin, valueEnd int
	valueDecodedLen      int

	tokenType  TokenType
	depth      int
	incomplete bool
	extracted  bool
	started    bool
	err        *ParseError

	tagStack        []nameRef
	lastTagSnapshot *stateSnapshot
	savePoint       *stateSnapshot

	pendingAttrValue  bool
	pendingTextType   TextType
	pendingValueStart int
}

// New creates a Parser over initial, sniffing a byte-order mark (or falling
// back to UTF-8) unless WithEncoding pins the encoding explicitly. The
// Parser takes ownership of initial; the caller must not modify it
// afterwards.
func New(initial []byte, opts ...Option) *Parser {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	codec, consumed := detectCodec(initial, cfg)
	p := &Parser{
		codec:        codec,
		utf8Native:   isUTF8Codec(codec),
		nameMatching: cfg.nameMatching,
		buf:          initial,
		scratch:      newNameScratch(cfg.scratchIncrement),
		tokenType:    InitialState,
	}
	p.readOffset = consumed
	if p.advance() {
		p.started = true
	}
	return p
}

func isUTF8Codec(c Codec) bool {
	_, ok := c.(utf8Codec)
	return ok
}

// AppendData makes more bytes available to the parser. Call it after a
// ParseNext call returns IncompleteDocument, then call ParseNext again to
// resume from exactly where parsing stopped.
func (p *Parser) AppendData(data []byte) {
	if p.extracted {
		panic("xmlpull: AppendData called after ExtractData")
	}
	p.buf = append(p.buf, data...)
	p.incomplete = false
}

// ExtractData hands ownership of the parser's accumulated input buffer to
// the caller and invalidates the parser; no method may be called on it
// afterwards.
func (p *Parser) ExtractData() []byte {
	data := p.buf
	p.buf = nil
	p.extracted = true
	return data
}

// Err returns the cause of the Error state, or nil if the parser is not in
// it.
func (p *Parser) Err() error {
	if p.err == nil {
		return nil
	}
	return p.err
}

// TokenType reports the current token without advancing the parser.
func (p *Parser) TokenType() TokenType { return p.resultToken() }

// CurrentTagName returns the name of the most recently reported OpenTag or
// CloseTag. The returned slice is valid only until the next ParseNext call.
func (p *Parser) CurrentTagName() []byte { return p.nameSource()[p.tagBegin:p.tagEnd] }

// CurrentAttributeName returns the name of the most recently reported
// Attribute. The returned slice is valid only until the next ParseNext call.
func (p *Parser) CurrentAttributeName() []byte { return p.nameSource()[p.attrBegin:p.attrEnd] }

// CurrentValue decodes the value of the most recently reported Attribute or
// Text token into out, expanding entity and numeric character references,
// and returns the number of bytes written. Passing a nil out measures the
// decoded length without writing.
func (p *Parser) CurrentValue(out []byte) (int, error) {
	raw := p.buf[p.valueBegin:p.valueEnd]
	res := decodeText(p.codec, raw, TextPlain, out)
	if res.isError {
		return 0, res.err
	}
	return res.writeCount, nil
}

func (p *Parser) decodeValue() ([]byte, error) {
	raw := p.buf[p.valueBegin:p.valueEnd]
	measure := decodeText(p.codec, raw, TextPlain, nil)
	if measure.isError {
		return nil, measure.err
	}
	out := make([]byte, measure.writeCount)
	decodeText(p.codec, raw, TextPlain, out)
	return out, nil
}

func (p *Parser) nameSource() []byte {
	if p.utf8Native {
		return p.buf
	}
	return p.scratch.Bytes()
}

// SetSavePointAtLastTag records the most recently emitted OpenTag or
// CloseTag event as a save point, replacing any previous one. It returns
// false if no such event has ever been emitted.
func (p *Parser) SetSavePointAtLastTag() bool {
	if p.lastTagSnapshot == nil {
		return false
	}
	snap := *p.lastTagSnapshot
	p.savePoint = &snap
	return true
}

// RestoreToSavePoint rewinds the parser to the state captured by the last
// SetSavePointAtLastTag call. The next ParseNext call re-emits the tag event
// that was current at save time, followed by the remainder of the document.
// It returns false if no save point has been set.
func (p *Parser) RestoreToSavePoint() bool {
	if p.savePoint == nil {
		return false
	}
	p.restoreState(*p.savePoint)
	return true
}

func (p *Parser) snapshotState() stateSnapshot {
	return stateSnapshot{
		tokenType:       p.tokenType,
		curStart:        p.curStart,
		readOffset:      p.readOffset,
		currentChar:     p.currentChar,
		tagBegin:        p.tagBegin,
		tagEnd:          p.tagEnd,
		attrBegin:       p.attrBegin,
		attrEnd:         p.attrEnd,
		valueBegin:      p.valueBegin,
		valueEnd:        p.valueEnd,
		valueDecodedLen: p.valueDecodedLen,
		depth:           p.depth,
		incomplete:      p.incomplete,
		tagStackLen:     len(p.tagStack),
	}
}

func (p *Parser) restoreState(s stateSnapshot) {
	p.tokenType = s.tokenType
	p.curStart = s.curStart
	p.readOffset = s.readOffset
	p.currentChar = s.currentChar
	p.tagBegin, p.tagEnd = s.tagBegin, s.tagEnd
	p.attrBegin, p.attrEnd = s.attrBegin, s.attrEnd
	p.valueBegin, p.valueEnd = s.valueBegin, s.valueEnd
	p.valueDecodedLen = s.valueDecodedLen
	p.depth = s.depth
	p.incomplete = s.incomplete
	p.pendingAttrValue = false
	if p.nameMatching && s.tagStackLen <= len(p.tagStack) {
		p.tagStack = p.tagStack[:s.tagStackLen]
	}
}

// ParseNext advances the parser by one token and returns it. Once it
// returns Error or CloseDocument, every subsequent call keeps returning the
// same value.
func (p *Parser) ParseNext() TokenType {
	if p.extracted {
		panic("xmlpull: ParseNext called after ExtractData")
	}
	if !p.started {
		// New's own priming advance() can fail for a short or empty initial
		// buffer (the documented New(nil, opts...) + AppendData pattern); no
		// currentChar has ever been validly decoded yet, so every later
		// '<'/name-start precondition check would otherwise run against its
		// rune zero value instead of the first real byte.
		if !p.advance() {
			return p.resultToken()
		}
		p.started = true
	}
	if p.incomplete {
		return IncompleteDocument
	}
	if p.tokenType == CloseDocument || p.tokenType == Error {
		return p.tokenType
	}
	pre := p.snapshotState()
	switch p.tokenType {
	case InitialState:
		p.handleInitialState()
	case OpenDocument:
		if !p.parseOpenTag() {
			p.fail(SyntacticErrorKind, ErrExpectedRootElement)
		}
	case OpenTag, Attribute:
		p.handleOpenTagOrAttribute()
	case CloseTag:
		p.handleCloseTagContinuation()
	case Text:
		if !p.parseTagOnly() {
			p.fail(SyntacticErrorKind, ErrUnexpectedAfterTag)
		}
	default:
		panic(fmt.Sprintf("xmlpull: unreachable token state %v", p.tokenType))
	}
	result := p.resultToken()
	if result == OpenTag || result == CloseTag {
		p.lastTagSnapshot = &pre
	}
	return result
}

func (p *Parser) resultToken() TokenType {
	if p.tokenType == Error || p.tokenType == CloseDocument {
		return p.tokenType
	}
	if p.incomplete {
		return IncompleteDocument
	}
	return p.tokenType
}

func (p *Parser) fail(kind ErrorKind, cause error) {
	if p.tokenType == Error {
		return
	}
	p.tokenType = Error
	p.err = &ParseError{Kind: kind, Err: cause}
}

// advance decodes the character at the current read offset into
// currentChar and moves past it. It returns false (latching either
// p.incomplete or an Error) if that isn't possible yet.
func (p *Parser) advance() bool {
	if p.tokenType == Error {
		return false
	}
	start := p.readOffset
	avail := p.buf[start:]
	if len(avail) == 0 {
		p.incomplete = true
		return false
	}
	cp, n, err := p.codec.ParseNext(avail)
	if err != nil {
		if err == ErrIncompleteChar {
			p.incomplete = true
			return false
		}
		p.fail(EncodingErrorKind, err)
		return false
	}
	p.curStart = start
	p.currentChar = cp
	p.readOffset = start + n
	return true
}

func (p *Parser) snapshotCursor() cursorSnapshot {
	return cursorSnapshot{p.curStart, p.readOffset, p.currentChar}
}

func (p *Parser) restoreCursor(s cursorSnapshot) {
	p.curStart, p.readOffset, p.currentChar = s.curStart, s.readOffset, s.currentChar
}

func (p *Parser) skipS() bool {
	for isSChar(p.currentChar) {
		if !p.advance() {
			return false
		}
	}
	return true
}

// parseName parses a Name production starting at the already-decoded
// currentChar, reporting begin/end as either an offset range into the input
// buffer (UTF-8 source: zero-copy) or into the name scratch area (other
// source encodings: reassembled as UTF-8 one codepoint at a time).
//
// If the buffer runs out before a non-name character turns up, the name
// can't yet be told apart from one that simply has more characters still to
// arrive, so parseName undoes everything it did this call — cursor and any
// scratch bytes appended — before reporting failure with p.incomplete set.
// That way the caller always sees its own entry precondition (currentChar
// still '<', or whatever it was) intact on the next attempt and can simply
// retry the whole surrounding production from scratch once AppendData has
// supplied more data, rather than needing its own resume bookkeeping for a
// name interrupted mid-scan.
func (p *Parser) parseName(kind nameKind) bool {
	if !isNameStartChar(p.currentChar) {
		return false
	}
	snap := p.snapshotCursor()
	scratchStart := p.scratch.Len()
	var begin, end int
	if p.utf8Native {
		begin = p.curStart
	} else {
		begin = scratchStart
	}
	for {
		if !p.utf8Native {
			p.scratch.AppendRune(p.currentChar)
		}
		if p.utf8Native {
			end = p.readOffset
		} else {
			end = p.scratch.Len()
		}
		if !p.advance() {
			if p.incomplete {
				p.restoreCursor(snap)
				if !p.utf8Native {
					p.scratch.Truncate(scratchStart)
				}
			}
			return false
		}
		if !isNameChar(p.currentChar) {
			break
		}
	}
	p.setName(kind, begin, end)
	return true
}

func (p *Parser) setName(kind nameKind, begin, end int) {
	switch kind {
	case nameTag:
		p.tagBegin, p.tagEnd = begin, end
	case nameAttr:
		p.attrBegin, p.attrEnd = begin, end
	}
}

func isValidVersionValue(v []byte) bool {
	if len(v) < 3 || v[0] != '1' || v[1] != '.' {
		return false
	}
	for _, b := range v[2:] {
		if !isDigit(b) {
			return false
		}
	}
	return true
}

// tryXMLDecl consumes an optional XML declaration. If the input doesn't
// start with "<?", nothing is consumed. It returns false if it latched
// Error or incomplete along the way.
func (p *Parser) tryXMLDecl() bool {
	if p.currentChar != '<' {
		return true
	}
	snap := p.snapshotCursor()
	// bail unwinds every byte this call has looked at, including anything a
	// nested parseAttribute left in pendingAttrValue, so a later retry (once
	// AppendData supplies more data) reparses the whole declaration from "<"
	// rather than resuming mid-declaration against a stale cursor.
	bail := func() bool {
		p.restoreCursor(snap)
		p.pendingAttrValue = false
		return false
	}
	if !p.advance() {
		return bail()
	}
	if p.currentChar != '?' {
		p.restoreCursor(snap)
		return true
	}
	if !p.advance() {
		return bail()
	}
	if !p.parseName(nameTag) {
		if p.incomplete {
			return bail()
		}
		p.restoreCursor(snap)
		p.fail(SyntacticErrorKind, ErrMalformedXMLDecl)
		return false
	}
	if unsafeString(p.CurrentTagName()) != "xml" {
		p.fail(SyntacticErrorKind, ErrMalformedXMLDecl)
		return false
	}
	if !p.skipS() {
		return bail()
	}
	for {
		matched, ok := p.parseAttribute(false)
		if !ok {
			if p.incomplete {
				return bail()
			}
			return false
		}
		if !matched {
			break
		}
		switch unsafeString(p.CurrentAttributeName()) {
		case "version":
			val, err := p.decodeValue()
			if err != nil {
				p.fail(SyntacticErrorKind, err)
				return false
			}
			if !isValidVersionValue(val) {
				p.fail(SyntacticErrorKind, ErrUnsupportedVersion)
				return false
			}
		case "encoding":
			val, err := p.decodeValue()
			if err != nil {
				p.fail(SyntacticErrorKind, err)
				return false
			}
			if !p.codec.IsSupportedEncoding(string(val)) {
				p.fail(SyntacticErrorKind, ErrUnsupportedEncoding)
				return false
			}
		default:
			// standalone and any other attribute are ignored.
		}
	}
	if p.currentChar != '?' {
		p.fail(SyntacticErrorKind, ErrMalformedXMLDecl)
		return false
	}
	if !p.advance() {
		return bail()
	}
	if p.currentChar != '>' {
		p.fail(SyntacticErrorKind, ErrMalformedXMLDecl)
		return false
	}
	if !p.advance() {
		return bail()
	}
	return true
}

func (p *Parser) handleInitialState() {
	if !p.tryXMLDecl() {
		return
	}
	if !p.skipS() {
		return
	}
	if p.tokenType == Error {
		return
	}
	p.tokenType = OpenDocument
}

// parseAttribute parses one "Name S? '=' S? AttValue" production starting
// at the already-decoded currentChar. matched is false (with ok true) if
// currentChar isn't a name start character, meaning there is no attribute
// here at all. reportAsToken controls whether a successful parse sets
// tokenType to Attribute (false is used while sniffing the XML declaration,
// whose pseudo-attributes are never reported as tokens).
func (p *Parser) parseAttribute(reportAsToken bool) (matched bool, ok bool) {
	if !p.pendingAttrValue {
		snap := p.snapshotCursor()
		undo := func() (bool, bool) {
			p.restoreCursor(snap)
			return false, false
		}
		if !p.parseName(nameAttr) {
			if p.incomplete {
				return false, false
			}
			return false, true
		}
		if !p.skipS() {
			return undo()
		}
		if p.currentChar != '=' {
			p.fail(SyntacticErrorKind, ErrExpectedEquals)
			return false, false
		}
		if !p.advance() {
			return undo()
		}
		if !p.skipS() {
			return undo()
		}
		if p.currentChar != '\'' && p.currentChar != '"' {
			p.fail(SyntacticErrorKind, ErrExpectedQuote)
			return false, false
		}
		p.pendingTextType = TextAttValueQuote
		if p.currentChar == '\'' {
			p.pendingTextType = TextAttValueApos
		}
		p.pendingValueStart = p.readOffset
		p.pendingAttrValue = true
	}
	// pendingAttrValue makes the value scan below resumable on its own: once
	// the name, '=' and opening quote are behind us, a later IncompleteDocument
	// here must not re-enter parseName against whatever currentChar happens to
	// be (the quote character, not a name start).
	textType := p.pendingTextType
	start := p.pendingValueStart
	res := decodeText(p.codec, p.buf[start:], textType, nil)
	if res.isIncomplete {
		p.incomplete = true
		return false, false
	}
	if res.isError {
		p.pendingAttrValue = false
		p.fail(res.kind, res.err)
		return false, false
	}
	valueBegin, valueEnd := start, start+res.consumed
	p.readOffset = valueEnd
	// The first advance consumes the closing quote, the second decodes the
	// character after it.
	if !p.advance() || !p.advance() {
		return false, false
	}
	if !p.skipS() {
		return false, false
	}
	p.pendingAttrValue = false
	p.valueBegin, p.valueEnd = valueBegin, valueEnd
	p.valueDecodedLen = res.writeCount
	if reportAsToken {
		p.tokenType = Attribute
	}
	return true, true
}

// parseText parses a character-data run starting at the already-decoded
// currentChar. It never applies when currentChar is already '<'.
func (p *Parser) parseText() bool {
	if p.currentChar == '<' {
		return false
	}
	start := p.curStart
	res := decodeText(p.codec, p.buf[start:], TextCharData, nil)
	if res.isIncomplete {
		p.incomplete = true
		return true
	}
	if res.isError {
		p.fail(res.kind, res.err)
		return true
	}
	p.valueBegin, p.valueEnd = start, start+res.consumed
	p.valueDecodedLen = res.writeCount
	p.readOffset = p.valueEnd
	if !p.advance() {
		return true
	}
	p.tokenType = Text
	return true
}

// parseOpenTag parses "'<' Name S?" starting at the already-decoded
// currentChar. It returns false, with the cursor restored, if currentChar
// isn't '<' followed by a name start character (meaning this isn't an open
// tag at all).
func (p *Parser) parseOpenTag() bool {
	if p.currentChar != '<' {
		return false
	}
	snap := p.snapshotCursor()
	if !p.advance() {
		return true
	}
	if !p.parseName(nameTag) {
		p.restoreCursor(snap)
		if p.incomplete {
			return true
		}
		return false
	}
	if !p.skipS() {
		p.restoreCursor(snap)
		return true
	}
	if p.nameMatching {
		p.tagStack = append(p.tagStack, nameRef{p.tagBegin, p.tagEnd})
	}
	p.depth++
	p.tokenType = OpenTag
	return true
}

// parseCloseTag parses "'</' Name S? '>'" starting at the already-decoded
// currentChar. It returns false when currentChar isn't '<', or, with the
// cursor restored, when '<' is not followed by '/' (meaning this isn't a
// close tag at all); any later grammar violation latches Error and returns
// true (handled).
func (p *Parser) parseCloseTag() bool {
	if p.currentChar != '<' {
		return false
	}
	snap := p.snapshotCursor()
	if !p.advance() {
		return true
	}
	if p.currentChar != '/' {
		p.restoreCursor(snap)
		return false
	}
	if !p.advance() {
		p.restoreCursor(snap)
		return true
	}
	if !p.parseName(nameTag) {
		p.restoreCursor(snap)
		if p.incomplete {
			return true
		}
		p.fail(SyntacticErrorKind, ErrExpectedCloseTagName)
		return true
	}
	if !p.skipS() {
		p.restoreCursor(snap)
		return true
	}
	if p.currentChar != '>' {
		p.fail(SyntacticErrorKind, ErrExpectedCloseTagEnd)
		return true
	}
	p.reportCloseTagName()
	// Skipping the trailing advance when this closes the outermost element
	// (depth == 1, not yet decremented) avoids demanding one more decoded
	// character than the document needs to have; the next ParseNext call
	// resolves straight to CloseDocument without parsing anything further.
	if p.depth > 1 {
		if !p.advance() {
			p.restoreCursor(snap)
			return true
		}
	}
	p.tokenType = CloseTag
	return true
}

// reportCloseTagName sets tagBegin/tagEnd to the name a CloseTag should
// report: the raw "</name>" text just parsed by default, or (in the
// name-matching variant) the top of the open-element stack, peeked but not
// yet popped — the pop happens in lockstep with the depth decrement on the
// following ParseNext call.
func (p *Parser) reportCloseTagName() {
	if p.nameMatching && len(p.tagStack) > 0 {
		top := p.tagStack[len(p.tagStack)-1]
		p.tagBegin, p.tagEnd = top.begin, top.end
	}
}

func (p *Parser) parseTagOrText() bool {
	if p.parseCloseTag() {
		return true
	}
	if p.parseOpenTag() {
		return true
	}
	return p.parseText()
}

func (p *Parser) parseTagOnly() bool {
	if p.parseCloseTag() {
		return true
	}
	return p.parseOpenTag()
}

func (p *Parser) handleOpenTagOrAttribute() {
	matched, ok := p.parseAttribute(true)
	if !ok {
		return
	}
	if matched {
		return
	}
	snap := p.snapshotCursor()
	switch p.currentChar {
	case '>':
		if !p.advance() {
			return
		}
		if !p.parseTagOrText() {
			p.fail(SyntacticErrorKind, ErrUnexpectedAfterTag)
		} else if p.incomplete {
			p.restoreCursor(snap)
		}
	case '/':
		if !p.advance() {
			return
		}
		if p.currentChar != '>' {
			p.fail(SyntacticErrorKind, ErrExpectedSelfCloseEnd)
			return
		}
		p.reportCloseTagName()
		if p.depth > 1 {
			if !p.advance() {
				p.restoreCursor(snap)
				return
			}
		}
		p.tokenType = CloseTag
	default:
		p.fail(SyntacticErrorKind, ErrUnexpectedInOpenTag)
	}
}

func (p *Parser) handleCloseTagContinuation() {
	p.depth--
	var popped []nameRef
	if p.nameMatching && len(p.tagStack) > 0 {
		popped = p.tagStack[len(p.tagStack)-1:]
		p.tagStack = p.tagStack[:len(p.tagStack)-1]
	}
	if p.depth == 0 {
		p.tokenType = CloseDocument
		return
	}
	if !p.parseTagOrText() {
		p.fail(SyntacticErrorKind, ErrUnexpectedAfterTag)
	} else if p.incomplete {
		// The retry after AppendData runs this function again; undo the
		// decrement and pop so they happen once.
		p.depth++
		p.tagStack = append(p.tagStack, popped...)
	}
}
