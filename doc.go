// Package xmlpull implements a streaming, non-validating pull parser for
// XML 1.x documents encoded as UTF-8, UTF-16BE or UTF-16LE.
//
// A Parser is fed bytes incrementally via AppendData and driven forward one
// token at a time via ParseNext. Names and attribute values are reported as
// byte ranges rather than copied strings wherever the source encoding makes
// that possible (UTF-8 input borrows directly from the input buffer; other
// encodings are reassembled into a secondary name scratch area). The parser
// never validates tag balance, expands DTDs, or resolves namespaces. The
// opt-in WithNameMatching variant changes which name a CloseTag reports, but
// it does not validate tag balance either.
package xmlpull
