package xmlpull

import "unsafe"

// unsafeString performs a no-copy conversion from buf to a string.
// https://github.com/golang/go/issues/25484 has more info on this.
//
// It is used when comparing a just-parsed name (e.g. against "xml" while
// sniffing the declaration, or an attribute name against a fixed set of
// recognized names) against a constant, on the assumption that the caller
// never mutates the backing buffer (the input buffer, or the name scratch
// area) while the returned string is in use.
func unsafeString(buf []byte) string {
	return *(*string)(unsafe.Pointer(&buf))
}
