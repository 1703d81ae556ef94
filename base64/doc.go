// Package base64 implements an incremental base64 decoder with
// alphabet-parameterized byte classification.
//
// Unlike encoding/base64, decoding can be split across any number of
// Update calls followed by a single Finish, and the PEM alphabet
// tolerates interior whitespace per RFC 7468. Padding may be explicit
// ('=' symbols) or implied by the input length; misplaced padding is
// always rejected with the offset of the offending byte.
package base64
