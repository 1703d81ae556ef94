package base64

// Classification codes. Values below 64 are the decoded 6-bit symbol
// values; the sentinels occupy the range no symbol can produce.
const (
	codeInvalid = 0x80 // byte must not appear in input
	codeSkip    = 0x81 // byte is allowed and ignored
	codePad     = 0x82 // byte is the padding symbol '='
)

const symbols = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// Alphabet classifies every possible input byte as a 6-bit symbol value,
// padding, ignorable whitespace, or invalid. The two instances are
// Standard and PEM; an Alphabet is immutable once built.
type Alphabet struct {
	name  string
	table *[256]uint8
}

func (a *Alphabet) String() string { return a.name }

// classify returns the classification code for b.
func (a *Alphabet) classify(b byte) uint8 { return a.table[b] }

var (
	// Standard is the strict base64 alphabet of RFC 4648 section 4.
	// Whitespace and all other non-alphabet bytes are rejected.
	Standard = &Alphabet{name: "standard", table: newTable(nil)}

	// PEM is the base64 alphabet as used inside PEM bodies per RFC 7468
	// section 3: identical to Standard, except that horizontal tab, line
	// feed, vertical tab, form feed, carriage return, and space are
	// silently skipped.
	PEM = &Alphabet{name: "pem", table: newTable([]byte("\t\n\v\f\r "))}
)

func newTable(skip []byte) *[256]uint8 {
	var t [256]uint8
	for i := range t {
		t[i] = codeInvalid
	}
	for v := 0; v < len(symbols); v++ {
		t[symbols[v]] = uint8(v)
	}
	t['='] = codePad
	for _, b := range skip {
		t[b] = codeSkip
	}
	return &t
}
