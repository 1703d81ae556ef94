// Package pemkit extracts DER-encoded certificates, keys, CRLs, and CSRs
// from PEM-encoded input. It locates -----BEGIN X-----/-----END X-----
// sections, base64-decodes their bodies, and yields one typed item per
// recognized section. The decoded DER is passed through opaquely; no
// ASN.1 parsing or validation is performed.
package pemkit

import (
	"io"
)

// Item is one decoded object extracted from a PEM input. The concrete
// type identifies the section label that produced it: Certificate,
// PKCS1Key, PKCS8Key, SEC1Key, CRL, CSR, or SubjectPublicKeyInfo.
type Item interface {
	// DER returns the raw decoded bytes of the section body.
	DER() []byte

	// Label returns the PEM section label that produced this item,
	// e.g. "CERTIFICATE".
	Label() string

	item()
}

// Certificate is a DER-encoded X.509 certificate, from a "CERTIFICATE"
// section.
type Certificate []byte

func (c Certificate) DER() []byte { return c }
func (Certificate) Label() string { return "CERTIFICATE" }
func (Certificate) item() {}

// PKCS1Key is a DER-encoded RSA private key per PKCS #1/RFC 8017, from an
// "RSA PRIVATE KEY" section.
type PKCS1Key []byte

func (k PKCS1Key) DER() []byte { return k }
func (PKCS1Key) Label() string { return "RSA PRIVATE KEY" }
func (PKCS1Key) item() {}

// PKCS8Key is a DER-encoded private key per PKCS #8/RFC 5958, from a
// "PRIVATE KEY" section.
type PKCS8Key []byte

func (k PKCS8Key) DER() []byte { return k }
func (PKCS8Key) Label() string { return "PRIVATE KEY" }
func (PKCS8Key) item() {}

// SEC1Key is a DER-encoded EC private key per RFC 5915, from an
// "EC PRIVATE KEY" section.
type SEC1Key []byte

func (k SEC1Key) DER() []byte { return k }
func (SEC1Key) Label() string { return "EC PRIVATE KEY" }
func (SEC1Key) item() {}

// CRL is a DER-encoded certificate revocation list per RFC 5280, from an
// "X509 CRL" section.
type CRL []byte

func (c CRL) DER() []byte { return c }
func (CRL) Label() string { return "X509 CRL" }
func (CRL) item() {}

// CSR is a DER-encoded certificate signing request per PKCS #10/RFC 2986,
// from a "CERTIFICATE REQUEST" section.
type CSR []byte

func (c CSR) DER() []byte { return c }
func (CSR) Label() string { return "CERTIFICATE REQUEST" }
func (CSR) item() {}

// SubjectPublicKeyInfo is a DER-encoded public key per RFC 5280, from a
// "PUBLIC KEY" section.
type SubjectPublicKeyInfo []byte

func (s SubjectPublicKeyInfo) DER() []byte { return s }
func (SubjectPublicKeyInfo) Label() string { return "PUBLIC KEY" }
func (SubjectPublicKeyInfo) item() {}

// itemForLabel maps a section label to its typed item, or nil for labels
// that are syntactically valid PEM but not recognized here.
func itemForLabel(label string, der []byte) Item {
	switch label {
	case "CERTIFICATE":
		return Certificate(der)
	case "RSA PRIVATE KEY":
		return PKCS1Key(der)
	case "PRIVATE KEY":
		return PKCS8Key(der)
	case "EC PRIVATE KEY":
		return SEC1Key(der)
	case "X509 CRL":
		return CRL(der)
	case "CERTIFICATE REQUEST":
		return CSR(der)
	case "PUBLIC KEY":
		return SubjectPublicKeyInfo(der)
	}
	return nil
}

// ReadAll extracts every recognized item from r, in input order.
func ReadAll(r io.Reader) ([]Item, error) {
	rd := NewReader(r)
	var items []Item
	for {
		item, err := rd.Next()
		if err == io.EOF {
			return items, nil
		}
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
}

// collect drains r and keeps only items of type T. Sections of other
// kinds are discarded silently; decode and syntax errors still propagate.
func collect[T Item](r io.Reader) ([]T, error) {
	rd := NewReader(r)
	var out []T
	for {
		item, err := rd.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if v, ok := item.(T); ok {
			out = append(out, v)
		}
	}
}

// Certificates extracts all certificates from r, discarding sections of
// any other kind.
func Certificates(r io.Reader) ([]Certificate, error) { return collect[Certificate](r) }

// PKCS1Keys extracts all RSA (PKCS #1) private keys from r, discarding
// sections of any other kind.
func PKCS1Keys(r io.Reader) ([]PKCS1Key, error) { return collect[PKCS1Key](r) }

// PKCS8Keys extracts all PKCS #8 private keys from r, discarding sections
// of any other kind.
func PKCS8Keys(r io.Reader) ([]PKCS8Key, error) { return collect[PKCS8Key](r) }

// SEC1Keys extracts all SEC 1 EC private keys from r, discarding sections
// of any other kind.
func SEC1Keys(r io.Reader) ([]SEC1Key, error) { return collect[SEC1Key](r) }

// CRLs extracts all certificate revocation lists from r, discarding
// sections of any other kind.
func CRLs(r io.Reader) ([]CRL, error) { return collect[CRL](r) }

// CSRs extracts all certificate signing requests from r, discarding
// sections of any other kind.
func CSRs(r io.Reader) ([]CSR, error) { return collect[CSR](r) }

// PublicKeys extracts all SubjectPublicKeyInfo items from r, discarding
// sections of any other kind.
func PublicKeys(r io.Reader) ([]SubjectPublicKeyInfo, error) {
	return collect[SubjectPublicKeyInfo](r)
}
