package pemkit

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"testing"
	"time"
)

// pemSection wraps payload in a -----BEGIN label----- section using the
// standard library encoder. Tests use encoding/pem only to build inputs;
// the package under test never encodes.
func pemSection(t *testing.T, label string, payload []byte) string {
	t.Helper()
	return string(pem.EncodeToMemory(&pem.Block{Type: label, Bytes: payload}))
}

// testPayload returns a deterministic byte sequence of the given size.
func testPayload(size int) []byte {
	p := make([]byte, size)
	for i := range p {
		p[i] = byte(i*31 + 7)
	}
	return p
}

// generateTestCerts creates n self-signed certificates and returns their
// DER encodings alongside a PEM bundle containing all of them in order.
func generateTestCerts(t *testing.T, n int) (ders [][]byte, bundle string) {
	t.Helper()

	for i := 0; i < n; i++ {
		key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			t.Fatal(err)
		}
		template := &x509.Certificate{
			SerialNumber: big.NewInt(int64(i + 1)),
			Subject:      pkix.Name{CommonName: "test.example.com"},
			NotBefore:    time.Now().Add(-1 * time.Hour),
			NotAfter:     time.Now().Add(24 * time.Hour),
			KeyUsage:     x509.KeyUsageDigitalSignature,
		}
		der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
		if err != nil {
			t.Fatal(err)
		}
		ders = append(ders, der)
		bundle += pemSection(t, "CERTIFICATE", der)
	}
	return ders, bundle
}

// generateTestKeyPEMs returns PEM sections for one EC key encoded as
// SEC 1, PKCS #8, and SubjectPublicKeyInfo, with their DER encodings.
func generateTestKeyPEMs(t *testing.T) (sec1DER, pkcs8DER, spkiDER []byte, sec1PEM, pkcs8PEM, spkiPEM string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	sec1DER, err = x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatal(err)
	}
	pkcs8DER, err = x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatal(err)
	}
	spkiDER, err = x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatal(err)
	}
	sec1PEM = pemSection(t, "EC PRIVATE KEY", sec1DER)
	pkcs8PEM = pemSection(t, "PRIVATE KEY", pkcs8DER)
	spkiPEM = pemSection(t, "PUBLIC KEY", spkiDER)
	return sec1DER, pkcs8DER, spkiDER, sec1PEM, pkcs8PEM, spkiPEM
}
