package signing_test

import (
	"bytes"
	"crypto/x509"
	"testing"

	"github.com/beevik/etree"
	dsig "github.com/russellhaering/goxmldsig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/ubl/internal/signing"
)

const unsignedInvoice = `<?xml version="1.0" encoding="UTF-8"?>
<Invoice xmlns="urn:oasis:names:specification:ubl:schema:xsd:Invoice-2" xmlns:cac="urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2" xmlns:cbc="urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2" xmlns:ext="urn:oasis:names:specification:ubl:schema:xsd:CommonExtensionComponents-2">
  <cbc:UBLVersionID>2.1</cbc:UBLVersionID>
  <cbc:ID>INV-1</cbc:ID>
  <cbc:IssueDate>2024-01-15</cbc:IssueDate>
  <cac:LegalMonetaryTotal>
    <cbc:PayableAmount currencyID="EUR">100.00</cbc:PayableAmount>
  </cac:LegalMonetaryTotal>
</Invoice>
`

func newKeyPair(t *testing.T) (dsig.X509KeyStore, *x509.Certificate) {
	t.Helper()
	ks := dsig.RandomKeyStoreForTest()
	_, der, err := ks.GetKeyPair()
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	return ks, cert
}

func sign(t *testing.T, ks dsig.X509KeyStore, data string) []byte {
	t.Helper()
	signer, err := signing.NewSigner(ks)
	require.NoError(t, err)
	out, err := signer.Sign([]byte(data))
	require.NoError(t, err)
	return out
}

func TestSign_PlacesSignatureInExtensionContent(t *testing.T) {
	ks, _ := newKeyPair(t)
	out := sign(t, ks, unsignedInvoice)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	root := doc.Root()

	first := root.ChildElements()[0]
	assert.Equal(t, "ext:UBLExtensions", first.FullTag())

	sig := root.FindElement("ext:UBLExtensions/ext:UBLExtension/ext:ExtensionContent/Signature")
	require.NotNil(t, sig)
	assert.Equal(t, dsig.Namespace, sig.NamespaceURI())

	// nothing left dangling after the last business element
	last := root.ChildElements()[len(root.ChildElements())-1]
	assert.Equal(t, "LegalMonetaryTotal", last.Tag)
}

func TestSign_SingleSignature(t *testing.T) {
	ks, _ := newKeyPair(t)
	out := sign(t, ks, unsignedInvoice)

	assert.Equal(t, 1, bytes.Count(out, []byte("<ds:Signature ")))

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	for _, child := range doc.Root().ChildElements() {
		assert.NotEqual(t, "Signature", child.Tag, "signature left under the root")
	}

	// signing twice adds a second UBLExtension, still one signature each
	twice := sign(t, ks, string(out))
	assert.Equal(t, 2, bytes.Count(twice, []byte("<ds:Signature ")))
	require.NoError(t, doc.ReadFromBytes(twice))
	assert.Len(t, doc.Root().FindElements("ext:UBLExtensions/ext:UBLExtension"), 2)
}

func TestSignVerify_RoundTrip(t *testing.T) {
	ks, cert := newKeyPair(t)
	out := sign(t, ks, unsignedInvoice)

	result, err := signing.NewVerifier(cert).Verify(out)
	require.NoError(t, err)
	assert.True(t, result.Valid, "errors: %v", result.Errors)
	assert.True(t, result.SignatureFound)
	assert.True(t, result.SignatureValid)
	require.NotNil(t, result.Signer)
	assert.Equal(t, "0", result.Signer.SerialNumber)
}

func TestVerify_Tampered(t *testing.T) {
	ks, cert := newKeyPair(t)
	out := sign(t, ks, unsignedInvoice)
	tampered := bytes.Replace(out, []byte(">100.00<"), []byte(">1.00<"), 1)
	require.NotEqual(t, out, tampered)

	result, err := signing.NewVerifier(cert).Verify(tampered)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.True(t, result.SignatureFound)
	assert.False(t, result.SignatureValid)
	assert.NotEmpty(t, result.Errors)
}

func TestVerify_UntrustedCertificate(t *testing.T) {
	ks, _ := newKeyPair(t)
	_, other := newKeyPair(t)
	out := sign(t, ks, unsignedInvoice)

	result, err := signing.NewVerifier(other).Verify(out)
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestVerify_NoSignature(t *testing.T) {
	_, cert := newKeyPair(t)

	result, err := signing.NewVerifier(cert).Verify([]byte(unsignedInvoice))
	require.Error(t, err)

	var sigErr *signing.SigningError
	require.ErrorAs(t, err, &sigErr)
	assert.Equal(t, signing.ErrCodeNoSignature, sigErr.Code)
	assert.False(t, result.SignatureFound)
}

func TestSign_Malformed(t *testing.T) {
	ks, _ := newKeyPair(t)
	signer, err := signing.NewSigner(ks)
	require.NoError(t, err)

	_, err = signer.Sign([]byte("<Invoice>"))
	var sigErr *signing.SigningError
	require.ErrorAs(t, err, &sigErr)
	assert.Equal(t, signing.ErrCodeMalformed, sigErr.Code)
}

func TestSign_DeclaresExtensionNamespace(t *testing.T) {
	ks, cert := newKeyPair(t)
	input := `<Invoice xmlns="urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"><ID>1</ID></Invoice>`
	out := sign(t, ks, input)

	assert.Contains(t, string(out), `xmlns:ext="urn:oasis:names:specification:ubl:schema:xsd:CommonExtensionComponents-2"`)

	result, err := signing.NewVerifier(cert).Verify(out)
	require.NoError(t, err)
	assert.True(t, result.Valid, "errors: %v", result.Errors)
}

func TestHasSignature(t *testing.T) {
	ks, _ := newKeyPair(t)

	assert.False(t, signing.HasSignature([]byte(unsignedInvoice)))
	assert.True(t, signing.HasSignature(sign(t, ks, unsignedInvoice)))
	assert.False(t, signing.HasSignature([]byte("not xml Signature")))
}

func TestLoadSigner_MissingFiles(t *testing.T) {
	_, err := signing.LoadSigner("/nonexistent/cert.pem", "/nonexistent/key.pem")
	var sigErr *signing.SigningError
	require.ErrorAs(t, err, &sigErr)
	assert.Equal(t, signing.ErrCodeKeyMaterial, sigErr.Code)
}
