package signing

import (
	"bytes"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/beevik/etree"
	dsig "github.com/russellhaering/goxmldsig"
)

// Verifier checks enveloped signatures against a set of trusted certificates
type Verifier struct {
	roots []*x509.Certificate
}

// NewVerifier creates a verifier trusting the given certificates
func NewVerifier(roots ...*x509.Certificate) *Verifier {
	return &Verifier{roots: roots}
}

// LoadVerifier creates a verifier from a PEM file holding one or more certificates
func LoadVerifier(certFile string) (*Verifier, error) {
	data, err := os.ReadFile(certFile)
	if err != nil {
		return nil, ErrKeyMaterial(certFile, err)
	}

	var roots []*x509.Certificate
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, ErrKeyMaterial(certFile, err)
		}
		roots = append(roots, cert)
	}
	if len(roots) == 0 {
		return nil, ErrKeyMaterial(certFile, fmt.Errorf("no certificate found"))
	}

	return NewVerifier(roots...), nil
}

// Verify checks the signature of a signed document.
// A document without signature returns ErrNoSignature along with the result.
func (v *Verifier) Verify(data []byte) (*Result, error) {
	result := &Result{}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, ErrMalformed(err)
	}
	root := doc.Root()
	if root == nil {
		return nil, ErrMalformed(fmt.Errorf("empty document"))
	}

	sig := FindSignature(root)
	if sig == nil {
		result.AddError("no signature found")
		return result, ErrNoSignature()
	}
	result.SignatureFound = true

	if cert, err := signerCertificate(sig); err == nil {
		result.SetSigner(cert)
	}

	ctx := dsig.NewDefaultValidationContext(&dsig.MemoryX509CertificateStore{Roots: v.roots})
	if _, err := ctx.Validate(root); err != nil {
		result.AddError(ErrInvalidSignature(err).Error())
	} else {
		result.SignatureValid = true
	}

	result.computeValidity()
	return result, nil
}

// HasSignature reports whether data carries an XML-DSig signature
func HasSignature(data []byte) bool {
	if !bytes.Contains(data, []byte("Signature")) {
		return false
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil || doc.Root() == nil {
		return false
	}
	return FindSignature(doc.Root()) != nil
}

// FindSignature returns the first ds:Signature below root, or nil
func FindSignature(root *etree.Element) *etree.Element {
	for _, el := range root.FindElements("//Signature") {
		if el.NamespaceURI() == dsig.Namespace {
			return el
		}
	}
	return nil
}

func signerCertificate(sig *etree.Element) (*x509.Certificate, error) {
	el := sig.FindElement("./KeyInfo/X509Data/X509Certificate")
	if el == nil {
		return nil, fmt.Errorf("no X509Certificate found in Signature")
	}
	der, err := base64.StdEncoding.DecodeString(string(bytes.Join(bytes.Fields([]byte(el.Text())), nil)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode certificate: %w", err)
	}
	return x509.ParseCertificate(der)
}
