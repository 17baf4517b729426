// Package signing applies and checks enveloped XML-DSig signatures on UBL
// documents. The ds:Signature is placed inside
// ext:UBLExtensions/ext:UBLExtension/ext:ExtensionContent, the first child
// of the document root.
package signing

import (
	"crypto/tls"
	"fmt"

	"github.com/beevik/etree"
	dsig "github.com/russellhaering/goxmldsig"

	"github.com/rezonia/ubl/internal/namespace"
)

// Signer signs built documents
type Signer struct {
	ctx *dsig.SigningContext
}

// NewSigner creates a signer from an RSA key store.
// Documents are canonicalized with exclusive C14N and signed with RSA-SHA256.
func NewSigner(ks dsig.X509KeyStore) (*Signer, error) {
	ctx := dsig.NewDefaultSigningContext(ks)
	ctx.Canonicalizer = dsig.MakeC14N10ExclusiveCanonicalizerWithPrefixList("")
	if err := ctx.SetSignatureMethod(dsig.RSASHA256SignatureMethod); err != nil {
		return nil, ErrKeyMaterial("signature method", err)
	}
	return &Signer{ctx: ctx}, nil
}

// LoadSigner creates a signer from PEM encoded certificate and key files
func LoadSigner(certFile, keyFile string) (*Signer, error) {
	pair, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, ErrKeyMaterial(certFile, err)
	}
	return NewSigner(dsig.TLSCertKeyStore(pair))
}

// Sign returns data with an enveloped signature over the document root.
// The output is not re-indented: any whitespace change would break the digest.
func (s *Signer) Sign(data []byte) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, ErrMalformed(err)
	}
	root := doc.Root()
	if root == nil {
		return nil, ErrMalformed(fmt.Errorf("empty document"))
	}

	// the container must exist before digesting, the enveloped transform
	// only removes the signature itself
	extensionContent(root)

	signed, err := s.ctx.SignEnveloped(root)
	if err != nil {
		return nil, NewSigningError(ErrCodeInvalidSignature, "", "failed to sign document", err)
	}

	// SignEnveloped appends the signature without setting its parent, so it
	// is detached by position
	last := len(signed.Child) - 1
	sig, ok := signed.Child[last].(*etree.Element)
	if !ok {
		return nil, NewSigningError(ErrCodeInvalidSignature, "", "signature element not found", nil)
	}
	signed.RemoveChildAt(last)
	lastExtensionContent(signed).AddChild(sig)

	doc.SetRoot(signed)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize signed document: %w", err)
	}
	return out, nil
}

// extensionContent appends a fresh UBLExtension to the root and returns its
// ExtensionContent. UBLExtensions is created as the first child when missing.
func extensionContent(root *etree.Element) *etree.Element {
	if root.SelectAttr("xmlns:"+namespace.PrefixEXT) == nil {
		root.CreateAttr("xmlns:"+namespace.PrefixEXT, namespace.EXTURI)
	}

	extensions := root.SelectElement("ext:UBLExtensions")
	if extensions == nil {
		extensions = etree.NewElement("ext:UBLExtensions")
		root.InsertChildAt(0, extensions)
	}
	extension := extensions.CreateElement("ext:UBLExtension")
	return extension.CreateElement("ext:ExtensionContent")
}

// lastExtensionContent returns the ExtensionContent of the last UBLExtension
func lastExtensionContent(root *etree.Element) *etree.Element {
	extensions := root.SelectElement("ext:UBLExtensions").SelectElements("ext:UBLExtension")
	return extensions[len(extensions)-1].SelectElement("ext:ExtensionContent")
}
