// Package attachment checks documents before they are embedded in a UBL
// AdditionalDocumentReference.
package attachment

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/rezonia/ubl/internal/model"
)

// MimePDF is the mime code of a PDF attachment
const MimePDF = "application/pdf"

// Mime codes accepted by Peppol BIS for embedded binary objects
var allowedMimeCodes = map[string]bool{
	MimePDF:               true,
	"image/png":           true,
	"image/jpeg":          true,
	"text/csv":            true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/vnd.oasis.opendocument.spreadsheet":                   true,
}

var pdfMagic = []byte("%PDF")

// Info describes an inspected attachment
type Info struct {
	Filename string
	MimeType string
	Size     int
	// Pages is set for PDF attachments
	Pages int
}

// AttachmentError reports an attachment that cannot be embedded
type AttachmentError struct {
	Filename string
	Message  string
	Cause    error
}

func (e *AttachmentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("attachment %s: %s (%v)", e.Filename, e.Message, e.Cause)
	}
	return fmt.Sprintf("attachment %s: %s", e.Filename, e.Message)
}

func (e *AttachmentError) Unwrap() error {
	return e.Cause
}

// Inspect validates an attachment and returns its metadata.
// The error is an *model.IncompleteDataError wrapping an *AttachmentError so
// that builder callers see one taxonomy.
func Inspect(a *model.Attachment) (*Info, error) {
	if a == nil {
		return nil, nil
	}

	if strings.TrimSpace(a.Filename) == "" {
		return nil, wrap(&AttachmentError{Message: "filename is required"})
	}
	if len(a.Content) == 0 {
		return nil, wrap(&AttachmentError{Filename: a.Filename, Message: "content is empty"})
	}

	mime := a.MimeType
	if mime == "" {
		mime = mimeFromName(a.Filename)
	}
	if !allowedMimeCodes[mime] {
		return nil, wrap(&AttachmentError{Filename: a.Filename, Message: fmt.Sprintf("mime code %q not allowed", mime)})
	}

	info := &Info{
		Filename: a.Filename,
		MimeType: mime,
		Size:     len(a.Content),
	}

	if mime == MimePDF {
		pages, err := inspectPDF(a.Content)
		if err != nil {
			return nil, wrap(&AttachmentError{Filename: a.Filename, Message: "invalid PDF", Cause: err})
		}
		info.Pages = pages
	}

	return info, nil
}

// MimeType returns the effective mime code for an attachment
func MimeType(a *model.Attachment) string {
	if a.MimeType != "" {
		return a.MimeType
	}
	return mimeFromName(a.Filename)
}

func inspectPDF(content []byte) (int, error) {
	if !bytes.HasPrefix(content, pdfMagic) {
		return 0, fmt.Errorf("missing %%PDF header")
	}

	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed

	if err := api.Validate(bytes.NewReader(content), conf); err != nil {
		return 0, err
	}

	return api.PageCount(bytes.NewReader(content), conf)
}

func mimeFromName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return MimePDF
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".csv":
		return "text/csv"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".ods":
		return "application/vnd.oasis.opendocument.spreadsheet"
	default:
		return "application/octet-stream"
	}
}

func wrap(err *AttachmentError) error {
	return &model.IncompleteDataError{
		Field:   "Attachment",
		Message: err.Message,
		Cause:   err,
	}
}
