package validator_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/ubl/internal/model"
	"github.com/rezonia/ubl/internal/validator"
)

const invoiceXSD = `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
           targetNamespace="urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
           elementFormDefault="qualified">
  <xs:element name="Invoice">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="ID" type="xs:string"/>
        <xs:element name="Total" type="xs:decimal"/>
      </xs:sequence>
    </xs:complexType>
  </xs:element>
</xs:schema>`

const validInvoice = `<?xml version="1.0" encoding="UTF-8"?>
<Invoice xmlns="urn:oasis:names:specification:ubl:schema:xsd:Invoice-2">
  <ID>INV-1</ID>
  <Total>100.00</Total>
</Invoice>`

const malformedTotal = `<?xml version="1.0" encoding="UTF-8"?>
<Invoice xmlns="urn:oasis:names:specification:ubl:schema:xsd:Invoice-2">
  <ID>INV-1</ID>
  <Total>abc</Total>
</Invoice>`

func schemaFS() fstest.MapFS {
	return fstest.MapFS{
		validator.InvoiceSchema: &fstest.MapFile{Data: []byte(invoiceXSD)},
	}
}

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runSchema(t *testing.T, e *validator.SchemaEngine, content string, kind model.DocumentKind) (*validator.Result, error) {
	t.Helper()
	out, err := e.RunRuleset(context.Background(), writeDoc(t, content), validator.Ruleset{Kind: kind})
	if err != nil {
		return nil, err
	}
	return e.ParseOutput(out)
}

func TestSchemaEngine_Valid(t *testing.T) {
	e := validator.NewSchemaEngine(schemaFS())

	result, err := runSchema(t, e, validInvoice, model.KindInvoice)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Messages)
}

func TestSchemaEngine_MalformedTotal(t *testing.T) {
	e := validator.NewSchemaEngine(schemaFS())

	result, err := runSchema(t, e, malformedTotal, model.KindInvoice)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Messages)
}

func TestSchemaEngine_CachedAcrossRuns(t *testing.T) {
	e := validator.NewSchemaEngine(schemaFS())

	for i := 0; i < 3; i++ {
		result, err := runSchema(t, e, validInvoice, model.KindInvoice)
		require.NoError(t, err)
		assert.True(t, result.Valid)
	}
}

func TestSchemaEngine_Unavailable(t *testing.T) {
	tests := []struct {
		name   string
		engine *validator.SchemaEngine
		kind   model.DocumentKind
	}{
		{"no schema directory", validator.NewSchemaEngine(nil), model.KindInvoice},
		{"empty directory name", validator.NewSchemaEngineDir(""), model.KindInvoice},
		{"schema missing for kind", validator.NewSchemaEngine(schemaFS()), model.KindCreditNote},
		{"directory does not exist", validator.NewSchemaEngineDir(filepath.Join(t.TempDir(), "missing")), model.KindInvoice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runSchema(t, tt.engine, validInvoice, tt.kind)
			require.Error(t, err)
			assert.ErrorIs(t, err, validator.ErrEngineUnavailable)

			var unavailable *validator.EngineUnavailableError
			require.ErrorAs(t, err, &unavailable)
			assert.Equal(t, "xsd", unavailable.Engine)
		})
	}
}

func TestSchemaEngine_IsAvailable(t *testing.T) {
	assert.False(t, validator.NewSchemaEngine(nil).IsAvailable())
	assert.False(t, validator.NewSchemaEngine(schemaFS()).IsAvailable())

	fsys := schemaFS()
	fsys[validator.CreditNoteSchema] = &fstest.MapFile{Data: []byte(invoiceXSD)}
	assert.True(t, validator.NewSchemaEngine(fsys).IsAvailable())
}

func TestSchemaEngine_ParseOutputMalformed(t *testing.T) {
	_, err := validator.NewSchemaEngine(nil).ParseOutput([]byte("not json"))
	assert.ErrorIs(t, err, validator.ErrEngineFailed)
}
