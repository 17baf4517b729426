package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/ubl/internal/validator"
)

const svrlReport = `<?xml version="1.0" encoding="UTF-8"?>
<svrl:schematron-output xmlns:svrl="http://purl.oclc.org/dsdl/svrl">
  <svrl:active-pattern id="peppol"/>
  <svrl:fired-rule context="/Invoice"/>
  <svrl:failed-assert id="PEPPOL-EN16931-R001" flag="fatal" location="/Invoice[1]">
    <svrl:text>Business process MUST be provided.</svrl:text>
  </svrl:failed-assert>
  <svrl:failed-assert id="BR-CO-15" flag="warning" location="/Invoice[1]">
    <svrl:text>
      Invoice total amount with VAT
      should equal the sum.
    </svrl:text>
  </svrl:failed-assert>
  <svrl:successful-report id="INFO-1" flag="information">
    <svrl:text>Document uses UBL 2.1</svrl:text>
  </svrl:successful-report>
</svrl:schematron-output>`

const svrlClean = `<svrl:schematron-output xmlns:svrl="http://purl.oclc.org/dsdl/svrl">
  <svrl:fired-rule context="/Invoice"/>
</svrl:schematron-output>`

func TestParseSVRL(t *testing.T) {
	result, err := validator.ParseSVRL([]byte(svrlReport))
	require.NoError(t, err)

	assert.False(t, result.Valid)
	assert.Equal(t, []string{
		"[fatal] PEPPOL-EN16931-R001 at /Invoice[1]: Business process MUST be provided.",
		"[warning] BR-CO-15 at /Invoice[1]: Invoice total amount with VAT should equal the sum.",
		"[information] INFO-1: Document uses UBL 2.1",
	}, result.Messages)
}

func TestParseSVRL_WarningsOnly(t *testing.T) {
	report := `<svrl:schematron-output xmlns:svrl="http://purl.oclc.org/dsdl/svrl">
  <svrl:failed-assert id="W1" flag="warning"><svrl:text>heads up</svrl:text></svrl:failed-assert>
</svrl:schematron-output>`

	result, err := validator.ParseSVRL([]byte(report))
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Len(t, result.Messages, 1)
}

func TestParseSVRL_DefaultFlags(t *testing.T) {
	report := `<svrl:schematron-output xmlns:svrl="http://purl.oclc.org/dsdl/svrl">
  <svrl:successful-report id="R1"><svrl:text>reported</svrl:text></svrl:successful-report>
  <svrl:failed-assert id="A1"><svrl:text>failed</svrl:text></svrl:failed-assert>
</svrl:schematron-output>`

	result, err := validator.ParseSVRL([]byte(report))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "[warning] R1: reported", result.Messages[0])
	assert.Equal(t, "[error] A1: failed", result.Messages[1])
}

func TestParseSVRL_Clean(t *testing.T) {
	result, err := validator.ParseSVRL([]byte(svrlClean))
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Messages)
}

func TestParseSVRL_Errors(t *testing.T) {
	_, err := validator.ParseSVRL([]byte("<broken"))
	assert.Error(t, err)

	_, err = validator.ParseSVRL([]byte("<report/>"))
	assert.Error(t, err)
}
