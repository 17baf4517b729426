package server_test

import (
	"bytes"
	"context"
	"crypto/x509"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	dsig "github.com/russellhaering/goxmldsig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/ubl/internal/server"
	"github.com/rezonia/ubl/internal/signing"
	"github.com/rezonia/ubl/internal/validator"
)

// stubEngine reports a fixed result for every document
type stubEngine struct {
	result *validator.Result
	err    error
}

func (s *stubEngine) Name() string { return "stub" }

func (s *stubEngine) RunRuleset(_ context.Context, _ string, _ validator.Ruleset) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return json.Marshal(s.result)
}

func (s *stubEngine) ParseOutput(out []byte) (*validator.Result, error) {
	var r validator.Result
	if err := json.Unmarshal(out, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func newTestServer(opts ...server.Option) *server.Server {
	config := &server.Config{
		Address:      ":8080",
		MaxBodyBytes: 1 << 20,
		Debug:        true,
	}
	return server.NewServer(config, opts...)
}

func fixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("../../testdata/invoice.json")
	require.NoError(t, err)
	return data
}

func do(srv *server.Server, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer()

	w := do(srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ok", response["status"])
	assert.NotEmpty(t, response["time"])
	assert.Equal(t, map[string]interface{}{}, response["engines"])
}

func TestHealthEndpoint_Engines(t *testing.T) {
	v := validator.New(
		validator.WithSchemaEngine(validator.NewSchemaEngine(nil)),
		validator.WithSchematronEngine(&stubEngine{}),
	)
	srv := newTestServer(server.WithValidator(v))

	w := do(srv, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Status  string          `json:"status"`
		Engines map[string]bool `json:"engines"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ok", response.Status)
	assert.Equal(t, map[string]bool{"xsd": false, "stub": true}, response.Engines)
}

func TestBuildEndpoint(t *testing.T) {
	tests := []struct {
		name   string
		target string
		root   string
		custom string
	}{
		{"invoice", "/api/v1/build/invoice", "<Invoice", "urn:fdc:peppol.eu:2017:poacc:billing:3.0"},
		{"credit note", "/api/v1/build/credit-note", "<CreditNote", "urn:fdc:peppol.eu:2017:poacc:billing:3.0"},
		{"belgian invoice", "/api/v1/build/invoice?extension=UBL_BE", "<Invoice", "UBL.BE"},
	}

	srv := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(srv, http.MethodPost, tt.target, fixture(t))

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")
			assert.Contains(t, w.Body.String(), tt.root)
			assert.Contains(t, w.Body.String(), tt.custom)
		})
	}
}

func TestBuildEndpoint_Errors(t *testing.T) {
	srv := newTestServer()

	missingID := strings.Replace(string(fixture(t)), `"id": "INV-2024-001"`, `"id": ""`, 1)

	tests := []struct {
		name   string
		target string
		body   []byte
		status int
		field  string
	}{
		{"unsupported kind", "/api/v1/build/receipt", fixture(t), http.StatusBadRequest, ""},
		{"unsupported extension", "/api/v1/build/invoice?extension=XRECHNUNG", fixture(t), http.StatusBadRequest, ""},
		{"empty body", "/api/v1/build/invoice", nil, http.StatusBadRequest, ""},
		{"invalid json", "/api/v1/build/invoice", []byte("{"), http.StatusBadRequest, ""},
		{"missing id", "/api/v1/build/invoice", []byte(missingID), http.StatusUnprocessableEntity, "ID"},
		{"signing not configured", "/api/v1/build/invoice?sign=true", fixture(t), http.StatusServiceUnavailable, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(srv, http.MethodPost, tt.target, tt.body)
			assert.Equal(t, tt.status, w.Code)

			var response server.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.NotEmpty(t, response.Error)
			assert.Equal(t, tt.field, response.Field)
		})
	}
}

func TestBuildEndpoint_BodyTooLarge(t *testing.T) {
	srv := server.NewServer(&server.Config{MaxBodyBytes: 16})

	w := do(srv, http.MethodPost, "/api/v1/build/invoice", fixture(t))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestBuildEndpoint_Signed(t *testing.T) {
	ks := dsig.RandomKeyStoreForTest()
	_, der, err := ks.GetKeyPair()
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)

	signer, err := signing.NewSigner(ks)
	require.NoError(t, err)

	srv := newTestServer(server.WithSigner(signer))

	w := do(srv, http.MethodPost, "/api/v1/build/invoice?extension=UBL_BE&sign=true", fixture(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, bytes.Count(w.Body.Bytes(), []byte("<ds:Signature ")))

	result, err := signing.NewVerifier(cert).Verify(w.Body.Bytes())
	require.NoError(t, err)
	assert.True(t, result.Valid, "errors: %v", result.Errors)
}

func TestValidateEndpoint(t *testing.T) {
	schema := &stubEngine{result: validator.NewResult()}
	rules := &stubEngine{result: &validator.Result{
		Valid:    false,
		Messages: []string{"[fatal] BR-CO-15 at /Invoice: total mismatch"},
	}}
	srv := newTestServer(server.WithValidator(validator.New(
		validator.WithSchemaEngine(schema),
		validator.WithSchematronEngine(rules),
	)))

	w := do(srv, http.MethodPost, "/api/v1/validate/invoice", []byte("<Invoice/>"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response server.ValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Valid)
	assert.Equal(t, "Invoice", response.Kind)

	w = do(srv, http.MethodPost, "/api/v1/validate/invoice?extension=UBL_BE&schematron=true", []byte("<Invoice/>"))
	require.Equal(t, http.StatusOK, w.Code)

	response = server.ValidationResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response.Valid)
	assert.Equal(t, "UBL_BE", response.Extension)
	assert.Len(t, response.Messages, 1)
}

func TestValidateEndpoint_EngineFailures(t *testing.T) {
	tests := []struct {
		name   string
		opts   []validator.Option
		status int
	}{
		{
			name:   "no engines configured",
			status: http.StatusServiceUnavailable,
		},
		{
			name: "engine unavailable",
			opts: []validator.Option{validator.WithSchemaEngine(&stubEngine{
				err: validator.NewEngineUnavailableError("stub", "not installed", nil),
			})},
			status: http.StatusServiceUnavailable,
		},
		{
			name: "engine crashed",
			opts: []validator.Option{validator.WithSchemaEngine(&stubEngine{
				err: validator.NewEngineError("stub", "crashed", errors.New("exit status 2")),
			})},
			status: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(server.WithValidator(validator.New(tt.opts...)))

			w := do(srv, http.MethodPost, "/api/v1/validate/invoice", []byte("<Invoice/>"))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestInfoEndpoint(t *testing.T) {
	srv := newTestServer()

	built := do(srv, http.MethodPost, "/api/v1/build/credit-note?extension=UBL_BE", fixture(t))
	require.Equal(t, http.StatusOK, built.Code)

	w := do(srv, http.MethodPost, "/api/v1/info", built.Body.Bytes())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "CreditNote", response["kind"])
	assert.Equal(t, "INV-2024-001", response["id"])

	w = do(srv, http.MethodPost, "/api/v1/info", []byte("<Order/>"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer()

	do(srv, http.MethodPost, "/api/v1/build/invoice", fixture(t))
	do(srv, http.MethodPost, "/api/v1/build/invoice", []byte("{"))
	do(srv, http.MethodPost, "/api/v1/build/invoice?sign=true", fixture(t))

	w := do(srv, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `ubl_documents_built_total{extension="none",kind="Invoice"} 1`)
	assert.Contains(t, w.Body.String(), `ubl_build_failures_total{reason="json"} 1`)
	assert.Contains(t, w.Body.String(), `ubl_build_failures_total{reason="signing"} 1`)
}

func BenchmarkBuild(b *testing.B) {
	srv := newTestServer()
	body, err := os.ReadFile("../../testdata/invoice.json")
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		do(srv, http.MethodPost, "/api/v1/build/invoice", body)
	}
}

func BenchmarkHealth(b *testing.B) {
	srv := newTestServer()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		do(srv, http.MethodGet, "/health", nil)
	}
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	srv := server.NewServer(&server.Config{Address: "127.0.0.1:0"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	cancel()
	assert.NoError(t, <-done)
}
