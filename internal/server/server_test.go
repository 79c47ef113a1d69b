package server

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hemoba-digital/fichagen/internal/config"
	"github.com/hemoba-digital/fichagen/internal/document"
	"github.com/hemoba-digital/fichagen/internal/extract"
	"github.com/hemoba-digital/fichagen/internal/fill"
	"github.com/hemoba-digital/fichagen/internal/session"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.TemplatePath = filepath.Join(t.TempDir(), "modelo_inexistente.pdf")

	srv, err := NewServer(
		cfg,
		zap.NewNop(),
		document.NewService(cfg.MaxFileSize, cfg.LineTolerance, nil),
		extract.New(extract.Options{}),
		fill.NewFiller(cfg.TemplatePath),
	)
	require.NoError(t, err)
	return srv
}

func seedSession(srv *Server) *session.Session {
	sess := session.New()
	sess.Seed(&extract.Result{
		Fields: map[string]string{
			extract.KeyNomePaciente: "MARIA DA SILVA",
			extract.KeySexo:         "Feminino",
		},
		Origin: map[string]extract.Origin{
			extract.KeyNomePaciente: extract.OriginText,
			extract.KeySexo:         extract.OriginText,
		},
	}, "Nome do Paciente\nMARIA DA SILVA")
	srv.store.Put(sess)
	return sess
}

func TestNewServerValidation(t *testing.T) {
	_, err := NewServer(nil, nil, nil, nil, nil)
	assert.Error(t, err)

	cfg := config.DefaultConfig()
	_, err = NewServer(cfg, nil, nil, nil, nil)
	assert.Error(t, err)
}

func TestIndexPage(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Enviar Ficha AIH")
	// No recognizer is wired, so the OCR notice shows.
	assert.Contains(t, rec.Body.String(), "OCR de fotos indisponível")
}

func TestReviewUnknownSession(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session/nao-existe/", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReviewShowsExtractedValues(t *testing.T) {
	srv := newTestServer(t)
	sess := seedSession(srv)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session/"+sess.ID+"/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "MARIA DA SILVA")
	assert.Contains(t, body, `value="Feminino" checked`)
}

func TestUploadMissingFile(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func uploadFile(t *testing.T, srv *Server, name string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("document", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

// The whole happy path: a native-text AIH PDF goes through acquisition and
// extraction and lands in the session as pre-filled fields.
func TestUploadNativePDFExtractsFields(t *testing.T) {
	srv := newTestServer(t)
	data, err := os.ReadFile(filepath.Join("testdata", "ficha_aih.pdf"))
	require.NoError(t, err)

	rec := uploadFile(t, srv, "ficha_aih.pdf", data)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	location := rec.Header().Get("Location")
	sess := srv.store.Get(strings.TrimSuffix(strings.TrimPrefix(location, "/session/"), "/"))
	require.NotNil(t, sess)
	assert.Empty(t, sess.Notice)

	assert.Equal(t, "MARIA DA SILVA", sess.Fields[extract.KeyNomePaciente])
	assert.Equal(t, "Feminino", sess.Fields[extract.KeySexo])
	assert.Equal(t, "123456789012345", sess.Fields[extract.KeyCartaoSUS])
	assert.Equal(t, "28/12/1987", sess.Fields[extract.KeyDataNascimento])
	for _, key := range []string{extract.KeyNomePaciente, extract.KeySexo, extract.KeyCartaoSUS, extract.KeyDataNascimento} {
		assert.Equal(t, extract.OriginText, sess.Origin[key], key)
	}
}

// A document that cannot be parsed still opens a review session, with a
// notice instead of an error page.
func TestUploadGarbagePDFOpensSession(t *testing.T) {
	srv := newTestServer(t)
	rec := uploadFile(t, srv, "ficha.pdf", []byte("não é um PDF"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	location := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/session/"), location)

	sess := srv.store.Get(strings.TrimSuffix(strings.TrimPrefix(location, "/session/"), "/"))
	require.NotNil(t, sess)
	assert.NotEmpty(t, sess.Notice)
	assert.Empty(t, sess.Fields)
}

func TestUploadUnsupportedExtension(t *testing.T) {
	srv := newTestServer(t)
	rec := uploadFile(t, srv, "planilha.xlsx", []byte("x"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	location := rec.Header().Get("Location")
	sess := srv.store.Get(strings.TrimSuffix(strings.TrimPrefix(location, "/session/"), "/"))
	require.NotNil(t, sess)
	assert.Contains(t, sess.Notice, "Formato não suportado")
}

type blankRecognizer struct{}

func (blankRecognizer) Available() bool { return true }

func (blankRecognizer) Recognize([]byte) (string, error) { return "", nil }

// OCR that runs but recognizes nothing still tells the reviewer why the form
// came up empty.
func TestUploadImageOCRFoundNothing(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.TemplatePath = filepath.Join(t.TempDir(), "modelo.pdf")
	srv, err := NewServer(
		cfg,
		zap.NewNop(),
		document.NewService(cfg.MaxFileSize, cfg.LineTolerance, blankRecognizer{}),
		extract.New(extract.Options{}),
		fill.NewFiller(cfg.TemplatePath),
	)
	require.NoError(t, err)

	rec := uploadFile(t, srv, "foto.jpg", []byte{0xff, 0xd8, 0xff})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	location := rec.Header().Get("Location")
	sess := srv.store.Get(strings.TrimSuffix(strings.TrimPrefix(location, "/session/"), "/"))
	require.NotNil(t, sess)
	assert.Contains(t, sess.Notice, "não reconheceu texto")
}

func TestUploadImageWithoutOCR(t *testing.T) {
	srv := newTestServer(t)
	rec := uploadFile(t, srv, "foto.jpg", []byte{0xff, 0xd8, 0xff})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	location := rec.Header().Get("Location")
	sess := srv.store.Get(strings.TrimSuffix(strings.TrimPrefix(location, "/session/"), "/"))
	require.NotNil(t, sess)
	assert.Contains(t, sess.Notice, "OCR indisponível")
}

func TestSaveFieldsUpdatesSession(t *testing.T) {
	srv := newTestServer(t)
	sess := seedSession(srv)

	form := url.Values{}
	form.Set(extract.KeyNomePaciente, "MARIA CORRIGIDA")
	form.Set(session.KeyHospital, "Maternidade Frei Justo Venture")
	form.Set("hema", "on")

	req := httptest.NewRequest(http.MethodPost, "/session/"+sess.ID+"/fields", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "MARIA CORRIGIDA", sess.Fields[extract.KeyNomePaciente])
	assert.Equal(t, extract.OriginManual, sess.Origin[extract.KeyNomePaciente])
	assert.Equal(t, "on", sess.Fields["hema"])
	// The unit phone follows the selected hospital.
	assert.Equal(t, "(75) 3331-9400", sess.Fields[session.KeyTelefoneUnidade])
}

func TestSaveFieldsClearsAbsentCheckbox(t *testing.T) {
	srv := newTestServer(t)
	sess := seedSession(srv)
	sess.SetField("hema", "on")

	req := httptest.NewRequest(http.MethodPost, "/session/"+sess.ID+"/fields", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, sess.Fields["hema"])
}

// Fill failures (missing template here) keep the session alive and re-render
// the review page so the reviewer can retry.
func TestGenerateFillFailureKeepsSession(t *testing.T) {
	srv := newTestServer(t)
	sess := seedSession(srv)

	req := httptest.NewRequest(http.MethodPost, "/session/"+sess.ID+"/generate", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Erro ao preencher o PDF")
	assert.NotNil(t, srv.store.Get(sess.ID))
	assert.Equal(t, "MARIA DA SILVA", sess.Fields[extract.KeyNomePaciente])
}

func TestDebugText(t *testing.T) {
	srv := newTestServer(t)
	sess := seedSession(srv)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session/"+sess.ID+"/debug/text", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sess.RawText, rec.Body.String())
}

func TestDebugJSON(t *testing.T) {
	srv := newTestServer(t)
	sess := seedSession(srv)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session/"+sess.ID+"/debug/fields.json", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Fields map[string]string `json:"fields"`
		Origin map[string]string `json:"origin"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "MARIA DA SILVA", payload.Fields[extract.KeyNomePaciente])
	assert.Equal(t, string(extract.OriginText), payload.Origin[extract.KeyNomePaciente])
}

func TestDebugCSV(t *testing.T) {
	srv := newTestServer(t)
	sess := seedSession(srv)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session/"+sess.ID+"/debug/fields.csv", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, []string{"campo", "valor", "origem"}, rows[0])

	found := false
	for _, row := range rows[1:] {
		if row[0] == extract.KeyNomePaciente {
			found = true
			assert.Equal(t, "MARIA DA SILVA", row[1])
			assert.Equal(t, string(extract.OriginText), row[2])
		}
	}
	assert.True(t, found, "nome_paciente row missing from CSV export")
}

func TestEditableKeysCoverFormFields(t *testing.T) {
	keys := make(map[string]bool)
	for _, k := range editableKeys() {
		keys[k] = true
	}
	for _, k := range []string{
		extract.KeyNomePaciente,
		extract.KeySexo,
		session.KeyHospital,
		session.KeyModalidadeTransfusao,
		"hema", "pfc", "plaquetas_prod", "crio",
	} {
		assert.True(t, keys[k], k)
	}
}
