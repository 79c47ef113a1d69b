package server

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hemoba-digital/fichagen/internal/document"
	"github.com/hemoba-digital/fichagen/internal/session"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, "index.html", map[string]any{
		"OCRAvailable": s.acquirer.OCRAvailable(),
	})
}

// handleUpload runs the acquisition → extraction pipeline on the uploaded
// document and opens a fresh review session. Extraction problems never block
// the review step: the reviewer gets an empty or partial form plus a notice.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.cfg.MaxFileSize); err != nil {
		http.Error(w, "invalid upload", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("document")
	if err != nil {
		http.Error(w, "missing document file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxFileSize+1))
	if err != nil {
		http.Error(w, "failed to read upload", http.StatusBadRequest)
		return
	}

	sess := session.New()

	kind, err := document.KindFromName(header.Filename)
	if err != nil {
		sess.Notice = "Formato não suportado: envie PDF, JPG ou PNG."
		s.store.Put(sess)
		http.Redirect(w, r, "/session/"+sess.ID, http.StatusSeeOther)
		return
	}

	doc, err := s.acquirer.Acquire(data, kind)
	if err != nil {
		s.log.Warn("document acquisition failed",
			zap.String("file", header.Filename),
			zap.Error(err))
		sess.Notice = "Não foi possível ler o documento. Preencha os campos manualmente."
	} else if doc.Empty() && kind == document.KindImage {
		if s.acquirer.OCRAvailable() {
			sess.Notice = "O OCR não reconheceu texto na foto. Preencha os campos manualmente."
		} else {
			sess.Notice = "OCR indisponível no momento. Preencha os campos manualmente."
		}
	}

	res := s.extractor.Extract(doc)
	sess.Seed(res, doc.Raw)
	s.store.Put(sess)

	s.log.Info("document processed",
		zap.String("session", sess.ID),
		zap.String("file", header.Filename),
		zap.String("kind", string(kind)),
		zap.Int("fields", len(res.Fields)))

	http.Redirect(w, r, "/session/"+sess.ID, http.StatusSeeOther)
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFromRequest(w, r)
	if sess == nil {
		return
	}
	s.render(w, "review.html", s.reviewData(sess, ""))
}

// handleSaveFields stores the reviewer's corrections and re-renders the form.
func (s *Server) handleSaveFields(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFromRequest(w, r)
	if sess == nil {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	s.applyEdits(sess, r)
	http.Redirect(w, r, "/session/"+sess.ID, http.StatusSeeOther)
}

// handleGenerate applies any pending edits and fills the output template.
// Fill failures are terminal for the attempt, but the session survives so
// the reviewer can retry without re-extracting.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFromRequest(w, r)
	if sess == nil {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	s.applyEdits(sess, r)

	fields := sess.Snapshot()
	if fields[session.KeyData] == "" {
		fields[session.KeyData] = time.Now().Format("02/01/2006")
	}
	if fields[session.KeyHora] == "" {
		fields[session.KeyHora] = time.Now().Format("15:04")
	}

	texts, checks := session.TemplatePayload(fields)
	pdfBytes, err := s.filler.Fill(texts, checks)
	if err != nil {
		s.log.Error("form fill failed",
			zap.String("session", sess.ID),
			zap.Error(err))
		data := s.reviewData(sess, "Erro ao preencher o PDF: "+err.Error())
		w.WriteHeader(http.StatusBadGateway)
		s.renderTo(w, "review.html", data)
		return
	}

	name := strings.ReplaceAll(fields["nome_paciente"], " ", "_")
	if name == "" {
		name = "paciente"
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "HEMOBA_"+name+".pdf"))
	_, _ = w.Write(pdfBytes)
}

// applyEdits copies posted values for the editable keys into the session.
func (s *Server) applyEdits(sess *session.Session, r *http.Request) {
	for _, key := range editableKeys() {
		if !r.Form.Has(key) {
			continue
		}
		value := strings.TrimSpace(r.Form.Get(key))
		if value == sess.Fields[key] {
			continue
		}
		sess.SetField(key, value)
	}
	// Unchecked boxes are absent from the post; clear them explicitly.
	for _, key := range session.ProductKeys {
		if !r.Form.Has(key) && sess.Fields[key] != "" {
			sess.SetField(key, "")
		}
	}
	// Default unit phone follows the selected hospital until edited.
	if sess.Fields[session.KeyTelefoneUnidade] == "" {
		if phone, ok := session.Hospitals[sess.Fields[session.KeyHospital]]; ok {
			sess.Fields[session.KeyTelefoneUnidade] = phone
		}
	}
}

func (s *Server) handleDebugText(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFromRequest(w, r)
	if sess == nil {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, sess.RawText)
}

func (s *Server) handleDebugJSON(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFromRequest(w, r)
	if sess == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"fields": sess.Fields,
		"origin": sess.Origin,
	})
}

func (s *Server) handleDebugCSV(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFromRequest(w, r)
	if sess == nil {
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"campo", "valor", "origem"})
	for _, key := range editableKeys() {
		value, ok := sess.Fields[key]
		if !ok {
			continue
		}
		_ = cw.Write([]string{key, value, string(sess.Origin[key])})
	}
	cw.Flush()
}
