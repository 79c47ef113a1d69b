package server

import (
	"bytes"
	"net/http"

	"go.uber.org/zap"

	"github.com/hemoba-digital/fichagen/internal/extract"
	"github.com/hemoba-digital/fichagen/internal/session"
)

// FieldView is one editable form field for the review template.
type FieldView struct {
	Key       string
	Label     string
	Value     string
	Extracted bool
	Options   []string
}

// textFieldDefs are the free-entry fields of the review form, in display
// order. Extracted fields show the blue origin dot when auto-populated.
var textFieldDefs = []struct{ Key, Label string }{
	{extract.KeyNomePaciente, "Nome do Paciente"},
	{extract.KeyNomeGenitora, "Nome da Mãe"},
	{extract.KeyCartaoSUS, "Cartão SUS (CNS)"},
	{extract.KeyDataNascimento, "Data de Nascimento (DD/MM/AAAA)"},
	{extract.KeyTelefonePaciente, "Telefone do Paciente"},
	{extract.KeyProntuario, "Núm. Prontuário"},
	{extract.KeyEnderecoCompleto, "Endereço completo"},
	{extract.KeyMunicipioReferencia, "Município de referência"},
	{extract.KeyUF, "UF"},
	{extract.KeyCEP, "CEP"},
	{session.KeyTelefoneUnidade, "Telefone da Unidade"},
	{session.KeyData, "Data (DD/MM/AAAA)"},
	{session.KeyHora, "Hora (HH:MM)"},
	{session.KeyDiagnostico, "Diagnóstico"},
	{session.KeyPeso, "Peso (kg)"},
}

// choiceFieldDefs are the closed-vocabulary fields rendered as radios.
func choiceFieldDefs() []struct {
	Key     string
	Label   string
	Options []string
} {
	hospitals := make([]string, 0, len(session.Hospitals))
	for name := range session.Hospitals {
		hospitals = append(hospitals, name)
	}
	return []struct {
		Key     string
		Label   string
		Options []string
	}{
		{extract.KeySexo, "Sexo", []string{"Feminino", "Masculino"}},
		{extract.KeyRaca, "Raça/Cor", extract.RacaVocabulary},
		{session.KeyHospital, "Hospital / Unidade de saúde", hospitals},
		{session.KeyAntecedenteTransfusional, "Antecedente Transfusional?", session.YesNo},
		{session.KeyAntecedentesObstetricos, "Antecedentes Obstétricos?", session.YesNo},
		{session.KeyModalidadeTransfusao, "Modalidade de Transfusão", session.Modalities},
	}
}

// productLabels are the display names of the blood product checkboxes.
var productLabels = map[string]string{
	"hema":           "Concentrado de Hemácias",
	"pfc":            "Plasma Fresco Congelado",
	"plaquetas_prod": "Concentrado de Plaquetas",
	"crio":           "Crioprecipitado",
}

// editableKeys lists every key the review form may post.
func editableKeys() []string {
	var keys []string
	for _, def := range textFieldDefs {
		keys = append(keys, def.Key)
	}
	for _, def := range choiceFieldDefs() {
		keys = append(keys, def.Key)
	}
	keys = append(keys, session.ProductKeys...)
	return keys
}

// reviewData builds the template payload for the review page.
func (s *Server) reviewData(sess *session.Session, errMsg string) map[string]any {
	texts := make([]FieldView, 0, len(textFieldDefs))
	for _, def := range textFieldDefs {
		texts = append(texts, FieldView{
			Key:       def.Key,
			Label:     def.Label,
			Value:     sess.Fields[def.Key],
			Extracted: sess.Extracted(def.Key),
		})
	}
	choices := make([]FieldView, 0, 8)
	for _, def := range choiceFieldDefs() {
		choices = append(choices, FieldView{
			Key:       def.Key,
			Label:     def.Label,
			Value:     sess.Fields[def.Key],
			Extracted: sess.Extracted(def.Key),
			Options:   def.Options,
		})
	}
	products := make([]FieldView, 0, len(session.ProductKeys))
	for _, key := range session.ProductKeys {
		label := productLabels[key]
		if label == "" {
			label = key
		}
		products = append(products, FieldView{
			Key:   key,
			Label: label,
			Value: sess.Fields[key],
		})
	}
	return map[string]any{
		"Session":  sess,
		"Texts":    texts,
		"Choices":  choices,
		"Products": products,
		"Notice":   sess.Notice,
		"Error":    errMsg,
	}
}

// render writes a template response, failing the request on template errors.
func (s *Server) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		s.log.Error("template render failed", zap.String("template", name), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// renderTo is render without headers, for responses that already set a
// status code.
func (s *Server) renderTo(w http.ResponseWriter, name string, data any) {
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		s.log.Error("template render failed", zap.String("template", name), zap.Error(err))
	}
}
