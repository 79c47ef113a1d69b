// Package extract implements label-anchored field extraction for AIH intake
// forms: locating the printed field labels of the form in acquired text and
// recovering the adjacent values, then normalizing them per field kind.
package extract

import "regexp"

// FieldKind selects the acceptance filter and normalizer applied to a
// candidate value before it is committed to the field map.
type FieldKind int

const (
	// KindFreeText accepts any candidate after whitespace cleanup.
	KindFreeText FieldKind = iota
	// KindName keeps alphabetic runs only and rejects candidates without a
	// run of at least two letters.
	KindName
	// KindDigits strips non-digits and enforces a per-field minimum count,
	// truncating to the maximum when the run is longer.
	KindDigits
	// KindDate reformats a DD?MM?YYYY digit pattern to DD/MM/YYYY.
	KindDate
	// KindSex maps fem…/masc… prefixes to the canonical Feminino/Masculino.
	KindSex
	// KindEnum accepts only values from a fixed vocabulary, matched per
	// whole word and accent-insensitively.
	KindEnum
	// KindPhone reformats a 10-11 digit national number, keeping the raw
	// trimmed text when no plausible run is present.
	KindPhone
	// KindState keeps the first two-letter uppercase word.
	KindState
)

// FieldRule declares one extractable field: its canonical key, the printed
// label spellings that locate it, and how candidates are validated.
type FieldRule struct {
	Key        string
	Labels     []string
	Kind       FieldKind
	MinDigits  int
	MaxDigits  int
	Vocabulary []string
	// Loose is an unanchored fallback pattern run over the raw document
	// text when the label-anchored passes left the key unset. The first
	// capture group is the candidate; with no groups the whole match is.
	Loose *regexp.Regexp
}

// Canonical field keys for the AIH intake form.
const (
	KeyNomePaciente        = "nome_paciente"
	KeyNomeGenitora        = "nome_genitora"
	KeyCartaoSUS           = "cartao_sus"
	KeyDataNascimento      = "data_nascimento"
	KeySexo                = "sexo"
	KeyRaca                = "raca"
	KeyProntuario          = "prontuario"
	KeyMunicipioReferencia = "municipio_referencia"
	KeyUF                  = "uf"
	KeyCEP                 = "cep"
	KeyTelefonePaciente    = "telefone_paciente"
	KeyEnderecoCompleto    = "endereco_completo"
)

// RacaVocabulary lists the accepted race/color values of the form, in the
// canonical spelling used on the output document.
var RacaVocabulary = []string{"BRANCA", "PRETA", "PARDA", "AMARELA", "INDÍGENA"}

// DefaultRules returns the label table for the AIH admission form. Several
// keys carry more than one accepted label spelling; the first label found in
// document order wins.
func DefaultRules() []FieldRule {
	return []FieldRule{
		{
			Key:    KeyNomePaciente,
			Labels: []string{"Nome do Paciente"},
			Kind:   KindName,
			Loose:  regexp.MustCompile(`(?i)Nome do Paciente\s*\n?([A-ZÀ-ÿ\s]+)`),
		},
		{
			Key:    KeyNomeGenitora,
			Labels: []string{"Nome da Mãe"},
			Kind:   KindName,
			Loose:  regexp.MustCompile(`(?i)Nome da Mãe\s*\n?([A-ZÀ-ÿ\s]+)`),
		},
		{
			Key:       KeyCartaoSUS,
			Labels:    []string{"CNS", "Cartão SUS"},
			Kind:      KindDigits,
			MinDigits: 15,
			MaxDigits: 15,
			Loose:     regexp.MustCompile(`\b(\d{15})\b`),
		},
		{
			Key:    KeyDataNascimento,
			Labels: []string{"Data de Nasc"},
			Kind:   KindDate,
			Loose:  regexp.MustCompile(`(\d{2}/\d{2}/\d{4})`),
		},
		{
			Key:    KeySexo,
			Labels: []string{"Sexo"},
			Kind:   KindSex,
			Loose:  regexp.MustCompile(`(?i)\b(Feminino|Masculino)\b`),
		},
		{
			Key:        KeyRaca,
			Labels:     []string{"Raça/Cor", "Raça/cor"},
			Kind:       KindEnum,
			Vocabulary: RacaVocabulary,
			Loose:      regexp.MustCompile(`\b(BRANCA|PRETA|PARDA|AMARELA|IND[IÍ]GENA)\b`),
		},
		{
			Key:       KeyProntuario,
			Labels:    []string{"Núm. Prontuário", "Prontuário"},
			Kind:      KindDigits,
			MinDigits: 1,
			Loose:     regexp.MustCompile(`(?i)(?:Núm\.?\s*Prontuário|Prontuário)\s*[:\-]?\s*(\d+)`),
		},
		{
			Key:    KeyMunicipioReferencia,
			Labels: []string{"Município de Referência", "Município de referência"},
			Kind:   KindFreeText,
			Loose:  regexp.MustCompile(`(?i)Munic[íi]pio de Refer[êe]ncia\s*\n?([A-ZÀ-ÿ\s]+)`),
		},
		{
			Key:    KeyUF,
			Labels: []string{"UF"},
			Kind:   KindState,
			Loose:  regexp.MustCompile(`\b([A-Z]{2})\b`),
		},
		{
			Key:       KeyCEP,
			Labels:    []string{"CEP"},
			Kind:      KindDigits,
			MinDigits: 8,
			MaxDigits: 8,
			Loose:     regexp.MustCompile(`\b\d{5}-?\d{3}\b`),
		},
		{
			Key:    KeyTelefonePaciente,
			Labels: []string{"Telefone de Contato"},
			Kind:   KindPhone,
			Loose:  regexp.MustCompile(`\(?\d{2}\)?\s?\d{4,5}-?\d{4}`),
		},
		{
			Key:    KeyEnderecoCompleto,
			Labels: []string{"Endereço Residencial (Rua, Av etc)", "Endereço Residencial"},
			Kind:   KindFreeText,
			Loose:  regexp.MustCompile(`(?i)Endere[çc]o[^\n]*\n?([^\n]+)`),
		},
	}
}
