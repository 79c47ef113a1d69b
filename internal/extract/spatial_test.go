package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hemoba-digital/fichagen/internal/document"
)

func tk(text string, x0, x1, y0 float64) document.Token {
	return document.Token{Text: text, X0: x0, X1: x1, Y0: y0, Y1: y0 + 12}
}

// One printed row with two label/value pairs: each band must stop before the
// next label's box instead of swallowing the neighboring column.
func TestExtractBandsStopsAtNextLabel(t *testing.T) {
	tokens := []document.Token{
		tk("Nome", 10, 38, 700),
		tk("do", 40, 52, 700),
		tk("Paciente", 54, 108, 700),
		tk("MARIA", 130, 168, 700),
		tk("DA", 172, 186, 700),
		tk("SILVA", 190, 228, 700),
		tk("CNS", 300, 324, 700),
		tk("123456789012345", 340, 436, 700),
	}

	e := New(Options{})
	res := &Result{Fields: map[string]string{}, Origin: map[string]Origin{}}
	e.extractBands(tokens, res, OriginText)

	assert.Equal(t, "MARIA DA SILVA", res.Fields[KeyNomePaciente])
	assert.Equal(t, "123456789012345", res.Fields[KeyCartaoSUS])
}

func TestExtractBandsSeparateRows(t *testing.T) {
	tokens := []document.Token{
		tk("Nome", 10, 38, 700),
		tk("do", 40, 52, 700),
		tk("Paciente", 54, 108, 700),
		tk("MARIA", 130, 168, 700),
		tk("Data", 10, 36, 650),
		tk("de", 38, 50, 650),
		tk("Nasc", 52, 80, 650),
		tk("28/12/1987", 100, 160, 650),
	}

	e := New(Options{})
	res := &Result{Fields: map[string]string{}, Origin: map[string]Origin{}}
	e.extractBands(tokens, res, OriginText)

	assert.Equal(t, "MARIA", res.Fields[KeyNomePaciente])
	assert.Equal(t, "28/12/1987", res.Fields[KeyDataNascimento])
}

// Keys the line pass already resolved are left alone.
func TestExtractBandsSkipsSetKeys(t *testing.T) {
	tokens := []document.Token{
		tk("Sexo", 10, 36, 700),
		tk("Masculino", 50, 110, 700),
	}

	e := New(Options{})
	res := &Result{
		Fields: map[string]string{KeySexo: "Feminino"},
		Origin: map[string]Origin{KeySexo: OriginText},
	}
	e.extractBands(tokens, res, OriginText)

	assert.Equal(t, "Feminino", res.Fields[KeySexo])
}

// Neighboring-column text that bleeds into the band is stripped before the
// candidate is filtered.
func TestExtractBandsStripsBleed(t *testing.T) {
	tokens := []document.Token{
		tk("Nome", 10, 38, 700),
		tk("do", 40, 52, 700),
		tk("Paciente", 54, 108, 700),
		tk("JOSE", 130, 160, 700),
		tk("SANTOS", 164, 210, 700),
		tk("CID", 240, 260, 700),
		tk("10", 264, 276, 700),
		tk("A41", 280, 300, 700),
	}

	e := New(Options{})
	res := &Result{Fields: map[string]string{}, Origin: map[string]Origin{}}
	e.extractBands(tokens, res, OriginText)

	assert.Equal(t, "JOSE SANTOS", res.Fields[KeyNomePaciente])
}

func TestExtractBandsNoLabels(t *testing.T) {
	tokens := []document.Token{
		tk("texto", 10, 40, 700),
		tk("livre", 44, 70, 700),
	}

	e := New(Options{})
	res := &Result{Fields: map[string]string{}, Origin: map[string]Origin{}}
	e.extractBands(tokens, res, OriginText)

	assert.Empty(t, res.Fields)
}
