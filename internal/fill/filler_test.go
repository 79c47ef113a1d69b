package fill

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFiller(t *testing.T) {
	f := NewFiller("modelo_hemo.pdf")
	assert.Equal(t, "modelo_hemo.pdf", f.TemplatePath())
}

func TestFillMissingTemplate(t *testing.T) {
	f := NewFiller(filepath.Join(t.TempDir(), "inexistente.pdf"))

	_, err := f.Fill(map[string]string{"nome_paciente": "MARIA"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open template")
}

func TestFillCorruptTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modelo.pdf")
	require.NoError(t, os.WriteFile(path, []byte("isto não é um PDF"), 0o644))

	f := NewFiller(path)
	_, err := f.Fill(map[string]string{"nome_paciente": "MARIA"}, nil)
	require.Error(t, err)
}

func TestTemplateFieldsMissingTemplate(t *testing.T) {
	f := NewFiller(filepath.Join(t.TempDir(), "inexistente.pdf"))
	_, err := f.TemplateFields()
	require.Error(t, err)
}

// The fill payload must keep the JSON shape pdfcpu's form import expects:
// one forms entry with textfield/checkbox arrays.
func TestFormPayloadShape(t *testing.T) {
	group := formGroup{Forms: []formData{{
		TextFields: []formTextField{{Name: "nome_paciente", Value: "MARIA"}},
		CheckBoxes: []formCheckBox{{Name: "hema", Value: true}},
	}}}

	payload, err := json.Marshal(group)
	require.NoError(t, err)

	want := `{"forms":[{"textfield":[{"name":"nome_paciente","value":"MARIA"}],"checkbox":[{"name":"hema","value":true}]}]}`
	assert.JSONEq(t, want, string(payload))
}

func TestFormPayloadOmitsEmptySections(t *testing.T) {
	payload, err := json.Marshal(formGroup{Forms: []formData{{
		TextFields: []formTextField{{Name: "data", Value: "31/08/2026"}},
	}}})
	require.NoError(t, err)
	assert.False(t, bytes.Contains(payload, []byte("checkbox")))
}

func TestSortedKeys(t *testing.T) {
	keys := sortedKeys(map[string]bool{"c": true, "a": false, "b": true})
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}
