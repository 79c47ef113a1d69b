// Package fill produces the completed output PDF by filling the HEMOBA
// AcroForm template with the reviewed field values.
package fill

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Filler fills a fixed AcroForm template with field values.
type Filler struct {
	templatePath string
}

// NewFiller creates a filler for the given template path. The template is
// opened per fill, so replacing the file on disk takes effect immediately.
func NewFiller(templatePath string) *Filler {
	return &Filler{templatePath: templatePath}
}

// TemplatePath returns the configured template location.
func (f *Filler) TemplatePath() string {
	return f.templatePath
}

// TemplateFields lists the form fields declared by the template.
func (f *Filler) TemplateFields() ([]TemplateField, error) {
	file, err := os.Open(f.templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open template %s: %w", f.templatePath, err)
	}
	defer file.Close()
	return readTemplateFields(file)
}

// pdfcpu form-fill JSON payload.
type formTextField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type formCheckBox struct {
	Name  string `json:"name"`
	Value bool   `json:"value"`
}

type formData struct {
	TextFields []formTextField `json:"textfield,omitempty"`
	CheckBoxes []formCheckBox  `json:"checkbox,omitempty"`
}

type formGroup struct {
	Forms []formData `json:"forms"`
}

// Fill writes the given text and checkbox values into the template and
// returns the filled PDF bytes. Values whose names do not exist in the
// template are skipped; a payload with no matching field at all is a
// field-name mismatch and fails the attempt.
func (f *Filler) Fill(texts map[string]string, checks map[string]bool) ([]byte, error) {
	declared, err := f.TemplateFields()
	if err != nil {
		return nil, err
	}
	if len(declared) == 0 {
		return nil, fmt.Errorf("template %s declares no form fields", f.templatePath)
	}

	known := make(map[string]bool, len(declared))
	for _, fld := range declared {
		known[fld.Name] = true
	}

	var data formData
	for _, name := range sortedKeys(texts) {
		if known[name] {
			data.TextFields = append(data.TextFields, formTextField{Name: name, Value: texts[name]})
		}
	}
	for _, name := range sortedKeys(checks) {
		if known[name] {
			data.CheckBoxes = append(data.CheckBoxes, formCheckBox{Name: name, Value: checks[name]})
		}
	}
	if len(data.TextFields) == 0 && len(data.CheckBoxes) == 0 {
		return nil, fmt.Errorf("no field in the payload matches the template %s", f.templatePath)
	}

	payload, err := json.Marshal(formGroup{Forms: []formData{data}})
	if err != nil {
		return nil, fmt.Errorf("failed to encode form data: %w", err)
	}

	file, err := os.Open(f.templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open template %s: %w", f.templatePath, err)
	}
	defer file.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	var out bytes.Buffer
	if err := api.FillForm(file, bytes.NewReader(payload), &out, conf); err != nil {
		return nil, fmt.Errorf("failed to fill form: %w", err)
	}
	return out.Bytes(), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
