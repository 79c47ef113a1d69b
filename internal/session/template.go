package session

import "strings"

// templateRenames translates canonical field keys to the field names of the
// HEMOBA output template where the two differ. Keys not listed keep their
// canonical name in the template.
var templateRenames = map[string]string{
	"endereco_completo": "endereco_residencial",
}

// choiceKeys are selection fields that only exist in the template as
// synthesized checkboxes, never as text fields.
var choiceKeys = map[string]bool{
	KeyAntecedenteTransfusional: true,
	KeyAntecedentesObstetricos:  true,
	KeyModalidadeTransfusao:     true,
}

// TemplatePayload translates the session field map into the text and
// checkbox values the PDF-fill collaborator expects. Tri-state and choice
// fields split into one boolean per option, true iff that option was
// selected.
func TemplatePayload(fields map[string]string) (texts map[string]string, checks map[string]bool) {
	texts = make(map[string]string)
	checks = make(map[string]bool)

	products := make(map[string]bool, len(ProductKeys))
	for _, p := range ProductKeys {
		products[p] = true
	}

	for key, value := range fields {
		if choiceKeys[key] || products[key] {
			continue
		}
		name := key
		if renamed, ok := templateRenames[key]; ok {
			name = renamed
		}
		texts[name] = value
	}

	// Sim/Não antecedents become one checkbox per option, "Não" by default.
	for _, key := range []string{KeyAntecedenteTransfusional, KeyAntecedentesObstetricos} {
		selected := fields[key]
		if selected == "" {
			selected = "Não"
		}
		checks[key+"s"] = selected == "Sim"
		checks[key+"n"] = selected == "Não"
	}

	for option, name := range modalityCheckboxes {
		checks[name] = fields[KeyModalidadeTransfusao] == option
	}

	for _, p := range ProductKeys {
		checks[p] = checkboxOn(fields[p])
	}

	return texts, checks
}

// checkboxOn interprets the truthy form-post spellings of a checked box.
func checkboxOn(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false", "nao", "não", "off":
		return false
	default:
		return true
	}
}
