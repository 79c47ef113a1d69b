package fill

import (
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// FieldType classifies a template form field.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeButton   FieldType = "button"
	FieldTypeSelect   FieldType = "select"
	FieldTypeUnknown  FieldType = "unknown"
)

// TemplateField describes one AcroForm field of the output template.
type TemplateField struct {
	Name string    `json:"name"`
	Type FieldType `json:"type"`
}

// readTemplateFields walks the template's AcroForm dictionary and returns
// the declared field names and types. A template without an AcroForm yields
// an empty slice, which callers treat as a terminal configuration error.
func readTemplateFields(rs io.ReadSeeker) ([]TemplateField, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(rs, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to ensure page count: %w", err)
	}

	rootDict, err := ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	acroFormObj, found := rootDict.Find("AcroForm")
	if !found {
		return nil, nil
	}
	acroFormDict, err := ctx.DereferenceDict(acroFormObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference AcroForm: %w", err)
	}
	if acroFormDict == nil {
		return nil, nil
	}

	fieldsObj, found := acroFormDict.Find("Fields")
	if !found {
		return nil, nil
	}
	fieldsArray, err := ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference Fields array: %w", err)
	}

	var fields []TemplateField
	for i, fieldRef := range fieldsArray {
		fieldDict, err := ctx.DereferenceDict(fieldRef)
		if err != nil || fieldDict == nil {
			continue
		}

		field := TemplateField{Type: fieldType(ctx, fieldDict)}
		if nameObj, found := fieldDict.Find("T"); found {
			if name, err := ctx.DereferenceStringOrHexLiteral(nameObj, model.V10, nil); err == nil {
				field.Name = name
			}
		}
		if field.Name == "" {
			field.Name = fmt.Sprintf("field_%d", i)
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// fieldType determines the field type from the FT entry, following the
// inheritance chain through Parent when absent.
func fieldType(ctx *model.Context, fieldDict types.Dict) FieldType {
	ftObj, found := fieldDict.Find("FT")
	if !found {
		if parentObj, found := fieldDict.Find("Parent"); found {
			if parentDict, err := ctx.DereferenceDict(parentObj); err == nil && parentDict != nil {
				return fieldType(ctx, parentDict)
			}
		}
		return FieldTypeUnknown
	}

	ftName, err := ctx.DereferenceName(ftObj, model.V10, nil)
	if err != nil {
		return FieldTypeUnknown
	}

	switch ftName {
	case "Btn":
		if flagsObj, found := fieldDict.Find("Ff"); found {
			if flags, err := ctx.DereferenceInteger(flagsObj); err == nil && flags != nil {
				flagValue := *flags
				if (flagValue & (1 << 15)) != 0 { // Bit 16: Radio
					return FieldTypeRadio
				}
				if (flagValue & (1 << 16)) != 0 { // Bit 17: Pushbutton
					return FieldTypeButton
				}
			}
		}
		return FieldTypeCheckbox
	case "Tx":
		return FieldTypeText
	case "Ch":
		return FieldTypeSelect
	case "Sig", "":
		return FieldTypeUnknown
	default:
		return FieldTypeUnknown
	}
}
