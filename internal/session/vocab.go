package session

// Manual clinical field keys completed by the reviewer rather than extracted
// from the AIH.
const (
	KeyHospital                 = "hospital"
	KeyTelefoneUnidade          = "telefone_unidade"
	KeyData                     = "data"
	KeyHora                     = "hora"
	KeyDiagnostico              = "diagnostico"
	KeyPeso                     = "peso"
	KeyAntecedenteTransfusional = "antecedente_transfusional"
	KeyAntecedentesObstetricos  = "antecedentes_obstetricos"
	KeyModalidadeTransfusao     = "modalidade_transfusao"
)

// Blood product checkbox keys of the output form.
var ProductKeys = []string{"hema", "pfc", "plaquetas_prod", "crio"}

// Hospitals maps each requesting unit to its default contact phone. The
// selected unit's phone pre-fills telefone_unidade unless the reviewer
// already set one.
var Hospitals = map[string]string{
	"Maternidade Frei Justo Venture":          "(75) 3331-9400",
	"Hospital Regional da Chapada Diamantina": "(75) 3331-1900",
}

// Modalities lists the transfusion modality options in display order.
var Modalities = []string{"Rotina", "Programada", "Urgência", "Emergência"}

// modalityCheckboxes maps each modality option to its checkbox field in the
// output template.
var modalityCheckboxes = map[string]string{
	"Programada": "modalidade_transfusaop",
	"Rotina":     "modalidade_transfusaor",
	"Urgência":   "modalidade_transfusaou",
	"Emergência": "modalidade_transfusaoe",
}

// YesNo lists the options of the tri-state antecedent fields ("Não" default).
var YesNo = []string{"Não", "Sim"}
