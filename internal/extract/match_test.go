package extract

import "testing"

func TestFindLabel(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		label     string
		wantOK    bool
		wantAfter string
	}{
		{"exact", "CEP: 44000-000", "CEP", true, ": 44000-000"},
		{"case insensitive", "cep 44000-000", "CEP", true, " 44000-000"},
		{"accent insensitive", "MUNICIPIO DE REFERENCIA: IRAQUARA", "Município de Referência", true, ": IRAQUARA"},
		{"accented line plain label", "Município: IRAQUARA", "Municipio", true, ": IRAQUARA"},
		{"inside longer word", "SUFICIENTE", "UF", false, ""},
		{"printed prefix", "Data de Nascimento: 28/12/1987", "Data de Nasc", true, ": 28/12/1987"},
		{"prefix consumes glued digits", "UF2 BA", "UF", true, " BA"},
		{"word bounded by punctuation", "(UF) BA", "UF", true, ") BA"},
		{"not present", "Sexo: Feminino", "CEP", false, ""},
		{"label longer than line", "UF", "Município de Referência", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, after, ok := findLabel(tt.line, tt.label)
			if ok != tt.wantOK {
				t.Fatalf("findLabel(%q, %q) ok = %v, want %v", tt.line, tt.label, ok, tt.wantOK)
			}
			if ok && after != tt.wantAfter {
				t.Errorf("findLabel(%q, %q) after = %q, want %q", tt.line, tt.label, after, tt.wantAfter)
			}
		})
	}
}

func TestFindLabelStartOffset(t *testing.T) {
	start, _, ok := findLabel("valor  UF: BA", "UF")
	if !ok {
		t.Fatal("expected match")
	}
	if start != 7 {
		t.Errorf("start = %d, want 7", start)
	}
}

func TestFindLabelOffsetWithAccents(t *testing.T) {
	// Bytes before the match include multi-byte runes; the offset must still
	// slice the original string correctly.
	line := "Município de Referência: IRAQUARA"
	start, after, ok := findLabel(line, "Município de Referência")
	if !ok {
		t.Fatal("expected match")
	}
	if start != 0 {
		t.Errorf("start = %d, want 0", start)
	}
	if after != ": IRAQUARA" {
		t.Errorf("after = %q", after)
	}
}

func TestTrimSeparator(t *testing.T) {
	tests := []struct{ input, want string }{
		{": valor", "valor"},
		{" - valor", "valor"},
		{"valor", "valor"},
		{"  :  valor  ", "valor"},
		{":", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := trimSeparator(tt.input); got != tt.want {
			t.Errorf("trimSeparator(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
