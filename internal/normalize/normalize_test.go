package normalize

import "testing"

func TestKey(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "Dados", "DADOS"},
		{"diacritics", "Sim ou Não", "SIMOUNAO"},
		{"punctuation", "E-mail (pessoal)?", "EMAILPESSOAL"},
		{"cedilla", "Seção de Endereço", "SECAODEENDERECO"},
		{"truncates", "Identificação do solicitante principal", "IDENTIFICACAODOSOLIC"},
		{"only symbols", "!!! ???", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Key(tc.input); got != tc.want {
				t.Fatalf("Key(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestKey_Length(t *testing.T) {
	got := Key("abcdefghijklmnopqrstuvwxyz0123456789")
	if len(got) != MaxKeyLength {
		t.Fatalf("expected key truncated to %d chars, got %d (%q)", MaxKeyLength, len(got), got)
	}
}

func TestItemValue(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"single word", "Sim", "SIM"},
		{"diacritics", "Não", "NAO"},
		{"spaces become underscores", "Opção A", "OPCAO_A"},
		{"collapses runs", "Muito   bom  mesmo", "MUITO_BOM_MESMO"},
		{"strips punctuation", "R$ 10,00 (dez)", "R_1000_DEZ"},
		{"keeps underscores", "JA_TEM", "JA_TEM"},
		{"trims edges", "  borda  ", "BORDA"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ItemValue(tc.input); got != tc.want {
				t.Fatalf("ItemValue(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
