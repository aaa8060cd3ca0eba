package model

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRegistry_UniqueKey_SuffixesCollisions(t *testing.T) {
	reg := NewRegistry()

	first := reg.UniqueKey("Teste")
	reg.Upsert(first, []OptionItem{{Description: "A"}})
	second := reg.UniqueKey("Teste")
	reg.Upsert(second, []OptionItem{{Description: "B"}})
	third := reg.UniqueKey("teste!")
	reg.Upsert(third, []OptionItem{{Description: "C"}})

	if first != "TESTE" || second != "TESTE1" || third != "TESTE2" {
		t.Fatalf("unexpected keys: %q, %q, %q", first, second, third)
	}
}

func TestRegistry_UniqueKey_PairwiseDistinct(t *testing.T) {
	reg := NewRegistry()
	pattern := regexp.MustCompile(`^[A-Z0-9]{1,20}[0-9]*$`)

	seen := make(map[string]struct{})
	for i := 0; i < 30; i++ {
		key := reg.UniqueKey("Situação Atual")
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate key %q on iteration %d", key, i)
		}
		if !pattern.MatchString(key) {
			t.Fatalf("key %q does not match expected shape", key)
		}
		seen[key] = struct{}{}
		reg.Upsert(key, nil)
	}
}

func TestRegistry_UniqueKey_FallbackForEmptyTitle(t *testing.T) {
	reg := NewRegistry()
	if got := reg.UniqueKey("***"); got != FallbackKey {
		t.Fatalf("expected fallback key %q, got %q", FallbackKey, got)
	}
	reg.Upsert(FallbackKey, nil)
	if got := reg.UniqueKey(""); got != FallbackKey+"1" {
		t.Fatalf("expected suffixed fallback, got %q", got)
	}
}

func TestRegistry_Upsert_DerivesValues(t *testing.T) {
	reg := NewRegistry()
	reg.Upsert("SIMOUNAO", []OptionItem{
		{Description: "Sim"},
		{Description: "Não"},
		{Description: "Talvez", Value: "MAYBE"},
	})

	want := []OptionItem{
		{Description: "Sim", Value: "SIM"},
		{Description: "Não", Value: "NAO"},
		{Description: "Talvez", Value: "MAYBE"},
	}
	if diff := cmp.Diff(want, reg.Items("SIMOUNAO")); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_AppendItems_SkipsDuplicates(t *testing.T) {
	reg := NewRegistry()
	reg.Upsert("CORES", []OptionItem{{Description: "Azul"}})

	reg.AppendItems("CORES", []OptionItem{
		{Description: "Azul"},
		{Description: "Verde"},
		{Description: "Verde"},
	})

	want := []OptionItem{
		{Description: "Azul", Value: "AZUL"},
		{Description: "Verde", Value: "VERDE"},
	}
	if diff := cmp.Diff(want, reg.Items("CORES")); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_RemoveIfUnreferenced(t *testing.T) {
	reg := NewRegistry()
	reg.Upsert("USADO", nil)
	reg.Upsert("SOLTO", nil)

	form := &Form{Sections: []Section{{
		Title:  "Dados",
		Fields: []Field{{Type: FieldTypeRadioGroup, Title: "Usado", DomainKey: "USADO"}},
	}}}

	reg.RemoveIfUnreferenced("USADO", form)
	reg.RemoveIfUnreferenced("SOLTO", form)

	if !reg.Has("USADO") {
		t.Fatalf("referenced domain must survive")
	}
	if reg.Has("SOLTO") {
		t.Fatalf("unreferenced domain must be deleted")
	}
}

func TestRegistry_Sweep_MatchesReachability(t *testing.T) {
	reg := NewRegistry()
	form := &Form{Sections: []Section{{Title: "S"}}}

	for i := 0; i < 5; i++ {
		key := fmt.Sprintf("DOM%d", i)
		reg.Upsert(key, nil)
		if i%2 == 0 {
			form.Sections[0].Fields = append(form.Sections[0].Fields, Field{
				Type: FieldTypeCheckGroup, DomainKey: key,
			})
		}
	}

	removed := reg.Sweep(form)
	if diff := cmp.Diff([]string{"DOM1", "DOM3"}, removed); diff != "" {
		t.Fatalf("removed keys mismatch (-want +got):\n%s", diff)
	}
	for _, key := range reg.Keys() {
		if !form.References(key) {
			t.Fatalf("registry kept unreferenced key %q", key)
		}
	}
}
