package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func validWord() GeneratedWord {
	return GeneratedWord{
		Word:             "negotiate",
		Translate:        "交渉する",
		Example:          "We need to negotiate the terms of the contract before signing.",
		ExampleTranslate: "署名する前に、契約条件を交渉する必要があります。",
	}
}

func TestGeneratedWord_Validate(t *testing.T) {
	if err := validWord().Validate(); err != nil {
		t.Fatalf("valid word: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*GeneratedWord)
	}{
		{"empty word", func(g *GeneratedWord) { g.Word = "" }},
		{"empty translate", func(g *GeneratedWord) { g.Translate = "" }},
		{"empty example", func(g *GeneratedWord) { g.Example = "" }},
		{"empty example translate", func(g *GeneratedWord) { g.ExampleTranslate = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := validWord()
			tc.mutate(&g)
			if err := g.Validate(); !errors.Is(err, ErrIncompleteWord) {
				t.Fatalf("Validate = %v, want ErrIncompleteWord", err)
			}
		})
	}
}

func TestGeneratedWord_Entry(t *testing.T) {
	g := validWord()
	e := g.Entry()

	if e.ID != 0 {
		t.Errorf("ID = %d, want 0 (store-assigned)", e.ID)
	}
	if !e.CreatedAt.IsZero() {
		t.Error("CreatedAt should be zero before insertion")
	}
	if e.Word != g.Word || e.Translate != g.Translate ||
		e.Example != g.Example || e.ExampleTranslate != g.ExampleTranslate {
		t.Errorf("Entry() = %+v, fields do not match %+v", e, g)
	}
}

func TestWordEntry_JSONFieldNames(t *testing.T) {
	// The JSON shape is wire-compatible with the existing clients.
	raw, err := json.Marshal(WordEntry{Word: "w", Translate: "t", Example: "e", ExampleTranslate: "et"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"id", "word", "translate", "example", "exampleTranslate", "createdAt"} {
		if _, ok := m[key]; !ok {
			t.Errorf("marshaled entry missing key %q (got %v)", key, m)
		}
	}
}

func TestWordEntry_TableName(t *testing.T) {
	if got := (WordEntry{}).TableName(); got != "words" {
		t.Fatalf("TableName = %q, want words", got)
	}
}
