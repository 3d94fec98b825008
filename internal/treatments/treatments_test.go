package treatments

import "testing"

func TestLookup_KnownCondition(t *testing.T) {
	got := Lookup("Eczema")
	if len(got) == 0 {
		t.Fatal("expected suggestions for eczema")
	}
	if got[0] != "Apply coconut oil to moisturize the skin." {
		t.Errorf("first suggestion = %q", got[0])
	}
}

func TestLookup_NormalizesCase_AndWhitespace(t *testing.T) {
	cases := map[string]bool{
		"ECZEMA":            true,
		"  Nail   Fungus  ": true, // whitespace runs collapse to one underscore
		"Urticaria/Hives":   true,
		"Acne/Rosacea":      true,
		"Sunburn":           false,
		"":                  false,
	}
	for name, wantHit := range cases {
		got := Lookup(name)
		if (len(got) > 0) != wantHit {
			t.Errorf("Lookup(%q): %d suggestions, want hit=%v", name, len(got), wantHit)
		}
	}
}

func TestLookup_MissReturnsEmptyNotNil(t *testing.T) {
	got := Lookup("unknown condition")
	if got == nil {
		t.Fatal("miss must return an empty slice, not nil")
	}
	if len(got) != 0 {
		t.Errorf("miss returned %d suggestions", len(got))
	}
}

func TestLookup_ReturnsCopy(t *testing.T) {
	first := Lookup("eczema")
	first[0] = "mutated"
	if Lookup("eczema")[0] == "mutated" {
		t.Error("Lookup exposed the underlying table")
	}
}
