package models_test

import (
	"testing"

	"github.com/granjadata/avicola_backend/models"
)

func TestPickFirstByName_DeterministicTieBreak(t *testing.T) {
	cases := []struct {
		name     string
		refs     []models.NameRef
		expected string
	}{
		{
			"alphabetical winner regardless of input order",
			[]models.NameRef{
				{ID: "2", Name: "norte Sur"},
				{ID: "1", Name: "Norte"},
			},
			"1",
		},
		{
			"case-insensitive comparison",
			[]models.NameRef{
				{ID: "b", Name: "granja zulia"},
				{ID: "a", Name: "Granja Andina"},
			},
			"a",
		},
		{
			"byte order breaks equal folds",
			[]models.NameRef{
				{ID: "lower", Name: "norte"},
				{ID: "upper", Name: "Norte"},
			},
			"upper",
		},
	}
	for _, tc := range cases {
		winner, ok := models.PickFirstByName(tc.refs)
		if !ok {
			t.Fatalf("%s: expected a winner", tc.name)
		}
		if winner.ID != tc.expected {
			t.Fatalf("%s: expected id %s, got %s (%s)", tc.name, tc.expected, winner.ID, winner.Name)
		}
		// Same input reversed must give the same winner.
		reversed := []models.NameRef{tc.refs[len(tc.refs)-1], tc.refs[0]}
		again, _ := models.PickFirstByName(reversed)
		if again.ID != winner.ID {
			t.Fatalf("%s: winner depends on input order", tc.name)
		}
	}
}

func TestPickFirstByName_Empty(t *testing.T) {
	if _, ok := models.PickFirstByName(nil); ok {
		t.Fatal("empty slice must not produce a winner")
	}
}

func TestReferenceNotFoundError_Message(t *testing.T) {
	err := &models.ReferenceNotFoundError{Kind: "farm", Query: "Atlántida"}
	expected := `no farm found matching "Atlántida"`
	if err.Error() != expected {
		t.Fatalf("expected %q, got %q", expected, err.Error())
	}
}

func TestFinalizePatch_MatchesManualUpdate(t *testing.T) {
	patch := models.FinalizePatch("2026-03-20")
	if patch["state"] != string(models.BatchStateFinished) {
		t.Fatalf("state = %v", patch["state"])
	}
	if patch["slaughter_date"] != "2026-03-20" {
		t.Fatalf("slaughter_date = %v", patch["slaughter_date"])
	}
	if len(patch) != 2 {
		t.Fatalf("finalize must only touch state and slaughter_date, got %v", patch)
	}
}
