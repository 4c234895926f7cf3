package config

import "testing"

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default tuning should validate: %v", err)
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	tn, err := Load("/nonexistent/path/tuning.hcl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tn != Default() {
		t.Fatalf("expected default tuning for a missing file, got %+v", tn)
	}
}

func TestValidateRejectsBadDecay(t *testing.T) {
	tn := Default()
	tn.SubRerollDecay = 1.5
	if err := tn.Validate(); err == nil {
		t.Fatal("expected error for decay >= 1")
	}
}

func TestValidateRejectsInvertedRerollBounds(t *testing.T) {
	tn := Default()
	tn.SubRerollInitial = 10
	tn.SubRerollMin = 50
	if err := tn.Validate(); err == nil {
		t.Fatal("expected error for sub_reroll_initial < sub_reroll_min")
	}
}
