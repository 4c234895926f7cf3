// Package config holds the tunable constants that govern the builder's
// attempt/retry/re-roll/re-seed loop and the pre-allocator's phased
// sampling (spec §4.5-§4.8), with optional HCL overrides grounded on
// internal/server's LoadServerConfig pattern in the teacher repo.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Tuning bundles every overridable constant used by the pre-allocator and
// builder. Zero-value fields are never valid configuration on their own;
// callers always start from Default() and apply overrides on top.
type Tuning struct {
	MaxBoardAttempts int     `hcl:"max_board_attempts,optional"`
	MaxBoardRetries  int     `hcl:"max_board_retries,optional"`
	SubRerollInitial int     `hcl:"sub_reroll_initial,optional"`
	SubRerollMin     int     `hcl:"sub_reroll_min,optional"`
	SubRerollDecay   float64 `hcl:"sub_reroll_decay,optional"`
	RsRerollRatio    float64 `hcl:"rs_reroll_ratio,optional"`

	DispersionThreshold float64 `hcl:"dispersion_threshold,optional"`
	PreAllocStdFraction float64 `hcl:"prealloc_std_fraction,optional"`
	RsPreAllocFraction  float64 `hcl:"rs_prealloc_fraction,optional"`
	RsHcpRetries        int     `hcl:"rs_hcp_retries,optional"`

	HcpFeasibilityNumSd float64 `hcl:"hcp_feasibility_num_sd,optional"`

	ReseedThresholdSeconds float64 `hcl:"reseed_threshold_seconds,optional"`
	MaxSelectionRetries    int     `hcl:"max_selection_retries,optional"`
}

// Default returns the spec-mandated default tuning (spec §4.5-§4.8).
func Default() Tuning {
	return Tuning{
		MaxBoardAttempts: 10000,
		MaxBoardRetries:  50,
		SubRerollInitial: 150,
		SubRerollMin:     50,
		SubRerollDecay:   0.7,
		RsRerollRatio:    0.7,

		DispersionThreshold: 0.19,
		PreAllocStdFraction: 0.75,
		RsPreAllocFraction:  1.0,
		RsHcpRetries:        10,

		HcpFeasibilityNumSd: 1.0,

		ReseedThresholdSeconds: 1.75,
		MaxSelectionRetries:    100,
	}
}

// file is the HCL document shape; Tuning itself isn't a valid gohcl target
// since it has no block wrapper, so Load decodes into this and copies
// overridden fields onto a Default().
type file struct {
	Tuning fileTuning `hcl:"tuning,block"`
}

type fileTuning struct {
	MaxBoardAttempts *int     `hcl:"max_board_attempts,optional"`
	MaxBoardRetries  *int     `hcl:"max_board_retries,optional"`
	SubRerollInitial *int     `hcl:"sub_reroll_initial,optional"`
	SubRerollMin     *int     `hcl:"sub_reroll_min,optional"`
	SubRerollDecay   *float64 `hcl:"sub_reroll_decay,optional"`
	RsRerollRatio    *float64 `hcl:"rs_reroll_ratio,optional"`

	DispersionThreshold *float64 `hcl:"dispersion_threshold,optional"`
	PreAllocStdFraction *float64 `hcl:"prealloc_std_fraction,optional"`
	RsPreAllocFraction  *float64 `hcl:"rs_prealloc_fraction,optional"`
	RsHcpRetries        *int     `hcl:"rs_hcp_retries,optional"`

	HcpFeasibilityNumSd *float64 `hcl:"hcp_feasibility_num_sd,optional"`

	ReseedThresholdSeconds *float64 `hcl:"reseed_threshold_seconds,optional"`
	MaxSelectionRetries    *int     `hcl:"max_selection_retries,optional"`
}

// Load reads an HCL tuning file and applies any set fields on top of
// Default(). A missing file is not an error; it just yields the default
// tuning (mirrors LoadServerConfig's "absent file means defaults" rule).
func Load(path string) (Tuning, error) {
	t := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return t, nil
	}

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return Tuning{}, fmt.Errorf("config: parse %s: %s", path, diags.Error())
	}

	var f file
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &f); diags.HasErrors() {
		return Tuning{}, fmt.Errorf("config: decode %s: %s", path, diags.Error())
	}

	ft := f.Tuning
	applyInt(&t.MaxBoardAttempts, ft.MaxBoardAttempts)
	applyInt(&t.MaxBoardRetries, ft.MaxBoardRetries)
	applyInt(&t.SubRerollInitial, ft.SubRerollInitial)
	applyInt(&t.SubRerollMin, ft.SubRerollMin)
	applyFloat(&t.SubRerollDecay, ft.SubRerollDecay)
	applyFloat(&t.RsRerollRatio, ft.RsRerollRatio)
	applyFloat(&t.DispersionThreshold, ft.DispersionThreshold)
	applyFloat(&t.PreAllocStdFraction, ft.PreAllocStdFraction)
	applyFloat(&t.RsPreAllocFraction, ft.RsPreAllocFraction)
	applyInt(&t.RsHcpRetries, ft.RsHcpRetries)
	applyFloat(&t.HcpFeasibilityNumSd, ft.HcpFeasibilityNumSd)
	applyFloat(&t.ReseedThresholdSeconds, ft.ReseedThresholdSeconds)
	applyInt(&t.MaxSelectionRetries, ft.MaxSelectionRetries)

	if err := t.Validate(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

func applyInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func applyFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

// Validate sanity-checks a Tuning before it's used (e.g. after an HCL
// override). It deliberately does not require values to match the spec
// defaults, only that they are usable.
func (t Tuning) Validate() error {
	if t.MaxBoardAttempts <= 0 {
		return fmt.Errorf("config: max_board_attempts must be positive")
	}
	if t.MaxBoardRetries <= 0 {
		return fmt.Errorf("config: max_board_retries must be positive")
	}
	if t.SubRerollInitial < t.SubRerollMin {
		return fmt.Errorf("config: sub_reroll_initial must be >= sub_reroll_min")
	}
	if t.SubRerollDecay <= 0 || t.SubRerollDecay >= 1 {
		return fmt.Errorf("config: sub_reroll_decay must be in (0,1)")
	}
	if t.DispersionThreshold <= 0 || t.DispersionThreshold >= 1 {
		return fmt.Errorf("config: dispersion_threshold must be in (0,1)")
	}
	if t.MaxSelectionRetries <= 0 {
		return fmt.Errorf("config: max_selection_retries must be positive")
	}
	return nil
}
