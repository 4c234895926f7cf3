package main

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/lox/bridgedeal"
	"github.com/lox/bridgedeal/profile"
)

// ValidateCmd runs the three-pass validator against one or more profile
// files concurrently (spec §4.2/§6), reporting every failure rather than
// stopping at the first one.
type ValidateCmd struct {
	Profiles []string `arg:"" help:"Profile JSON files to validate" type:"existingfile"`
}

type validateResult struct {
	path    string
	err     error
	warning *validateWarning
}

type validateWarning struct {
	deadSubProfiles int
}

func (c *ValidateCmd) Run(rc *RunContext) error {
	results := make([]validateResult, len(c.Profiles))

	var g errgroup.Group
	for i, path := range c.Profiles {
		i, path := i, path
		g.Go(func() error {
			results[i] = validateOne(path)
			return nil
		})
	}
	_ = g.Wait() // validateOne never returns an error itself; failures live in results

	failures := 0
	for _, r := range results {
		switch {
		case r.err != nil:
			failures++
			rc.Logger.Error("invalid profile", "file", r.path, "error", r.err)
		case r.warning != nil && r.warning.deadSubProfiles > 0:
			rc.Logger.Warn("profile has unreachable sub-profiles", "file", r.path, "dead", r.warning.deadSubProfiles)
		default:
			rc.Logger.Info("profile ok", "file", r.path)
		}
	}
	if failures > 0 {
		return fmt.Errorf("validate: %d of %d profiles invalid", failures, len(c.Profiles))
	}
	return nil
}

func validateOne(path string) validateResult {
	hp, err := profile.Load(path)
	if err != nil {
		return validateResult{path: path, err: err}
	}
	report, err := bridgedeal.ValidateProfileFeasibility(hp)
	if err != nil {
		return validateResult{path: path, err: err}
	}
	return validateResult{path: path, warning: &validateWarning{deadSubProfiles: len(report.DeadSubProfiles)}}
}
