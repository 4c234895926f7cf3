package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/bridgedeal"
	"github.com/lox/bridgedeal/internal/config"
	"github.com/lox/bridgedeal/internal/tui"
	"github.com/lox/bridgedeal/profile"
)

// GenerateCmd generates one or more boards from a single profile file
// (spec §4.8/§6).
type GenerateCmd struct {
	Profile      string  `arg:"" help:"Path to a hand profile JSON file" type:"existingfile"`
	Count        uint32  `short:"n" help:"Number of boards to generate" default:"1"`
	Seed         *uint64 `help:"RNG seed; defaults to the current time"`
	Rotate       bool    `help:"Rotate seat positions along with the dealer each board"`
	Reproducible bool    `help:"Disable wall-clock re-seeding for byte-identical reruns"`
	ConfigFile   string  `name:"config" help:"Optional HCL tuning override file" type:"path"`
	TUI          bool    `help:"Show a live dashboard while generating"`
	Out          string  `help:"Output file for the generated deals JSON ('-' for stdout)" default:"-"`
}

func (c *GenerateCmd) Run(rc *RunContext) error {
	hp, err := profile.Load(c.Profile)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	tuning := config.Default()
	if c.ConfigFile != "" {
		tuning, err = config.Load(c.ConfigFile)
		if err != nil {
			return fmt.Errorf("generate: loading tuning: %w", err)
		}
	}
	if err := tuning.Validate(); err != nil {
		return fmt.Errorf("generate: invalid tuning: %w", err)
	}

	seed := uint64(time.Now().UnixNano())
	if c.Seed != nil {
		seed = *c.Seed
	}

	opts := bridgedeal.DefaultOptions()
	opts.Rotate = c.Rotate
	opts.Reproducible = c.Reproducible
	opts.Tuning = tuning

	var prog *tea.Program
	var dashboardDone chan struct{}
	if c.TUI {
		model := tui.NewModel(int(c.Count))
		prog = tea.NewProgram(model)
		dashboardDone = make(chan struct{})
		go func() {
			defer close(dashboardDone)
			if _, err := prog.Run(); err != nil {
				rc.Logger.Error("dashboard exited with error", "error", err)
			}
		}()
		opts.Hooks = tui.Hooks(int(c.Count), prog)
	}

	rc.Logger.Info("generating boards", "profile", c.Profile, "count", c.Count, "seed", seed)
	ds, genErr := bridgedeal.GenerateDealsWithOptions(seed, hp, c.Count, opts)

	if prog != nil {
		prog.Send(tui.DoneMsg{})
		<-dashboardDone
	}
	if genErr != nil {
		return fmt.Errorf("generate: %w", genErr)
	}

	return writeDealSet(ds, c.Out)
}

func writeDealSet(ds *bridgedeal.DealSet, out string) error {
	w := os.Stdout
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("generate: creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	type wireDeal struct {
		Board         int               `json:"board"`
		Dealer        string            `json:"dealer"`
		Vulnerability string            `json:"vulnerability"`
		Hands         map[string]string `json:"hands"`
		Attempts      int               `json:"attempts"`
		ElapsedMS     int64             `json:"elapsed_ms"`
	}
	type wireDealSet struct {
		Seed        int64      `json:"seed"`
		ReseedCount int        `json:"reseed_count"`
		Deals       []wireDeal `json:"deals"`
	}

	wire := wireDealSet{Seed: ds.Seed, ReseedCount: ds.ReseedCount, Deals: make([]wireDeal, len(ds.Deals))}
	for i, d := range ds.Deals {
		hands := make(map[string]string, 4)
		for seat, h := range d.Hands {
			hands[seat.String()] = formatHand(h)
		}
		wire.Deals[i] = wireDeal{
			Board:         d.Board,
			Dealer:        d.Dealer.String(),
			Vulnerability: d.Vulnerability.String(),
			Hands:         hands,
			Attempts:      d.Attempts,
			ElapsedMS:     d.Elapsed.Milliseconds(),
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(wire)
}
