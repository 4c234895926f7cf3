// Package bridgedeal is the public API (spec §6, component I): given a
// HandProfile, generate one or more conforming boards, or check a profile
// for validity/feasibility before committing to a generation run.
package bridgedeal

import (
	"fmt"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/bridgedeal/card"
	"github.com/lox/bridgedeal/internal/builder"
	"github.com/lox/bridgedeal/internal/config"
	"github.com/lox/bridgedeal/internal/randutil"
	"github.com/lox/bridgedeal/internal/vuln"
	"github.com/lox/bridgedeal/profile"
	"github.com/lox/bridgedeal/validate"
)

// Deal is one generated board.
type Deal struct {
	Board         int
	Dealer        profile.Seat
	Vulnerability vuln.Vulnerability
	Hands         map[profile.Seat]card.Hand
	Attempts      int
	Elapsed       time.Duration
}

// DealSet is the result of one generate_deals call (spec §4.8).
type DealSet struct {
	Seed        int64
	Deals       []Deal
	ReseedCount int
}

// Options configures a generation run beyond the minimal seed/profile/
// count/rotate signature; the zero value is not valid on its own — use
// DefaultOptions to get sane production defaults, or Options{} fields
// individually overridden from it.
type Options struct {
	Rotate bool
	// Reproducible disables wall-clock-triggered re-seeding (spec §5):
	// the same seed always retraces the same sequence of attempts. CLI/
	// test callers that need byte-identical reruns set this; the
	// interactive generate command leaves it false so a stuck board
	// can self-recover from a bad RNG region.
	Reproducible bool
	Tuning       config.Tuning
	Clock        quartz.Clock
	Hooks        builder.Hooks
}

// DefaultOptions returns production defaults: wall-clock re-seeding
// enabled, the spec's default Tuning, and a real clock.
func DefaultOptions() Options {
	return Options{
		Reproducible: false,
		Tuning:       config.Default(),
		Clock:        quartz.NewReal(),
	}
}

// BoardExhaustedError reports that one board in a generate_deals run could
// not be completed within the attempt budget (spec §4.6/§7). Earlier
// boards in the same run, if any, are not returned: generate_deals is
// all-or-nothing per call.
type BoardExhaustedError struct {
	Board       int
	Attribution *builder.Attribution
}

func (e *BoardExhaustedError) Error() string {
	return fmt.Sprintf("bridgedeal: board %d exhausted its attempt budget (%d attempts)", e.Board, e.Attribution.TotalAttempts)
}

// InternalError wraps any builder failure other than board exhaustion
// (spec §7). In practice that is an exclusion-clause pattern that does not
// parse: ValidateProfile does not check pattern syntax, so such a pattern
// passes validation and is reported here when the board is built. Surfaced
// distinctly from BoardExhaustedError and profile.Error so callers can
// treat it as a bug report rather than a profile-tuning problem.
type InternalError struct {
	Cause error
}

func (e *InternalError) Error() string { return fmt.Sprintf("bridgedeal: internal error: %v", e.Cause) }
func (e *InternalError) Unwrap() error { return e.Cause }

// ValidateProfile runs the full three-pass validator and returns a typed
// *profile.Error on failure (spec §4.2/§6).
func ValidateProfile(hp *profile.HandProfile) error {
	return validate.ValidateProfile(hp)
}

// ValidateProfileFeasibility runs the full three-pass validator and
// additionally returns dead-sub-profile warnings on success (spec §6).
func ValidateProfileFeasibility(hp *profile.HandProfile) (*validate.FeasibilityReport, error) {
	return validate.ValidateProfileFeasibility(hp)
}

// GenerateDeals generates n boards from hp using production defaults
// (wall-clock re-seeding enabled). Use GenerateDealsWithOptions for
// deterministic/reproducible runs or custom tuning.
func GenerateDeals(seed uint64, hp *profile.HandProfile, n uint32, rotate bool) (*DealSet, error) {
	opts := DefaultOptions()
	opts.Rotate = rotate
	return GenerateDealsWithOptions(seed, hp, n, opts)
}

// GenerateDealsWithOptions is the full-control entry point (spec §4.8):
// validates hp once, then builds n boards, each with its own derived
// sub-seed (internal/randutil.Sub) so boards within one DealSet don't
// share an RNG sub-sequence.
func GenerateDealsWithOptions(seed uint64, hp *profile.HandProfile, n uint32, opts Options) (*DealSet, error) {
	if err := validate.ValidateProfile(hp); err != nil {
		return nil, err
	}
	clock := opts.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}

	ds := &DealSet{Seed: int64(seed), Deals: make([]Deal, 0, n)}
	for i := 1; i <= int(n); i++ {
		boardSeed := randutil.Sub(int64(seed), i)
		start := clock.Now()
		b, reseeds, err := builder.BuildBoard(hp, boardSeed, clock, opts.Reproducible, opts.Tuning, opts.Hooks)
		elapsed := clock.Since(start)
		ds.ReseedCount += reseeds
		if err != nil {
			if be, ok := err.(*builder.BoardExhaustedError); ok {
				return nil, &BoardExhaustedError{Board: i, Attribution: be.Attribution}
			}
			return nil, &InternalError{Cause: err}
		}

		dealer, seatMap := vuln.RotateSeats(i, hp.Dealer, opts.Rotate)
		hands := make(map[profile.Seat]card.Hand, 4)
		for idx, logical := range profile.Seats {
			hands[seatMap[idx]] = b.Hands[logical]
		}

		ds.Deals = append(ds.Deals, Deal{
			Board:         i,
			Dealer:        dealer,
			Vulnerability: vuln.ForBoard(i),
			Hands:         hands,
			Attempts:      b.Attribution.TotalAttempts,
			Elapsed:       elapsed,
		})
	}
	return ds, nil
}
