package filtering

import (
	"context"
	"fmt"

	"github.com/vitgroww/roomie/internal/candidates"
	"github.com/vitgroww/roomie/internal/roommate"
)

type blockOnlyFilter struct {
	enabled bool
	reason  string
	block   roommate.Block
}

// NewBlockOnly creates a filter that keeps only candidates preferring the
// requester's block.
func NewBlockOnly(enabled bool) Filter {
	return &blockOnlyFilter{enabled: enabled}
}

func (f *blockOnlyFilter) Name() string { return "block_only" }

func (f *blockOnlyFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *blockOnlyFilter) IsEnabled() bool { return f.enabled }

func (f *blockOnlyFilter) Validate(cfg *Config) error {
	if !cfg.Preferences.PreferredBlock.Valid() {
		return fmt.Errorf("a valid preferred block is required, got %q", cfg.Preferences.PreferredBlock)
	}
	f.block = cfg.Preferences.PreferredBlock
	return nil
}

func (f *blockOnlyFilter) Apply(_ context.Context, _ Deps, c *candidates.Candidates) (*candidates.Candidates, Step, error) {
	initial := c.Len()
	dropped := c.Keep(func(ca *candidates.Candidate) bool {
		return ca.Profile.PreferredBlock == f.block
	})
	return c, Step{Initial: initial, Dropped: len(dropped), Left: c.Len()}, nil
}

func (f *blockOnlyFilter) Status() Status {
	status := Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason}
	if f.block != "" {
		status.Details = map[string]string{"block": string(f.block)}
	}
	return status
}
