package filtering

import (
	"context"

	"github.com/vitgroww/roomie/internal/candidates"
)

type requesterFilter struct {
	id string
}

// NewRequester creates a filter that removes the requester's own record.
func NewRequester() Filter {
	return &requesterFilter{}
}

func (f *requesterFilter) Name() string { return "requester" }

func (f *requesterFilter) Disable(string) {}

func (f *requesterFilter) IsEnabled() bool { return true }

func (f *requesterFilter) Validate(cfg *Config) error {
	f.id = cfg.RequesterID
	return nil
}

func (f *requesterFilter) Apply(_ context.Context, _ Deps, c *candidates.Candidates) (*candidates.Candidates, Step, error) {
	initial := c.Len()
	if f.id == "" {
		return c, Step{Initial: initial, Left: initial}, nil
	}

	removed := c.Exclude(candidates.CandidateIDField, []string{f.id})
	return c, Step{Initial: initial, Dropped: len(removed), Left: c.Len()}, nil
}
