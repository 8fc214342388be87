package filtering

import (
	"context"

	"go.uber.org/zap"

	"github.com/vitgroww/roomie/internal/candidates"
)

type incompleteFilter struct {
	enabled bool
	reason  string
}

// NewIncomplete creates a filter that drops candidates whose profile does not validate.
func NewIncomplete() Filter {
	return &incompleteFilter{enabled: true}
}

func (f *incompleteFilter) Name() string { return "incomplete" }

func (f *incompleteFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *incompleteFilter) IsEnabled() bool { return f.enabled }

func (f *incompleteFilter) Validate(*Config) error { return nil }

func (f *incompleteFilter) Apply(_ context.Context, deps Deps, c *candidates.Candidates) (*candidates.Candidates, Step, error) {
	initial := c.Len()
	dropped := c.Keep(func(ca *candidates.Candidate) bool {
		err := deps.Validator.Validate(ca)
		if err != nil {
			deps.Logger.Debug("dropping incomplete candidate", zap.String("id", ca.ID), zap.Error(err))
		}
		return err == nil
	})
	return c, Step{Initial: initial, Dropped: len(dropped), Left: c.Len()}, nil
}

func (f *incompleteFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason}
}
