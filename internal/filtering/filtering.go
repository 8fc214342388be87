package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vitgroww/roomie/internal/candidates"
	"github.com/vitgroww/roomie/internal/logger"
	"github.com/vitgroww/roomie/internal/roommate"
	"github.com/vitgroww/roomie/internal/validator"
)

// Filter represents a single filtering step applied to candidates before ranking.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, c *candidates.Candidates) (*candidates.Candidates, Step, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Logger    *zap.Logger
	Validator *validator.Validator
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains settings consumed by the filters.
type Config struct {
	RequesterID string
	ExcludeFile string
	Preferences roommate.PreferenceSet
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

type statusProvider interface {
	Status() Status
}

// Filtering runs an ordered list of filters.
type Filtering struct {
	steps  []Filter
	logger *zap.Logger
}

func New(steps []Filter, base *zap.Logger) *Filtering {
	return &Filtering{steps: steps, logger: logger.ForComponent(base, "filtering")}
}

// Default returns the standard pipeline. blockOnly enables the block_only step.
func Default(blockOnly bool) []Filter {
	return []Filter{
		NewRequester(),
		NewExcludeFile(),
		NewIncomplete(),
		NewBlockOnly(blockOnly),
	}
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func (f *Filtering) DisableByName(name, reason string) {
	for _, step := range f.steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// RunFilters validates every enabled filter and then applies them in order.
func (f *Filtering) RunFilters(ctx context.Context, cfg *Config, deps Deps, c *candidates.Candidates) (*candidates.Candidates, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if deps.Logger == nil {
		deps.Logger = f.logger
	}
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}

	for _, step := range f.steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range f.steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !step.IsEnabled() {
			f.logger.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, deps, c)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		f.logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		c = next
	}

	return c, nil
}

// Describe returns status entries for the configured filters.
func (f *Filtering) Describe() []Status {
	statuses := make([]Status, 0, len(f.steps))
	for _, step := range f.steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}
