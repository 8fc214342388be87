package ranking

import (
	"context"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vitgroww/roomie/internal/candidates"
	"github.com/vitgroww/roomie/internal/logger"
	"github.com/vitgroww/roomie/internal/roommate"
)

type Options struct {
	// Workers bounds concurrent scoring. Zero means runtime.NumCPU().
	Workers int
	// Limit truncates the ranking. Zero means unlimited.
	Limit        int
	MinimumScore int
}

type Ranked struct {
	Candidate *candidates.Candidate `json:"candidate"`
	Result    roommate.MatchResult  `json:"result"`
}

type Ranker struct {
	options Options
	logger  *zap.Logger
}

func New(options Options, base *zap.Logger) *Ranker {
	if options.Workers <= 0 {
		options.Workers = runtime.NumCPU()
	}
	return &Ranker{
		options: options,
		logger:  logger.ForComponent(base, "ranking", zap.Int("workers", options.Workers)),
	}
}

// Rank scores every candidate against preferences and returns them ordered by
// descending score. Candidates with equal scores keep their input order.
func (r *Ranker) Rank(ctx context.Context, preferences roommate.PreferenceSet, c *candidates.Candidates) ([]Ranked, error) {
	if c == nil || c.Len() == 0 {
		return []Ranked{}, nil
	}

	preferences = preferences.Normalized()
	results := make([]Ranked, c.Len())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.options.Workers)

	for i, candidate := range c.Items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = Ranked{
				Candidate: candidate,
				Result:    roommate.Score(candidate.Profile, preferences),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// The loop may have stopped early without any goroutine failing.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Result.Score > results[j].Result.Score
	})

	ranked := results[:0]
	for _, res := range results {
		if res.Result.Score < r.options.MinimumScore {
			continue
		}
		ranked = append(ranked, res)
	}

	if r.options.Limit > 0 && len(ranked) > r.options.Limit {
		ranked = ranked[:r.options.Limit]
	}

	r.logger.Debug("ranking finished",
		zap.Int("candidates", c.Len()),
		zap.Int("ranked", len(ranked)),
	)

	return ranked, nil
}
