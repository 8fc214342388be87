package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vitgroww/roomie/internal/candidates"
	"github.com/vitgroww/roomie/internal/filtering"
	"github.com/vitgroww/roomie/internal/logger"
	"github.com/vitgroww/roomie/internal/ranking"
	"github.com/vitgroww/roomie/internal/validator"
)

const (
	PromptShowRanking         = "Show ranking"
	PromptReportByBlock       = "Report by block"
	PromptDetails             = "Show candidate details"
	PromptDismiss             = "Dismiss candidates"
	PromptRankingToFile       = "Dump ranking to file"
	PromptCandidatesToFile    = "Dump candidates to file (importable)"
	PromptExit                = "Exit"
	PromptBack                = "back"
	PromptAppendToExcludeFile = "Append all shown candidates to exclude file"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowRanking, PromptReportByBlock, PromptDetails, PromptDismiss, PromptRankingToFile, PromptCandidatesToFile, PromptExit},
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank candidates against your preferences",
	Run: func(cmd *cobra.Command, _ []string) {
		rank(cmd)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().BoolP("auto-approve", "y", false, "print the ranking and exit without prompting")
	rankCmd.Flags().StringP("exclude-file", "e", "", "file with dismissed candidates to skip. Default is unset.")
	rankCmd.Flags().StringP("candidates", "c", "", "JSON file with candidates, used instead of the database")
	rankCmd.Flags().IntP("limit", "n", 0, "show at most this many candidates (0 for all)")
	rankCmd.Flags().Int("min-score", 0, "hide candidates scoring below this value")
	rankCmd.Flags().Int("workers", 0, "number of scoring workers (default is the number of CPUs)")
	rankCmd.Flags().Bool("block-only", false, "only rank candidates preferring your block")
	rankCmd.Flags().String("requester-id", "", "your own candidate id, excluded from the ranking")

	viper.BindPFlag("exclude-file", rankCmd.Flags().Lookup("exclude-file"))
	viper.BindPFlag("candidates.file", rankCmd.Flags().Lookup("candidates"))
	viper.BindPFlag("ranking.limit", rankCmd.Flags().Lookup("limit"))
	viper.BindPFlag("ranking.minimum-score", rankCmd.Flags().Lookup("min-score"))
	viper.BindPFlag("ranking.workers", rankCmd.Flags().Lookup("workers"))
	viper.BindPFlag("ranking.block-only", rankCmd.Flags().Lookup("block-only"))
	viper.BindPFlag("requester-id", rankCmd.Flags().Lookup("requester-id"))
}

func rank(cmd *cobra.Command) {
	ctx := context.Background()
	logger, config := setup("rank")

	v := validator.New()
	preferences := config.Preferences.Normalized()
	if err := v.Validate(&preferences); err != nil {
		logger.Fatal("preferences are incomplete",
			zap.Error(err),
			zap.String("hint", "fill the preferences section of the config or run 'roomie edit'"),
		)
	}

	pool, err := loadCandidates(ctx, config, v, logger)
	if err != nil {
		logger.Fatal("loading candidates", zap.Error(err))
	}

	if pool.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates found"))
		return
	}

	filters := filtering.New(filtering.Default(config.Ranking.BlockOnly), logger)
	pool, err = filters.RunFilters(ctx, &filtering.Config{
		RequesterID: config.RequesterID,
		ExcludeFile: config.ExcludeFile,
		Preferences: preferences,
	}, filtering.Deps{Logger: logger, Validator: v}, pool)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if pool.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates left after filters"))
		return
	}

	ranker := ranking.New(ranking.Options{
		Workers:      config.Ranking.Workers,
		Limit:        config.Ranking.Limit,
		MinimumScore: config.Ranking.MinimumScore,
	}, logger)

	ranked, err := ranker.Rank(ctx, preferences, pool)
	if err != nil {
		logger.Fatal("ranking failed", zap.Error(err))
	}

	if len(ranked) == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates reach the minimum score"),
			zap.Int("minimum_score", config.Ranking.MinimumScore))
		return
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		printRanking(os.Stdout, ranked)
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		logger.Info("current ranking", zap.Int("count", len(ranked)))

		ranked, err = handleAction(action, logger, config, ranked)
		if err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, config *Config, ranked []ranking.Ranked) ([]ranking.Ranked, error) {
	switch action {
	case PromptShowRanking:
		printRanking(os.Stdout, ranked)
		return ranked, nil
	case PromptReportByBlock:
		pretty, _ := json.MarshalIndent(rankedCandidates(ranked).ReportByBlock(), "", "  ")
		logger.Info(string(pretty), zap.Int("candidates count", len(ranked)))
		return ranked, nil
	case PromptDetails:
		return ranked, showDetails(ranked)
	case PromptDismiss:
		return dismiss(logger, config.ExcludeFile, ranked)
	case PromptRankingToFile:
		filename, err := dumpRanking(ranked)
		if err != nil {
			return ranked, fmt.Errorf("dump ranking to file: %w", err)
		}
		logger.Info("dumping ranking to file", zap.String("filename", filename))
		return ranked, nil
	case PromptCandidatesToFile:
		filename, err := rankedCandidates(ranked).DumpToTmpFile()
		if err != nil {
			return ranked, fmt.Errorf("dump candidates to file: %w", err)
		}
		logger.Info("dumping candidates to file", zap.String("filename", filename))
		return ranked, nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return ranked, errExit
	default:
		return ranked, fmt.Errorf("invalid action: %s", action)
	}
}

func printRanking(w io.Writer, ranked []ranking.Ranked) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSCORE\tID\tNAME\tBLOCK\tREASONS")
	for i, r := range ranked {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\n",
			i+1,
			r.Result.Score,
			r.Candidate.ID,
			logger.TruncateForLog(r.Candidate.Name, 30),
			r.Candidate.Profile.PreferredBlock,
			strings.Join(r.Result.Reasons, ", "),
		)
	}
	tw.Flush()
}

func candidateLabel(r ranking.Ranked) string {
	return fmt.Sprintf("%s %3d %s / block %s", r.Candidate.ID, r.Result.Score, r.Candidate.Name, r.Candidate.Profile.PreferredBlock)
}

func selectCandidate(label string, ranked []ranking.Ranked, extra ...string) (string, error) {
	items := make([]string, 0, len(ranked)+len(extra)+1)
	for _, r := range ranked {
		items = append(items, candidateLabel(r))
	}
	items = append(items, extra...)

	candidatePrompt := promptui.Select{
		Label: label,
		Items: append(items, PromptBack),
		Size:  10,
	}
	_, selected, err := candidatePrompt.Run()
	return selected, err
}

func showDetails(ranked []ranking.Ranked) error {
	for {
		selected, err := selectCandidate("Choose a candidate and press ENTER", ranked)
		if err != nil {
			return err
		}
		if selected == PromptBack {
			return nil
		}

		r := findRanked(ranked, strings.Split(selected, " ")[0])
		if r == nil {
			return fmt.Errorf("there is no such candidate %s", selected)
		}
		printDetails(os.Stdout, r)
	}
}

func printDetails(w io.Writer, r *ranking.Ranked) {
	c := r.Candidate
	p := c.Profile
	fmt.Fprintf(w, "%s (%s)\n", c.Name, c.ID)
	if c.Bio != "" {
		fmt.Fprintf(w, "  bio:         %s\n", c.Bio)
	}
	if c.Contact != "" {
		fmt.Fprintf(w, "  contact:     %s\n", c.Contact)
	}
	fmt.Fprintf(w, "  block %s, %s mess, %s room, %s\n", p.PreferredBlock, p.MessPreference, p.RoomType, p.ACPreference)
	fmt.Fprintf(w, "  sleeps %s, wakes %s, studies %s\n", p.SleepTime, p.WakeTime, p.StudyStyle)
	fmt.Fprintf(w, "  cleanliness %s, %s\n", p.Cleanliness, p.SocialLevel)
	fmt.Fprintf(w, "  interests:   %s\n", strings.Join(p.Interests, ", "))
	fmt.Fprintf(w, "  score %d: %s\n", r.Result.Score, strings.Join(r.Result.Reasons, ", "))
}

func dismiss(logger *zap.Logger, excludeFile string, ranked []ranking.Ranked) ([]ranking.Ranked, error) {
	if strings.TrimSpace(excludeFile) == "" {
		logger.Warn("dismissing is unavailable", zap.String("hint", "set exclude-file in the config or pass --exclude-file"))
		return ranked, nil
	}

	for {
		var extra []string
		if len(ranked) != 0 {
			extra = append(extra, PromptAppendToExcludeFile)
		}

		selected, err := selectCandidate("Choose a candidate to dismiss", ranked, extra...)
		if err != nil {
			return ranked, err
		}

		var target *candidates.Candidates
		switch selected {
		case PromptBack:
			return ranked, nil
		case PromptAppendToExcludeFile:
			target = rankedCandidates(ranked)
		default:
			candidate := rankedCandidates(ranked).FindByID(strings.Split(selected, " ")[0])
			if candidate == nil {
				return ranked, fmt.Errorf("there is no such candidate %s", selected)
			}
			target = &candidates.Candidates{Items: []*candidates.Candidate{candidate}}
		}

		reasonPrompt := promptui.Prompt{Label: "Reason (optional)"}
		reason, err := reasonPrompt.Run()
		if err != nil {
			return ranked, err
		}

		excluded, err := candidates.GetExcludedCandidatesFromFile(excludeFile)
		if err != nil {
			return ranked, err
		}
		excluded.Append(target.ToExcluded(candidates.ExcludeActorUser, strings.TrimSpace(reason)))
		if err := excluded.ToFile(excludeFile); err != nil {
			return ranked, err
		}

		logger.Info("appended to exclude file",
			zap.String("filename", excludeFile),
			zap.Strings("candidate_ids", target.IDs()),
		)
		ranked = withoutIDs(ranked, target.IDs())
	}
}

func dumpRanking(ranked []ranking.Ranked) (string, error) {
	file, err := os.CreateTemp("", "ranking_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ranked); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func rankedCandidates(ranked []ranking.Ranked) *candidates.Candidates {
	c := &candidates.Candidates{Items: make([]*candidates.Candidate, 0, len(ranked))}
	for _, r := range ranked {
		c.Items = append(c.Items, r.Candidate)
	}
	return c
}

// findRanked looks the candidate up by id and returns its ranking entry.
func findRanked(ranked []ranking.Ranked, id string) *ranking.Ranked {
	candidate := rankedCandidates(ranked).FindByID(id)
	if candidate == nil {
		return nil
	}
	for i := range ranked {
		if ranked[i].Candidate == candidate {
			return &ranked[i]
		}
	}
	return nil
}

func withoutIDs(ranked []ranking.Ranked, ids []string) []ranking.Ranked {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := make([]ranking.Ranked, 0, len(ranked))
	for _, r := range ranked {
		if _, ok := drop[r.Candidate.ID]; !ok {
			kept = append(kept, r)
		}
	}
	return kept
}
