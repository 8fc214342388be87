package filtering

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vitgroww/roomie/internal/candidates"
	"github.com/vitgroww/roomie/internal/roommate"
)

func completeProfile(block roommate.Block) roommate.Profile {
	return roommate.Profile{
		PreferredBlock: block,
		MessPreference: roommate.MessVeg,
		RoomType:       roommate.RoomTwoBed,
		ACPreference:   roommate.ACNo,
		SleepTime:      roommate.ScheduleEarly,
		WakeTime:       roommate.ScheduleEarly,
		StudyStyle:     roommate.StudySilent,
		Cleanliness:    roommate.CleanModerate,
		SocialLevel:    roommate.SocialAmbivert,
		Interests:      []string{},
	}
}

func pool() *candidates.Candidates {
	return &candidates.Candidates{Items: []*candidates.Candidate{
		{ID: "me", Name: "Requester", Profile: completeProfile(roommate.BlockA)},
		{ID: "a1", Name: "Asha", Profile: completeProfile(roommate.BlockA)},
		{ID: "b1", Name: "Bala", Profile: completeProfile(roommate.BlockB)},
		{ID: "x1", Name: "Broken", Profile: roommate.Profile{PreferredBlock: roommate.BlockA}},
		{ID: "a2", Name: "Arun", Profile: completeProfile(roommate.BlockA)},
	}}
}

func writeExcluded(t *testing.T, ids ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "excluded.json")
	c := &candidates.Candidates{}
	for _, id := range ids {
		c.Items = append(c.Items, &candidates.Candidate{ID: id, Name: id})
	}
	if err := c.ToExcluded(candidates.ExcludeActorUser, "").ToFile(path); err != nil {
		t.Fatalf("write excluded file: %v", err)
	}
	return path
}

func TestRunFilters(t *testing.T) {
	t.Parallel()

	excludeFile := writeExcluded(t, "a2")

	tests := []struct {
		name      string
		blockOnly bool
		cfg       *Config
		want      []string
	}{
		{
			name: "no configuration drops only incomplete",
			cfg:  &Config{},
			want: []string{"me", "a1", "b1", "a2"},
		},
		{
			name: "requester and exclude file",
			cfg:  &Config{RequesterID: "me", ExcludeFile: excludeFile},
			want: []string{"a1", "b1"},
		},
		{
			name:      "block only",
			blockOnly: true,
			cfg:       &Config{RequesterID: "me", Preferences: roommate.PreferenceSet{PreferredBlock: roommate.BlockA}},
			want:      []string{"a1", "a2"},
		},
		{
			name: "missing exclude file is empty",
			cfg:  &Config{ExcludeFile: filepath.Join(t.TempDir(), "missing.json")},
			want: []string{"me", "a1", "b1", "a2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := New(Default(tt.blockOnly), nil)
			got, err := f.RunFilters(context.Background(), tt.cfg, Deps{}, pool())
			if err != nil {
				t.Fatalf("run filters: %v", err)
			}
			if !reflect.DeepEqual(got.IDs(), tt.want) {
				t.Fatalf("got %v, want %v", got.IDs(), tt.want)
			}
		})
	}
}

func TestBlockOnlyRequiresValidBlock(t *testing.T) {
	t.Parallel()

	f := New(Default(true), nil)
	_, err := f.RunFilters(context.Background(), &Config{}, Deps{}, pool())
	if err == nil {
		t.Fatal("expected validation error for missing block")
	}

	f.DisableByName("block_only", "no block configured")
	if _, err := f.RunFilters(context.Background(), &Config{}, Deps{}, pool()); err != nil {
		t.Fatalf("disabled filter should not validate: %v", err)
	}

	for _, status := range f.Describe() {
		if status.Name == "block_only" && (status.Enabled || status.Reason != "no block configured") {
			t.Fatalf("unexpected status: %+v", status)
		}
	}
}

func TestRunFiltersLogsSteps(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	f := New(Default(false), logger)
	if _, err := f.RunFilters(context.Background(), &Config{RequesterID: "me"}, Deps{}, pool()); err != nil {
		t.Fatalf("run filters: %v", err)
	}

	steps := observed.FilterMessage("filter step").All()
	if len(steps) != 3 {
		t.Fatalf("expected 3 enabled steps logged, got %d", len(steps))
	}

	first := steps[0].ContextMap()
	if first["name"] != "requester" || first["initial"] != int64(5) || first["dropped"] != int64(1) || first["left"] != int64(4) {
		t.Fatalf("unexpected requester step: %v", first)
	}
}

func TestRunFiltersCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(Default(false), nil).RunFilters(ctx, nil, Deps{}, pool()); err == nil {
		t.Fatal("expected context error")
	}
}
