package ranking

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/vitgroww/roomie/internal/candidates"
	"github.com/vitgroww/roomie/internal/roommate"
)

var basePreferences = roommate.PreferenceSet{
	PreferredBlock: roommate.BlockA,
	MessPreference: roommate.MessVeg,
	RoomType:       roommate.RoomTwoBed,
	ACPreference:   roommate.ACYes,
	SleepTime:      roommate.ScheduleEarly,
	WakeTime:       roommate.ScheduleEarly,
	StudyStyle:     roommate.StudySilent,
	Cleanliness:    roommate.CleanNeatFreak,
	SocialLevel:    roommate.SocialIntrovert,
	Interests:      []string{"Chess"},
}

func profileMatching(n int) roommate.Profile {
	// Matches the first n attributes of basePreferences in table order.
	p := roommate.Profile{
		PreferredBlock: roommate.BlockH,
		MessPreference: roommate.MessNonVeg,
		RoomType:       roommate.RoomThreeBed,
		ACPreference:   roommate.ACNo,
		SleepTime:      roommate.ScheduleLate,
		WakeTime:       roommate.ScheduleLate,
		StudyStyle:     roommate.StudyMusic,
		Cleanliness:    roommate.CleanRelaxed,
		SocialLevel:    roommate.SocialExtrovert,
	}
	fields := []func(){
		func() { p.PreferredBlock = basePreferences.PreferredBlock },
		func() { p.MessPreference = basePreferences.MessPreference },
		func() { p.RoomType = basePreferences.RoomType },
		func() { p.ACPreference = basePreferences.ACPreference },
		func() { p.SleepTime = basePreferences.SleepTime },
		func() { p.WakeTime = basePreferences.WakeTime },
		func() { p.StudyStyle = basePreferences.StudyStyle },
		func() { p.Cleanliness = basePreferences.Cleanliness },
		func() { p.SocialLevel = basePreferences.SocialLevel },
	}
	for _, set := range fields[:n] {
		set()
	}
	return p
}

func pool(matches ...int) *candidates.Candidates {
	c := &candidates.Candidates{}
	for i, n := range matches {
		c.Items = append(c.Items, &candidates.Candidate{
			ID:      fmt.Sprintf("c-%d", i),
			Name:    fmt.Sprintf("candidate %d", i),
			Profile: profileMatching(n),
		})
	}
	return c
}

func ids(ranked []Ranked) []string {
	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.Candidate.ID)
	}
	return out
}

func TestRank(t *testing.T) {
	t.Parallel()

	// Block only scores 20, block+mess 35, nothing 0.
	c := pool(1, 0, 2, 1, 2, 0)

	tests := []struct {
		name    string
		options Options
		want    []string
	}{
		{"all, ties keep input order", Options{}, []string{"c-2", "c-4", "c-0", "c-3", "c-1", "c-5"}},
		{"limit", Options{Limit: 3}, []string{"c-2", "c-4", "c-0"}},
		{"minimum score", Options{MinimumScore: 20}, []string{"c-2", "c-4", "c-0", "c-3"}},
		{"single worker", Options{Workers: 1}, []string{"c-2", "c-4", "c-0", "c-3", "c-1", "c-5"}},
		{"minimum above everything", Options{MinimumScore: 90}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := New(tt.options, nil).Rank(context.Background(), basePreferences, c)
			if err != nil {
				t.Fatalf("rank: %v", err)
			}
			if !reflect.DeepEqual(ids(got), tt.want) {
				t.Fatalf("got %v, want %v", ids(got), tt.want)
			}
		})
	}
}

func TestRankScoresMatchScorer(t *testing.T) {
	t.Parallel()

	c := pool(9, 5, 3)
	got, err := New(Options{Workers: 2}, nil).Rank(context.Background(), basePreferences, c)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}

	for _, r := range got {
		want := roommate.Score(r.Candidate.Profile, basePreferences)
		if !reflect.DeepEqual(r.Result, want) {
			t.Fatalf("candidate %s: got %+v, want %+v", r.Candidate.ID, r.Result, want)
		}
	}
	if got[0].Result.Score != 95 {
		t.Fatalf("expected 95 for a full attribute match without interests, got %d", got[0].Result.Score)
	}
}

func TestRankEmpty(t *testing.T) {
	t.Parallel()

	got, err := New(Options{}, nil).Rank(context.Background(), basePreferences, &candidates.Candidates{})
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil ranking, got %v", got)
	}
}

func TestRankCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Options{}, nil).Rank(ctx, basePreferences, pool(1, 2, 3))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
