package roommate

import (
	"fmt"
	"math"
)

const (
	// InterestPointsPerTag is awarded for every shared interest up to InterestPointsCap.
	InterestPointsPerTag = 2
	InterestPointsCap    = 5
	InterestsAttribute   = "interests"
)

// Attribute describes one exactly-compared attribute of the scoring table.
type Attribute struct {
	Name   string `json:"name"`
	Weight int    `json:"weight"`
	Reason string `json:"reason"`
}

type attribute struct {
	Attribute
	match func(p Profile, q PreferenceSet) bool
}

// The order of this table is the order of MatchResult.Reasons.
var attributes = []attribute{
	{Attribute{"preferred_block", 20, "Same block preference"}, func(p Profile, q PreferenceSet) bool {
		return same(p.PreferredBlock, q.PreferredBlock)
	}},
	{Attribute{"mess_preference", 15, "Same mess preference"}, func(p Profile, q PreferenceSet) bool {
		return same(p.MessPreference, q.MessPreference)
	}},
	{Attribute{"room_type", 15, "Same room type"}, func(p Profile, q PreferenceSet) bool {
		return same(p.RoomType, q.RoomType)
	}},
	{Attribute{"ac_preference", 10, "Same AC preference"}, func(p Profile, q PreferenceSet) bool {
		return same(p.ACPreference, q.ACPreference)
	}},
	{Attribute{"sleep_time", 10, "Similar sleep schedule"}, func(p Profile, q PreferenceSet) bool {
		return same(p.SleepTime, q.SleepTime)
	}},
	{Attribute{"wake_time", 5, "Similar wake time"}, func(p Profile, q PreferenceSet) bool {
		return same(p.WakeTime, q.WakeTime)
	}},
	{Attribute{"study_style", 5, "Compatible study style"}, func(p Profile, q PreferenceSet) bool {
		return same(p.StudyStyle, q.StudyStyle)
	}},
	{Attribute{"cleanliness", 10, "Similar cleanliness level"}, func(p Profile, q PreferenceSet) bool {
		return same(p.Cleanliness, q.Cleanliness)
	}},
	{Attribute{"social_level", 5, "Similar social style"}, func(p Profile, q PreferenceSet) bool {
		return same(p.SocialLevel, q.SocialLevel)
	}},
}

var maxPoints = func() int {
	total := InterestPointsCap
	for _, a := range attributes {
		total += a.Weight
	}
	return total
}()

// Weights returns the scoring table in evaluation order, including the
// interests row with its cap as weight.
func Weights() []Attribute {
	out := make([]Attribute, 0, len(attributes)+1)
	for _, a := range attributes {
		out = append(out, a.Attribute)
	}
	return append(out, Attribute{
		Name:   InterestsAttribute,
		Weight: InterestPointsCap,
		Reason: "{n} common interests",
	})
}

// MaxPoints is the highest attainable raw sum.
func MaxPoints() int { return maxPoints }

// Score compares a candidate profile against the requester preferences.
// It is pure and safe for concurrent use. Values outside their enumeration
// never match.
func Score(profile Profile, preferences PreferenceSet) MatchResult {
	raw := 0
	reasons := make([]string, 0, len(attributes)+1)

	for _, a := range attributes {
		if !a.match(profile, preferences) {
			continue
		}
		raw += a.Weight
		reasons = append(reasons, a.Reason)
	}

	if n := CommonInterests(profile.Interests, preferences.Interests); n > 0 {
		raw += min(InterestPointsCap, InterestPointsPerTag*n)
		reasons = append(reasons, fmt.Sprintf("%d common interests", n))
	}

	return MatchResult{
		Score:   normalize(raw),
		Reasons: reasons,
	}
}

// CommonInterests counts the distinct tags present in both sets.
func CommonInterests(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	wanted := make(map[string]struct{}, len(b))
	for _, tag := range b {
		wanted[tag] = struct{}{}
	}

	n := 0
	counted := make(map[string]struct{}, len(a))
	for _, tag := range a {
		if _, ok := wanted[tag]; !ok {
			continue
		}
		if _, ok := counted[tag]; ok {
			continue
		}
		counted[tag] = struct{}{}
		n++
	}
	return n
}

func normalize(raw int) int {
	score := int(math.Round(float64(raw) / float64(maxPoints) * 100))
	return max(0, min(100, score))
}

func same[T interface {
	comparable
	Valid() bool
}](a, b T) bool {
	return a == b && a.Valid()
}
