package roommate

import "strings"

// Profile holds the roommate-relevant attributes of a candidate.
type Profile struct {
	PreferredBlock Block       `json:"preferred_block" mapstructure:"preferred_block" validate:"required,enum"`
	MessPreference Mess        `json:"mess_preference" mapstructure:"mess_preference" validate:"required,enum"`
	RoomType       RoomType    `json:"room_type" mapstructure:"room_type" validate:"required,enum"`
	ACPreference   AC          `json:"ac_preference" mapstructure:"ac_preference" validate:"required,enum"`
	SleepTime      Schedule    `json:"sleep_time" mapstructure:"sleep_time" validate:"required,enum"`
	WakeTime       Schedule    `json:"wake_time" mapstructure:"wake_time" validate:"required,enum"`
	StudyStyle     StudyStyle  `json:"study_style" mapstructure:"study_style" validate:"required,enum"`
	Cleanliness    Cleanliness `json:"cleanliness" mapstructure:"cleanliness" validate:"required,enum"`
	SocialLevel    SocialLevel `json:"social_level" mapstructure:"social_level" validate:"required,enum"`
	Interests      []string    `json:"interests" mapstructure:"interests" validate:"dive,required"`
}

// PreferenceSet is what the requester is looking for in a roommate.
// It has the same shape as Profile.
type PreferenceSet Profile

// MatchResult is derived on demand and never stored.
type MatchResult struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// NormalizeInterests trims tags, drops empty ones and collapses duplicates
// keeping the first occurrence.
func NormalizeInterests(interests []string) []string {
	if len(interests) == 0 {
		return []string{}
	}

	seen := make(map[string]struct{}, len(interests))
	out := make([]string, 0, len(interests))
	for _, interest := range interests {
		tag := strings.TrimSpace(interest)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// Normalized returns a copy of the profile with normalized interests.
func (p Profile) Normalized() Profile {
	p.Interests = NormalizeInterests(p.Interests)
	return p
}

func (p PreferenceSet) Normalized() PreferenceSet {
	return PreferenceSet(Profile(p).Normalized())
}
