package roommate

// Block is a residence block identifier.
type Block string

const (
	BlockA Block = "A"
	BlockB Block = "B"
	BlockC Block = "C"
	BlockD Block = "D"
	BlockE Block = "E"
	BlockF Block = "F"
	BlockG Block = "G"
	BlockH Block = "H"
)

// Mess is the preferred dining mess.
type Mess string

const (
	MessVeg      Mess = "veg"
	MessNonVeg   Mess = "non-veg"
	MessSpecial  Mess = "special"
	MessFoodPark Mess = "food-park"
)

// RoomType is the number of beds in a room.
type RoomType string

const (
	RoomTwoBed   RoomType = "2-bed"
	RoomThreeBed RoomType = "3-bed"
	RoomFourBed  RoomType = "4-bed"
	RoomSixBed   RoomType = "6-bed"
)

// AC tells whether the room is air conditioned.
type AC string

const (
	ACYes AC = "ac"
	ACNo  AC = "non-ac"
)

// Schedule is used for both sleep and wake times.
type Schedule string

const (
	ScheduleEarly    Schedule = "early"
	ScheduleModerate Schedule = "moderate"
	ScheduleLate     Schedule = "late"
)

// StudyStyle is how a student prefers to study in the room.
type StudyStyle string

const (
	StudySilent StudyStyle = "silent"
	StudyMusic  StudyStyle = "music"
	StudyGroup  StudyStyle = "group"
)

// Cleanliness is how tidy a student keeps the room.
type Cleanliness string

const (
	CleanNeatFreak Cleanliness = "neat-freak"
	CleanModerate  Cleanliness = "moderate"
	CleanRelaxed   Cleanliness = "relaxed"
)

// SocialLevel is how much company a student enjoys.
type SocialLevel string

const (
	SocialIntrovert SocialLevel = "introvert"
	SocialAmbivert  SocialLevel = "ambivert"
	SocialExtrovert SocialLevel = "extrovert"
)

// AllBlocks lists every block in display order.
func AllBlocks() []Block {
	return []Block{BlockA, BlockB, BlockC, BlockD, BlockE, BlockF, BlockG, BlockH}
}

// AllMesses lists every mess option.
func AllMesses() []Mess {
	return []Mess{MessVeg, MessNonVeg, MessSpecial, MessFoodPark}
}

// AllRoomTypes lists room types from smallest to largest.
func AllRoomTypes() []RoomType {
	return []RoomType{RoomTwoBed, RoomThreeBed, RoomFourBed, RoomSixBed}
}

// AllACs lists both AC options.
func AllACs() []AC {
	return []AC{ACYes, ACNo}
}

// AllSchedules lists schedules from earliest to latest.
func AllSchedules() []Schedule {
	return []Schedule{ScheduleEarly, ScheduleModerate, ScheduleLate}
}

// AllStudyStyles lists every study style.
func AllStudyStyles() []StudyStyle {
	return []StudyStyle{StudySilent, StudyMusic, StudyGroup}
}

// AllCleanliness lists cleanliness levels from tidiest to most relaxed.
func AllCleanliness() []Cleanliness {
	return []Cleanliness{CleanNeatFreak, CleanModerate, CleanRelaxed}
}

// AllSocialLevels lists social levels from most to least reserved.
func AllSocialLevels() []SocialLevel {
	return []SocialLevel{SocialIntrovert, SocialAmbivert, SocialExtrovert}
}

func (b Block) Valid() bool       { return contains(AllBlocks(), b) }
func (m Mess) Valid() bool        { return contains(AllMesses(), m) }
func (r RoomType) Valid() bool    { return contains(AllRoomTypes(), r) }
func (a AC) Valid() bool          { return contains(AllACs(), a) }
func (s Schedule) Valid() bool    { return contains(AllSchedules(), s) }
func (s StudyStyle) Valid() bool  { return contains(AllStudyStyles(), s) }
func (c Cleanliness) Valid() bool { return contains(AllCleanliness(), c) }
func (s SocialLevel) Valid() bool { return contains(AllSocialLevels(), s) }

func contains[T comparable](values []T, v T) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
