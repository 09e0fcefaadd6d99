package enums

import "strings"

type Gender string

const (
	GenderMale      Gender = "male"
	GenderFemale    Gender = "female"
	GenderNonBinary Gender = "non-binary"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderNonBinary:
		return true
	default:
		return false
	}
}

func ParseGender(raw string) Gender {
	return Gender(strings.ToLower(strings.TrimSpace(raw)))
}

type InterestedIn string

const (
	InterestedInMen      InterestedIn = "men"
	InterestedInWomen    InterestedIn = "women"
	InterestedInEveryone InterestedIn = "everyone"
)

func (i InterestedIn) Valid() bool {
	switch i {
	case InterestedInMen, InterestedInWomen, InterestedInEveryone:
		return true
	default:
		return false
	}
}

func ParseInterestedIn(raw string) InterestedIn {
	return InterestedIn(strings.ToLower(strings.TrimSpace(raw)))
}
