package rules

import "github.com/yash0834/lovelane-cloudinary-api/internal/domain/enums"

const (
	MinAge       = 18
	MaxAge       = 100
	MaxBioLength = 500
)

// AcceptsGender reports whether a viewer with the given preference may be shown
// a candidate of the given gender. Only "everyone" admits non-binary profiles.
func AcceptsGender(interestedIn enums.InterestedIn, gender enums.Gender) bool {
	switch interestedIn {
	case enums.InterestedInMen:
		return gender == enums.GenderMale
	case enums.InterestedInWomen:
		return gender == enums.GenderFemale
	case enums.InterestedInEveryone:
		return true
	default:
		return false
	}
}

func AgeAllowed(age int) bool {
	return age >= MinAge && age <= MaxAge
}
