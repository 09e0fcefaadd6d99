package dto

type CreateProfileRequest struct {
	ID            string   `json:"id"`
	Email         string   `json:"email"`
	Name          string   `json:"name"`
	Age           int      `json:"age"`
	Gender        string   `json:"gender"`
	InterestedIn  string   `json:"interestedIn"`
	Bio           string   `json:"bio"`
	Location      string   `json:"location"`
	Interests     []string `json:"interests"`
	ProfileImages []string `json:"profileImages"`
}

type UpdateProfileRequest struct {
	Name          *string   `json:"name"`
	Age           *int      `json:"age"`
	Gender        *string   `json:"gender"`
	InterestedIn  *string   `json:"interestedIn"`
	Bio           *string   `json:"bio"`
	Location      *string   `json:"location"`
	Interests     *[]string `json:"interests"`
	ProfileImages *[]string `json:"profileImages"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
