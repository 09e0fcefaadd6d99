package dto

type UploadImageResponse struct {
	URL string `json:"url"`
}
