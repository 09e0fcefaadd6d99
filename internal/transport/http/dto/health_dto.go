package dto

type HealthResponse struct {
	OK       bool   `json:"ok"`
	Postgres string `json:"postgres"`
	Redis    string `json:"redis"`
}
