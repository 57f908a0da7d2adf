package request

type ReviewInput struct {
	Notes string `json:"notes"`
}
