package fine

type PayInput struct {
	Channel string `json:"channel"`
}

type WaiveInput struct {
	Reason string `json:"reason" binding:"required"`
}
