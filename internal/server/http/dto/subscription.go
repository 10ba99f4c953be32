package dto

// SubscribeRequest describes POST /subscribe payload. Presence and format
// are checked by the use case so the reply can carry its own message.
type SubscribeRequest struct {
	Email string `json:"email"`
}
