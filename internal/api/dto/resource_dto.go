package dto

// SendChatRequest carries one user message for the assistant.
type SendChatRequest struct {
	Content string `json:"content"`
}
