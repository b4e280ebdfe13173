package domain

import "time"

// DocumentRecord describes a stored document as reported by the platform
// backend. Ordering is whatever the backend returned.
type DocumentRecord struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Folder      string    `json:"folder"`
	SizeBytes   int64     `json:"size_bytes"`
	ContentType string    `json:"content_type"`
	UploadedBy  string    `json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// Folder is a named grouping of documents. Folders come into existence on
// the backend when the first document lands in them.
type Folder struct {
	Name          string `json:"name"`
	DocumentCount int    `json:"document_count"`
}

// ChatMessage is one entry in the assistant conversation.
type ChatMessage struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	ChatSenderUser      = "user"
	ChatSenderAssistant = "assistant"
)
