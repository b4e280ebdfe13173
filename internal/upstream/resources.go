package upstream

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/docuport/console-gateway/internal/domain"
	"github.com/docuport/console-gateway/pkg/util"
)

// ListDocuments fetches documents in the given scope. A nil folder means
// all folders; an empty string names the unfiled root.
func (c *Client) ListDocuments(ctx context.Context, credential string, scope Scope, folder *string) ([]domain.DocumentRecord, error) {
	params := url.Values{}
	if folder != nil {
		params.Set("folder", *folder)
	}
	req, err := c.newJSONRequest(ctx, http.MethodGet, queryPath(scope.basePath()+"/documents", params), nil)
	if err != nil {
		return nil, err
	}
	var docs []domain.DocumentRecord
	if err := c.do(withBearer(req, credential), scope.Family(), "list_documents", &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// UploadDocument streams a file into the scope's storage. Uploading into a
// folder that does not yet exist creates it on the backend.
func (c *Client) UploadDocument(ctx context.Context, credential string, scope Scope, file io.Reader, filename, folder string) (*domain.DocumentRecord, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, util.NewInternalError(err)
	}
	if folder != "" {
		if err := writer.WriteField("folder", folder); err != nil {
			return nil, util.NewInternalError(err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, util.NewInternalError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+scope.basePath()+"/documents", &buf)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var doc domain.DocumentRecord
	if err := c.do(withBearer(req, credential), scope.Family(), "upload_document", &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListFolders fetches the folders visible in the scope.
func (c *Client) ListFolders(ctx context.Context, credential string, scope Scope) ([]domain.Folder, error) {
	req, err := c.newJSONRequest(ctx, http.MethodGet, scope.basePath()+"/folders", nil)
	if err != nil {
		return nil, err
	}
	var folders []domain.Folder
	if err := c.do(withBearer(req, credential), scope.Family(), "list_folders", &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

// SendChatMessage submits a message to the assistant and returns its reply.
func (c *Client) SendChatMessage(ctx context.Context, credential string, scope Scope, content string) (*domain.ChatMessage, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, scope.basePath()+"/chat/messages", map[string]string{"content": content})
	if err != nil {
		return nil, err
	}
	var msg domain.ChatMessage
	if err := c.do(withBearer(req, credential), scope.Family(), "send_chat_message", &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ChatHistory fetches the assistant conversation in backend order.
func (c *Client) ChatHistory(ctx context.Context, credential string, scope Scope) ([]domain.ChatMessage, error) {
	req, err := c.newJSONRequest(ctx, http.MethodGet, scope.basePath()+"/chat/history", nil)
	if err != nil {
		return nil, err
	}
	var msgs []domain.ChatMessage
	if err := c.do(withBearer(req, credential), scope.Family(), "chat_history", &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}
