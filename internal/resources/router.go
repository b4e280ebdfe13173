// Package resources presents one logical operation set over the platform's
// two parallel endpoint families. The current identity alone decides which
// family a call reaches; callers never name a family themselves.
package resources

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/docuport/console-gateway/internal/domain"
	"github.com/docuport/console-gateway/internal/session"
	"github.com/docuport/console-gateway/internal/upstream"
	"github.com/docuport/console-gateway/pkg/util"
)

// Router dispatches resource operations by the session's identity. Every
// call is a fresh fetch; nothing is cached, retried or re-sorted, since the
// tenant context can change between calls.
type Router struct {
	upstream *upstream.Client
	sessions *session.Manager
	logger   *zap.Logger
}

// NewRouter builds the facade.
func NewRouter(client *upstream.Client, sessions *session.Manager, logger *zap.Logger) *Router {
	return &Router{upstream: client, sessions: sessions, logger: logger}
}

// scopeFor maps the identity onto an endpoint family. A system operator
// never receives a tenant-scoped path and a tenant user never receives a
// system-scoped one; anything ambiguous fails closed.
func scopeFor(sess *session.Session) (upstream.Scope, error) {
	if sess == nil || !sess.LoggedIn() || sess.Identity == nil {
		return upstream.Scope{}, util.NewAuthenticationFailed("not signed in", nil)
	}
	if sess.Identity.Role.IsSystem() {
		return upstream.SystemScope(), nil
	}
	if sess.Tenant == nil || sess.Tenant.ID == "" {
		return upstream.Scope{}, util.NewAuthenticationFailed("session has no tenant scope", nil)
	}
	return upstream.TenantScope(sess.Tenant.ID), nil
}

// ListDocuments lists documents visible to the session. A nil folder means
// all folders, an empty string the unfiled root, any other value one folder.
func (r *Router) ListDocuments(ctx context.Context, sess *session.Session, folder *string) ([]domain.DocumentRecord, error) {
	scope, err := scopeFor(sess)
	if err != nil {
		return nil, err
	}
	docs, err := r.upstream.ListDocuments(ctx, sess.Credential, scope, folder)
	return docs, r.react(ctx, sess, err)
}

// UploadDocument stores a file. Naming a folder that does not yet exist
// creates it upstream as a side effect of the upload; there is no separate
// create-folder step.
func (r *Router) UploadDocument(ctx context.Context, sess *session.Session, file io.Reader, filename, folder string) (*domain.DocumentRecord, error) {
	if filename == "" {
		return nil, util.NewValidationError("filename required", nil)
	}
	scope, err := scopeFor(sess)
	if err != nil {
		return nil, err
	}
	doc, err := r.upstream.UploadDocument(ctx, sess.Credential, scope, file, filename, folder)
	return doc, r.react(ctx, sess, err)
}

// ListFolders lists the folders visible to the session.
func (r *Router) ListFolders(ctx context.Context, sess *session.Session) ([]domain.Folder, error) {
	scope, err := scopeFor(sess)
	if err != nil {
		return nil, err
	}
	folders, err := r.upstream.ListFolders(ctx, sess.Credential, scope)
	return folders, r.react(ctx, sess, err)
}

// SendChatMessage submits a message to the assistant.
func (r *Router) SendChatMessage(ctx context.Context, sess *session.Session, content string) (*domain.ChatMessage, error) {
	if content == "" {
		return nil, util.NewValidationError("message content required", nil)
	}
	scope, err := scopeFor(sess)
	if err != nil {
		return nil, err
	}
	msg, err := r.upstream.SendChatMessage(ctx, sess.Credential, scope, content)
	return msg, r.react(ctx, sess, err)
}

// ChatHistory fetches the assistant conversation in backend order.
func (r *Router) ChatHistory(ctx context.Context, sess *session.Session) ([]domain.ChatMessage, error) {
	scope, err := scopeFor(sess)
	if err != nil {
		return nil, err
	}
	msgs, err := r.upstream.ChatHistory(ctx, sess.Credential, scope)
	return msgs, r.react(ctx, sess, err)
}

// react clears the session when the backend rejects its credential, then
// lets the failure propagate unchanged.
func (r *Router) react(ctx context.Context, sess *session.Session, err error) error {
	if err == nil {
		return nil
	}
	if util.IsAuthenticationFailed(err) {
		if clearErr := r.sessions.Invalidate(ctx, sess.ID); clearErr != nil {
			r.logger.Warn("clearing rejected session failed", zap.Error(clearErr))
		}
	}
	return err
}
