// Package session owns the console session lifecycle: sign-in, sign-out,
// registration, onboarding adoption and local rehydration. It is the sole
// writer of the token store.
package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/docuport/console-gateway/internal/domain"
	"github.com/docuport/console-gateway/internal/events"
	"github.com/docuport/console-gateway/internal/tokenstore"
	"github.com/docuport/console-gateway/internal/upstream"
	"github.com/docuport/console-gateway/pkg/util"
)

// Session is the in-memory projection of one console session. Readers get
// this projection; nothing outside the manager touches the token store.
type Session struct {
	ID          string
	State       domain.SessionState
	Identity    *domain.Identity
	Tenant      *domain.Tenant
	Credential  string
	Permissions []string
}

// LoggedIn reports whether the session holds an authenticated identity.
func (s *Session) LoggedIn() bool {
	return s.State == domain.SessionLoggedInSystem || s.State == domain.SessionLoggedInTenant
}

func loggedOut(sessionID string) *Session {
	return &Session{ID: sessionID, State: domain.SessionLoggedOut}
}

// Manager normalizes the two login protocols into one identity shape and
// guards every token store write.
type Manager struct {
	store      tokenstore.Store
	upstream   *upstream.Client
	logger     *zap.Logger
	dispatcher events.Dispatcher

	mu     sync.Mutex
	epochs map[string]uint64
}

// NewManager builds the manager.
func NewManager(store tokenstore.Store, client *upstream.Client, logger *zap.Logger) *Manager {
	return &Manager{
		store:    store,
		upstream: client,
		logger:   logger,
		epochs:   make(map[string]uint64),
	}
}

// WithEvents attaches a dispatcher for session lifecycle events.
func (m *Manager) WithEvents(dispatcher events.Dispatcher) *Manager {
	m.dispatcher = dispatcher
	return m
}

func (m *Manager) publish(ctx context.Context, event events.Event) {
	if m.dispatcher == nil {
		return
	}
	_ = m.dispatcher.Publish(ctx, event)
}

// Restore rehydrates the session from the token store without any network
// call. Corrupted or inconsistent stored state fails safe to logged out.
func (m *Manager) Restore(ctx context.Context, sessionID string) (*Session, error) {
	credential, ok, err := m.store.Get(ctx, sessionID, tokenstore.SlotCredential)
	if err != nil {
		return nil, err
	}
	if !ok || credential == "" {
		return loggedOut(sessionID), nil
	}

	rawIdentity, ok, err := m.store.Get(ctx, sessionID, tokenstore.SlotIdentity)
	if err != nil {
		return nil, err
	}
	if !ok {
		return m.failSafe(ctx, sessionID, "credential present without identity"), nil
	}

	var identity domain.Identity
	if err := json.Unmarshal([]byte(rawIdentity), &identity); err != nil || !identity.Role.Valid() {
		return m.failSafe(ctx, sessionID, "stored identity unreadable"), nil
	}

	var tenant *domain.Tenant
	rawTenant, tenantStored, err := m.store.Get(ctx, sessionID, tokenstore.SlotTenant)
	if err != nil {
		return nil, err
	}
	if tenantStored && rawTenant != tokenstore.NullValue {
		tenant = &domain.Tenant{}
		if err := json.Unmarshal([]byte(rawTenant), tenant); err != nil || tenant.ID == "" {
			return m.failSafe(ctx, sessionID, "stored tenant unreadable"), nil
		}
	}

	// A system operator has no tenant; everyone else has exactly one.
	if identity.Role.IsSystem() != (tenant == nil) {
		return m.failSafe(ctx, sessionID, "identity and tenant scope disagree"), nil
	}

	var permissions []string
	if rawPerms, ok, _ := m.store.Get(ctx, sessionID, tokenstore.SlotPermissions); ok {
		if err := json.Unmarshal([]byte(rawPerms), &permissions); err != nil {
			permissions = nil
		}
	}

	return &Session{
		ID:          sessionID,
		State:       stateFor(identity.Role),
		Identity:    &identity,
		Tenant:      tenant,
		Credential:  credential,
		Permissions: permissions,
	}, nil
}

// Login authenticates a tenant user, optionally scoped by a tenant hint.
// On failure the prior stored session is left untouched.
func (m *Manager) Login(ctx context.Context, sessionID, username, password, tenantHint string) (*Session, error) {
	if username == "" || password == "" {
		return nil, util.NewValidationError("username and password required", nil)
	}
	issued := m.currentEpoch(sessionID)

	res, err := m.upstream.Login(ctx, username, password, tenantHint)
	if err != nil {
		return nil, err
	}
	if res.Identity.Role.IsSystem() || res.Tenant == nil {
		return nil, util.NewUpstreamError("tenant login returned a non-tenant identity", nil, nil)
	}
	return m.commit(ctx, sessionID, issued, res, events.EventSignedIn)
}

// SystemLogin authenticates a system operator. The resulting session never
// carries a tenant.
func (m *Manager) SystemLogin(ctx context.Context, sessionID, username, password string) (*Session, error) {
	if username == "" || password == "" {
		return nil, util.NewValidationError("username and password required", nil)
	}
	issued := m.currentEpoch(sessionID)

	res, err := m.upstream.SystemLogin(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if !res.Identity.Role.IsSystem() {
		return nil, util.NewUpstreamError("system login returned a non-operator identity", nil, nil)
	}
	return m.commit(ctx, sessionID, issued, res, events.EventSignedIn)
}

// Register self-registers a tenant user and signs them in.
func (m *Manager) Register(ctx context.Context, sessionID, tenantID string, form upstream.RegistrationForm) (*Session, error) {
	if tenantID == "" {
		return nil, util.NewValidationError("tenant id required", nil)
	}
	if form.Username == "" || form.Password == "" || form.Email == "" {
		return nil, util.NewValidationError("username, email and password required", nil)
	}
	issued := m.currentEpoch(sessionID)

	res, err := m.upstream.Register(ctx, tenantID, form)
	if err != nil {
		return nil, err
	}
	if res.Identity.Role.IsSystem() || res.Tenant == nil {
		return nil, util.NewUpstreamError("registration returned a non-tenant identity", nil, nil)
	}
	return m.commit(ctx, sessionID, issued, res, events.EventRegistrationDone)
}

// Adopt persists a credential/identity/tenant triple produced outside the
// manager, such as a consumed invitation.
func (m *Manager) Adopt(ctx context.Context, sessionID string, res *upstream.LoginResult) (*Session, error) {
	if res == nil || res.Token == "" {
		return nil, util.NewValidationError("login result required", nil)
	}
	issued := m.currentEpoch(sessionID)
	return m.commit(ctx, sessionID, issued, res, events.EventInvitationConsumed)
}

// Logout clears the stored and in-memory session unconditionally. It never
// touches the network and is safe to call with no session present. A login
// still in flight when Logout is issued will have its write discarded.
func (m *Manager) Logout(ctx context.Context, sessionID string) error {
	if err := m.clear(ctx, sessionID); err != nil {
		return err
	}
	m.publish(ctx, events.SignedOut(uuid.NewString(), sessionID, events.EventSignedOut))
	return nil
}

// Invalidate clears the session in reaction to an authentication-rejected
// response from any authorized call.
func (m *Manager) Invalidate(ctx context.Context, sessionID string) error {
	m.logger.Info("session invalidated by upstream rejection", zap.String("session_id", sessionID))
	if err := m.clear(ctx, sessionID); err != nil {
		return err
	}
	m.publish(ctx, events.SignedOut(uuid.NewString(), sessionID, events.EventSessionInvalidated))
	return nil
}

func (m *Manager) clear(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.epochs[sessionID]++
	return m.store.ClearAll(ctx, sessionID)
}

func (m *Manager) currentEpoch(sessionID string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.epochs[sessionID]
}

// commit persists the login result unless the session was ended after the
// operation was issued. The write fully overwrites the stored session.
func (m *Manager) commit(ctx context.Context, sessionID string, issued uint64, res *upstream.LoginResult, eventType events.EventType) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.epochs[sessionID] != issued {
		return nil, util.NewSessionSuperseded()
	}

	identityJSON, err := json.Marshal(res.Identity)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	tenantJSON := tokenstore.NullValue
	if res.Tenant != nil {
		raw, err := json.Marshal(res.Tenant)
		if err != nil {
			return nil, util.NewInternalError(err)
		}
		tenantJSON = string(raw)
	}

	values := map[string]string{
		tokenstore.SlotCredential: res.Token,
		tokenstore.SlotIdentity:   string(identityJSON),
		tokenstore.SlotTenant:     tenantJSON,
	}
	if len(res.Permissions) > 0 {
		raw, err := json.Marshal(res.Permissions)
		if err != nil {
			return nil, util.NewInternalError(err)
		}
		values[tokenstore.SlotPermissions] = string(raw)
	}

	if err := m.store.SetAll(ctx, sessionID, values); err != nil {
		return nil, err
	}

	m.publish(ctx, events.SignedIn(uuid.NewString(), sessionID, &res.Identity, res.Tenant, eventType))

	identity := res.Identity
	return &Session{
		ID:          sessionID,
		State:       stateFor(identity.Role),
		Identity:    &identity,
		Tenant:      res.Tenant,
		Credential:  res.Token,
		Permissions: res.Permissions,
	}, nil
}

// failSafe clears unreadable stored state and reports a logged out session
// instead of surfacing the corruption to callers.
func (m *Manager) failSafe(ctx context.Context, sessionID, reason string) *Session {
	m.logger.Warn("discarding stored session", zap.String("session_id", sessionID), zap.String("reason", reason))
	if err := m.store.ClearAll(ctx, sessionID); err != nil {
		m.logger.Warn("clearing stored session failed", zap.Error(err))
	}
	return loggedOut(sessionID)
}

func stateFor(role domain.Role) domain.SessionState {
	if role.IsSystem() {
		return domain.SessionLoggedInSystem
	}
	return domain.SessionLoggedInTenant
}
