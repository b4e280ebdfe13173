// Package tokenstore persists the per-session credential, identity and
// tenant slots. The session manager is its only writer.
package tokenstore

import "context"

// Slot names within one session namespace.
const (
	SlotCredential  = "credential"
	SlotIdentity    = "identity"
	SlotTenant      = "tenant"
	SlotPermissions = "permissions"
)

// NullValue is persisted in the tenant slot for system operators so that an
// explicitly absent tenant is distinguishable from a slot never written.
const NullValue = "null"

// Store is an opaque key-value holder scoped by console session id.
type Store interface {
	// Get returns the slot value, reporting absence instead of erroring.
	Get(ctx context.Context, sessionID, slot string) (string, bool, error)
	// Set writes a single slot.
	Set(ctx context.Context, sessionID, slot, value string) error
	// SetAll replaces every slot of the session in one atomic write. Slots
	// not present in values are removed.
	SetAll(ctx context.Context, sessionID string, values map[string]string) error
	// Clear removes a single slot.
	Clear(ctx context.Context, sessionID, slot string) error
	// ClearAll removes every slot of the session. Safe when nothing exists.
	ClearAll(ctx context.Context, sessionID string) error
}

// AllSlots lists every slot a session may hold.
func AllSlots() []string {
	return []string{SlotCredential, SlotIdentity, SlotTenant, SlotPermissions}
}
