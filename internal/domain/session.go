package domain

// SessionState describes where a console session sits in its lifecycle.
// Unknown exists only before the stored session has been rehydrated.
type SessionState string

const (
	SessionUnknown        SessionState = "UNKNOWN"
	SessionLoggedOut      SessionState = "LOGGED_OUT"
	SessionLoggedInSystem SessionState = "LOGGED_IN_SYSTEM"
	SessionLoggedInTenant SessionState = "LOGGED_IN_TENANT"
)
