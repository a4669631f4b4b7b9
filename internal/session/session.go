package session

// Session holds the current bearer credential and user identity.
type Session struct {
	Token string
	User  string
}

// Authenticated reports whether a credential is present. It is always
// derived from the token, never stored on its own.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Store is the single source of truth for the current session. Mutations
// write through to durable storage so a restart does not force re-login.
type Store interface {
	// Load returns the current session. A missing or unreadable backing
	// store yields an empty session, never an error.
	Load() Session
	// Login sets both token and user and persists them.
	Login(token, user string) error
	// Logout clears token and user. Calling it on an already cleared
	// store is a no-op.
	Logout() error
	Close() error
}
