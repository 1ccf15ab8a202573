package session

import "context"

// allowEntry pairs a credential with its user record
type allowEntry struct {
	email    string
	password string
	name     string
}

// Allowlist is a static credential verifier for demo deployments. It exists
// so the gate works without a backing auth service; it is not an
// authentication protocol and must not guard anything of value.
type Allowlist struct {
	entries []allowEntry
}

// NewAllowlist returns the demo allow-list
func NewAllowlist() *Allowlist {
	return &Allowlist{
		entries: []allowEntry{
			{email: "admin@hardware.com", password: "admin123", name: "Admin"},
			{email: "manager@hardware.com", password: "manager123", name: "Manager"},
			{email: "user@hardware.com", password: "user123", name: "User"},
		},
	}
}

// Verify compares against the allow-list
func (a *Allowlist) Verify(_ context.Context, email, password string) (User, error) {
	for _, entry := range a.entries {
		if entry.email == email && entry.password == password {
			return User{Email: entry.email, Name: entry.name}, nil
		}
	}
	return User{}, ErrInvalidCredentials
}
