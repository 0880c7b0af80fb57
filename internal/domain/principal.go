package domain

// Principal is the authenticated actor behind one request, decoded from
// a verified token. It is an immutable value passed into every core
// operation; nothing in the core reads identity from ambient state.
type Principal struct {
	UserID string
	Email  string
	Role   Role
}

// IsZero reports whether no authenticated principal is present.
func (p Principal) IsZero() bool {
	return p.UserID == ""
}
