package domain

// Principal is the authenticated identity carried by a valid session token.
// It is a snapshot of the user at login time and is never persisted.
type Principal struct {
	ID          int64
	DisplayName string
}
