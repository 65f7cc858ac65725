package models

// User represents a registered user account. Users are the root of the
// ownership chain: every project, and transitively everything under it,
// belongs to exactly one user.
type User struct {
	// ID is the store-allocated identifier for the user.
	ID int64 `json:"id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email is the user's email address (unique). Used for login and
	// duplicate detection at sign-up.
	Email string `json:"email"`

	// Username is the unique handle chosen at sign-up. Also accepted at
	// login.
	Username string `json:"username"`

	// PasswordHash is the bcrypt hash of the user's password. Never
	// serialized to clients.
	PasswordHash string `json:"-"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"createdAt"`
}
