package models

// User is an account that may own devices. Only the password-check helper
// reads it.
type User struct {
	Email        string
	PasswordHash string
	Admin        bool
}
