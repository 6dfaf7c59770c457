package models

// Device is a registered remote agent. Name is its identity and never
// changes once stored; every other field may be rewritten on reconnection.
// Empty optional fields are stored as NULL.
type Device struct {
	Name           string `validate:"required,max=50"`
	IP             string `validate:"required,max=25"`
	ServerPort     string `validate:"omitempty,max=10,numeric"`
	LastConnection string `validate:"max=25"`
	EncryptionKey  string `validate:"max=32"`
	UserAssociated string `validate:"omitempty,max=50,email"`
}
