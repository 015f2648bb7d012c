package domain

// User is a read-only view of the external profile directory. Every field
// but ID may be missing.
type User struct {
	ID           string  `json:"id"`
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	AccountEmail *string `json:"account_email"`
	PhoneNumber  *string `json:"phone_number"`
}
