package domain

// AccessAuth is the access class stamped on login/registration tokens.
// It is the only class the API issues today.
const AccessAuth = "auth"

// Token is one entry in a user's active token set. A token is valid only
// while it is present here; signature verification alone is not enough.
type Token struct {
	Access string `json:"access"`
	Token  string `json:"token"`
}

// User is an account record. The password hash and token set never leave
// the server.
type User struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"`
	Tokens       []Token `json:"-"`
}

// HasToken reports whether the given token is active for the user under
// the given access class.
func (u *User) HasToken(token, access string) bool {
	for _, t := range u.Tokens {
		if t.Token == token && t.Access == access {
			return true
		}
	}
	return false
}
