package domain

// Principal is the authenticated caller, decoded from a token's claims.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// PasswordHasher hashes and verifies passwords. Hash embeds its own salt.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches hash. It never returns an error for a wrong password.
	Verify(password, hash string) bool
}

// TokenIssuer issues signed, time-bounded tokens for a principal.
type TokenIssuer interface {
	Issue(subject Principal) (string, error)
}

// TokenVerifier verifies a token and returns its claims. Failures wrap ErrInvalidToken.
type TokenVerifier interface {
	Verify(token string) (*Principal, error)
}

// CodeGenerator produces email verification codes.
type CodeGenerator interface {
	Generate() string
}
