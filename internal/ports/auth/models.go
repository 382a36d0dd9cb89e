package auth

// Claims representa la información extraída del token.
type Claims struct {
	UserID string
	Email  string
	// Tier del plan si el IAM lo informa; vacío => lo decide el resolver.
	Tier string
}
