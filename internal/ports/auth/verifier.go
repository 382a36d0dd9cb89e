package auth

import "context"

// AuthVerifier valida el bearer del request (IAM en producción) y devuelve
// los claims del usuario.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
