package api

import "context"

// AuthAPI es el contrato contra los endpoints remotos de auth.
// Login retorna el bearer token (accessToken). Register NO autentica:
// el caller debe hacer Login explícito después.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, username, password, email string) error
}
