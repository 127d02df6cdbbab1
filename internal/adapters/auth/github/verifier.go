package github

import (
	"context"
	"fmt"

	"tamagitchi/internal/ports/auth"
)

// Verifier implementa auth.AuthVerifier contra la API de GitHub: el token es
// válido si GET /user responde, y el login pasa a ser el owner.
type Verifier struct {
	client *Client
}

func NewVerifier(client *Client) *Verifier {
	return &Verifier{client: client}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, fmt.Errorf("%w: verifier not configured", ErrUpstream)
	}

	u, err := v.client.User(ctx, token)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("github verify failed: %w", err)
	}

	return auth.Claims{
		UserID:   u.idString(),
		Username: u.Login,
		Email:    u.Email,
	}, nil
}
