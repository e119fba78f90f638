package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
)

var (
	ErrInvalidAssertion = errors.New("identity assertion invalid")
	ErrEmailUnverified  = errors.New("identity provider has not verified the email")
)

// Identity a verified external identity
type Identity struct {
	Email    string
	FullName string
}

// Verifier resolves an identity-provider assertion to a verified identity
type Verifier interface {
	Verify(ctx context.Context, assertion string) (*Identity, error)
}

// GoogleVerifier validates Google Sign-In ID tokens
type GoogleVerifier struct {
	validator *idtoken.Validator
	audience  string
}

// NewGoogleVerifier creates a verifier for tokens issued to clientID
func NewGoogleVerifier(ctx context.Context, clientID string) (*GoogleVerifier, error) {
	if clientID == "" {
		return nil, errors.New("google client id is empty")
	}
	v, err := idtoken.NewValidator(ctx)
	if err != nil {
		return nil, fmt.Errorf("create id token validator: %w", err)
	}
	return &GoogleVerifier{validator: v, audience: clientID}, nil
}

// Verify checks signature, audience and expiry, then extracts email and name
func (g *GoogleVerifier) Verify(ctx context.Context, assertion string) (*Identity, error) {
	payload, err := g.validator.Validate(ctx, assertion, g.audience)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssertion, err)
	}
	return identityFromClaims(payload.Claims)
}

func identityFromClaims(claims map[string]interface{}) (*Identity, error) {
	email, _ := claims["email"].(string)
	email = strings.ToLower(strings.TrimSpace(email))
	local, _, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return nil, fmt.Errorf("%w: missing email claim", ErrInvalidAssertion)
	}
	if verified, _ := claims["email_verified"].(bool); !verified {
		return nil, ErrEmailUnverified
	}

	name, _ := claims["name"].(string)
	name = strings.TrimSpace(name)
	if name == "" {
		name = local
	}

	return &Identity{Email: email, FullName: name}, nil
}

// EmailInDomain reports whether email belongs to domain; an empty domain allows all
func EmailInDomain(email, domain string) bool {
	if domain == "" {
		return true
	}
	return strings.HasSuffix(strings.ToLower(email), "@"+strings.ToLower(domain))
}
