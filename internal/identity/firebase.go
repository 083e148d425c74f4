// Package identity verifies ID tokens issued by the federated identity
// provider and exposes the verified subject.
package identity

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/auth"
	"google.golang.org/api/option"

	"estatehub/internal/config"
)

// ErrDisabled is returned when no identity provider is configured.
var ErrDisabled = errors.New("federated identity is not configured")

type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
	Name          string
}

type Verifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type firebaseVerifier struct {
	client tokenVerifier
}

// NewFirebaseVerifier returns a verifier that always fails with ErrDisabled
// when the project is not configured.
func NewFirebaseVerifier(ctx context.Context, cfg *config.Config) (Verifier, error) {
	if cfg.Firebase.ProjectID == "" {
		return disabledVerifier{}, nil
	}

	var opts []option.ClientOption
	if cfg.Firebase.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Firebase.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}
	return &firebaseVerifier{client: client}, nil
}

func (v *firebaseVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return fromToken(token), nil
}

func fromToken(token *auth.Token) *Identity {
	id := &Identity{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		id.Email = email
	}
	if verified, ok := token.Claims["email_verified"].(bool); ok {
		id.EmailVerified = verified
	}
	if name, ok := token.Claims["name"].(string); ok {
		id.Name = name
	}
	return id
}

type disabledVerifier struct{}

func (disabledVerifier) Verify(context.Context, string) (*Identity, error) {
	return nil, ErrDisabled
}
