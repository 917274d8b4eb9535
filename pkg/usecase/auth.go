package usecase

import (
	"context"
	"time"

	"github.com/dmsconsole/metaform/pkg/domain/model"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
)

// AuthUseCaseInterface verifies bearer tokens presented to the backend
type AuthUseCaseInterface interface {
	Verify(ctx context.Context, token string) (*model.Principal, error)
	IsNoAuthn() bool
}

// AuthUseCase verifies and issues HS256 JWTs
type AuthUseCase struct {
	secret []byte
	issuer string
	now    func() time.Time
}

var _ AuthUseCaseInterface = &AuthUseCase{}

// AuthOption is a functional option for AuthUseCase
type AuthOption func(*AuthUseCase)

// WithIssuer sets the issuer written into and required from tokens
func WithIssuer(issuer string) AuthOption {
	return func(uc *AuthUseCase) {
		uc.issuer = issuer
	}
}

// WithClock replaces the clock used for issuing and validating tokens
func WithClock(now func() time.Time) AuthOption {
	return func(uc *AuthUseCase) {
		uc.now = now
	}
}

func NewAuthUseCase(secret []byte, options ...AuthOption) (*AuthUseCase, error) {
	if len(secret) == 0 {
		return nil, goerr.Wrap(ErrNoSigningSecret, "cannot create auth use case")
	}

	uc := &AuthUseCase{
		secret: secret,
		issuer: "metaform",
		now:    time.Now,
	}

	for _, opt := range options {
		opt(uc)
	}

	return uc, nil
}

// Issue signs a token for subject valid for ttl
func (uc *AuthUseCase) Issue(subject, name string, ttl time.Duration) (string, error) {
	now := uc.now()
	tok, err := jwt.NewBuilder().
		Subject(subject).
		Issuer(uc.issuer).
		IssuedAt(now).
		Expiration(now.Add(ttl)).
		Claim("name", name).
		Build()
	if err != nil {
		return "", goerr.Wrap(err, "failed to build token")
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, uc.secret))
	if err != nil {
		return "", goerr.Wrap(err, "failed to sign token")
	}
	return string(signed), nil
}

// Verify checks signature, issuer and expiration of token
func (uc *AuthUseCase) Verify(ctx context.Context, token string) (*model.Principal, error) {
	if token == "" {
		return nil, goerr.Wrap(ErrUnauthenticated, "token is empty")
	}

	tok, err := jwt.Parse([]byte(token),
		jwt.WithKey(jwa.HS256, uc.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(uc.issuer),
		jwt.WithClock(jwt.ClockFunc(uc.now)),
	)
	if err != nil {
		return nil, goerr.Wrap(ErrUnauthenticated, err.Error())
	}

	if tok.Subject() == "" {
		return nil, goerr.Wrap(ErrUnauthenticated, "token has no subject")
	}

	p := &model.Principal{Subject: tok.Subject()}
	if v, ok := tok.Get("name"); ok {
		if name, ok := v.(string); ok {
			p.Name = name
		}
	}
	return p, nil
}

// IsNoAuthn returns false for AuthUseCase
func (uc *AuthUseCase) IsNoAuthn() bool {
	return false
}
