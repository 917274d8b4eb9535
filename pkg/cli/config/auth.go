package config

import (
	"log/slog"

	"github.com/dmsconsole/metaform/pkg/usecase"
	"github.com/dmsconsole/metaform/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Auth holds CLI flags for bearer token verification on the backend
type Auth struct {
	secret    string
	issuer    string
	noAuthSub string
}

func (x *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "auth-signing-secret",
			Usage:       "HS256 secret used to sign and verify bearer tokens",
			Category:    "Authentication",
			Sources:     cli.EnvVars("METAFORM_AUTH_SIGNING_SECRET"),
			Destination: &x.secret,
		},
		&cli.StringFlag{
			Name:        "auth-issuer",
			Usage:       "Issuer written into and required from tokens",
			Value:       "metaform",
			Category:    "Authentication",
			Sources:     cli.EnvVars("METAFORM_AUTH_ISSUER"),
			Destination: &x.issuer,
		},
		&cli.StringFlag{
			Name:        "no-auth",
			Usage:       "Skip authentication and run as the given subject (development only)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("METAFORM_NO_AUTH"),
			Destination: &x.noAuthSub,
		},
	}
}

func (x Auth) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("secret.len", len(x.secret)),
		slog.String("issuer", x.issuer),
		slog.String("no_auth", x.noAuthSub),
	)
}

// IsNoAuthMode reports whether authentication is skipped
func (x *Auth) IsNoAuthMode() bool {
	return x.noAuthSub != ""
}

// Issuer returns a token issuer. It requires a signing secret.
func (x *Auth) Issuer() (*usecase.AuthUseCase, error) {
	uc, err := usecase.NewAuthUseCase([]byte(x.secret), usecase.WithIssuer(x.issuer))
	if err != nil {
		return nil, goerr.Wrap(err, "auth-signing-secret is required")
	}
	return uc, nil
}

// Configure creates the verifier for the backend. --no-auth wins over a
// configured secret; with neither, the backend refuses to start.
func (x *Auth) Configure() (usecase.AuthUseCaseInterface, error) {
	if x.noAuthSub != "" {
		logging.Default().Warn("Running in no-auth mode (development only)", "subject", x.noAuthSub)
		return usecase.NewNoAuthnUseCase(x.noAuthSub), nil
	}
	return x.Issuer()
}
