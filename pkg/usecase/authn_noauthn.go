package usecase

import (
	"context"

	"github.com/dmsconsole/metaform/pkg/domain/model"
)

// NoAuthnUseCase accepts every request as a fixed principal (for
// development/testing)
type NoAuthnUseCase struct {
	subject string
}

var _ AuthUseCaseInterface = &NoAuthnUseCase{}

// NewNoAuthnUseCase creates a new NoAuthnUseCase instance
func NewNoAuthnUseCase(subject string) *NoAuthnUseCase {
	return &NoAuthnUseCase{subject: subject}
}

// Verify always returns the configured principal
func (uc *NoAuthnUseCase) Verify(ctx context.Context, token string) (*model.Principal, error) {
	return &model.Principal{Subject: uc.subject, Name: uc.subject}, nil
}

// IsNoAuthn returns true for NoAuthnUseCase
func (uc *NoAuthnUseCase) IsNoAuthn() bool {
	return true
}
