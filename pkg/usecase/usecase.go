package usecase

import (
	"github.com/dmsconsole/metaform/pkg/domain/interfaces"
	"github.com/dmsconsole/metaform/pkg/domain/model/config"
)

// UseCases bundles the server side use cases
type UseCases struct {
	repo     interfaces.Repository
	catalog  *config.Catalog
	notifier interfaces.Notifier
	Catalog  *CatalogUseCase
	Auth     AuthUseCaseInterface
}

type Option func(*UseCases)

func WithCatalog(catalog *config.Catalog) Option {
	return func(uc *UseCases) {
		uc.catalog = catalog
	}
}

func WithAuth(auth AuthUseCaseInterface) Option {
	return func(uc *UseCases) {
		uc.Auth = auth
	}
}

// WithNotifier sets the notifier informed about committed batches
func WithNotifier(notifier interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = notifier
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.catalog == nil {
		uc.catalog = &config.Catalog{Schema: config.NewFieldSchema(nil)}
	}
	if uc.Auth == nil {
		uc.Auth = NewNoAuthnUseCase("anonymous")
	}

	uc.Catalog = NewCatalogUseCase(repo, uc.catalog, uc.notifier)

	return uc
}
