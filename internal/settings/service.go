package settings

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/qrdine/qrdine-backend/pkg/enums"
	pkgerrors "github.com/qrdine/qrdine-backend/pkg/errors"
)

const discoveryKey = "gateways/discovery"

// Store abstracts the settings repository for service consumers.
type Store interface {
	Get(ctx context.Context, key string) (value map[string]any, found bool, err error)
	Upsert(ctx context.Context, key string, value map[string]any) error
}

// Service reads and writes administrator-configured platform settings. Every
// read hits the persisted store; there is no in-process cache.
type Service interface {
	GatewayConfig(ctx context.Context, provider enums.PaymentProvider) (GatewayConfig, error)
	SetGatewayConfig(ctx context.Context, provider enums.PaymentProvider, cfg GatewayConfig) (GatewayConfig, error)
	MergeDiscoverySnapshot(ctx context.Context, provider enums.PaymentProvider, snapshot map[string]any) error
}

type service struct {
	store Store
}

// NewService wires the settings service.
func NewService(store Store) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("settings store required")
	}
	return &service{store: store}, nil
}

func gatewayKey(provider enums.PaymentProvider) string {
	return "gateways/" + provider.String()
}

func (s *service) GatewayConfig(ctx context.Context, provider enums.PaymentProvider) (GatewayConfig, error) {
	if !provider.IsValid() {
		return GatewayConfig{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment provider")
	}
	value, found, err := s.store.Get(ctx, gatewayKey(provider))
	if err != nil {
		return GatewayConfig{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load gateway config")
	}
	if !found {
		return GatewayConfig{}, nil
	}
	return gatewayConfigFromValue(value), nil
}

func (s *service) SetGatewayConfig(ctx context.Context, provider enums.PaymentProvider, cfg GatewayConfig) (GatewayConfig, error) {
	if !provider.IsValid() {
		return GatewayConfig{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment provider")
	}
	normalized, err := cfg.Normalize()
	if err != nil {
		return GatewayConfig{}, err
	}
	if err := s.store.Upsert(ctx, gatewayKey(provider), normalized.toValue()); err != nil {
		return GatewayConfig{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save gateway config")
	}
	return normalized, nil
}

// MergeDiscoverySnapshot stores the provider's discovery results under the
// shared discovery key, preserving snapshots recorded for other providers.
func (s *service) MergeDiscoverySnapshot(ctx context.Context, provider enums.PaymentProvider, snapshot map[string]any) error {
	if !provider.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown payment provider")
	}
	existing, found, err := s.store.Get(ctx, discoveryKey)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load discovery snapshot")
	}
	merged := map[string]any{}
	if found {
		for k, v := range existing {
			merged[k] = v
		}
	}
	merged[provider.String()] = snapshot
	if err := s.store.Upsert(ctx, discoveryKey, merged); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save discovery snapshot")
	}
	return nil
}

// RepositoryStore adapts Repository to the Store interface, mapping GORM's
// not-found error to a found flag.
type RepositoryStore struct {
	Repo *Repository
}

func (r RepositoryStore) Get(ctx context.Context, key string) (map[string]any, bool, error) {
	setting, err := r.Repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return setting.Value, true, nil
}

func (r RepositoryStore) Upsert(ctx context.Context, key string, value map[string]any) error {
	return r.Repo.Upsert(ctx, key, value)
}
