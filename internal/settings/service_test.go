package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/qrdine/qrdine-backend/pkg/enums"
	pkgerrors "github.com/qrdine/qrdine-backend/pkg/errors"
)

type memStore struct {
	values map[string]map[string]any
	getErr error
}

func (m *memStore) Get(_ context.Context, key string) (map[string]any, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *memStore) Upsert(_ context.Context, key string, value map[string]any) error {
	if m.values == nil {
		m.values = map[string]map[string]any{}
	}
	m.values[key] = value
	return nil
}

func TestGatewayConfigMissingKeyIsDisabled(t *testing.T) {
	svc, err := NewService(&memStore{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	cfg, err := svc.GatewayConfig(context.Background(), enums.PaymentProviderPaystack)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Enabled {
		t.Fatal("expected absent config to be disabled")
	}
	if len(cfg.Countries) != 0 {
		t.Fatalf("expected empty allow-list, got %v", cfg.Countries)
	}
}

func TestSetGatewayConfigNormalizesCountries(t *testing.T) {
	store := &memStore{}
	svc, _ := NewService(store)

	saved, err := svc.SetGatewayConfig(context.Background(), enums.PaymentProviderPaystack, GatewayConfig{
		Enabled:   true,
		Countries: []string{" ng", "GH", ""},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(saved.Countries) != 2 || saved.Countries[0] != "NG" || saved.Countries[1] != "GH" {
		t.Fatalf("unexpected countries %v", saved.Countries)
	}

	loaded, err := svc.GatewayConfig(context.Background(), enums.PaymentProviderPaystack)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !loaded.Enabled || len(loaded.Countries) != 2 {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
}

func TestSetGatewayConfigRejectsBadCountry(t *testing.T) {
	svc, _ := NewService(&memStore{})
	_, err := svc.SetGatewayConfig(context.Background(), enums.PaymentProviderStripe, GatewayConfig{
		Countries: []string{"NGN"},
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestGatewayConfigStoreErrorIsDependency(t *testing.T) {
	svc, _ := NewService(&memStore{getErr: errors.New("down")})
	_, err := svc.GatewayConfig(context.Background(), enums.PaymentProviderPaystack)
	if pkgerrors.As(err).Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestMergeDiscoverySnapshotPreservesOtherProviders(t *testing.T) {
	store := &memStore{values: map[string]map[string]any{
		discoveryKey: {"flutterwave": map[string]any{"supported": []any{"NG"}}},
	}}
	svc, _ := NewService(store)

	err := svc.MergeDiscoverySnapshot(context.Background(), enums.PaymentProviderPaystack, map[string]any{
		"supported": []any{"NG", "GH"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	merged := store.values[discoveryKey]
	if _, ok := merged["flutterwave"]; !ok {
		t.Fatal("expected existing flutterwave snapshot preserved")
	}
	if _, ok := merged["paystack"]; !ok {
		t.Fatal("expected paystack snapshot written")
	}
}

func TestAllowsCountryEmptyListIsGlobal(t *testing.T) {
	cfg := GatewayConfig{}
	if !cfg.AllowsCountry("US") {
		t.Fatal("empty allow-list must permit all countries")
	}
	cfg = GatewayConfig{Countries: []string{"NG"}}
	if cfg.AllowsCountry("US") {
		t.Fatal("expected US rejected")
	}
	if !cfg.AllowsCountry("NG") {
		t.Fatal("expected NG allowed")
	}
}
