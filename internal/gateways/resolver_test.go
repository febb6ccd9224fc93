package gateways

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"testing"

	"github.com/qrdine/qrdine-backend/internal/settings"
	"github.com/qrdine/qrdine-backend/pkg/enums"
	"github.com/qrdine/qrdine-backend/pkg/logger"
)

type fakeConfigSource struct {
	configs map[enums.PaymentProvider]settings.GatewayConfig
	err     error
}

func (f *fakeConfigSource) GatewayConfig(_ context.Context, provider enums.PaymentProvider) (settings.GatewayConfig, error) {
	if f.err != nil {
		return settings.GatewayConfig{}, f.err
	}
	return f.configs[provider], nil
}

func newTestResolver(t *testing.T, source ConfigSource) *Resolver {
	t.Helper()
	log := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	resolver, err := NewResolver(source, log)
	if err != nil {
		t.Fatalf("failed to build resolver: %v", err)
	}
	return resolver
}

func enabledSource(providers ...enums.PaymentProvider) *fakeConfigSource {
	configs := map[enums.PaymentProvider]settings.GatewayConfig{}
	for _, p := range providers {
		configs[p] = settings.GatewayConfig{Enabled: true}
	}
	return &fakeConfigSource{configs: configs}
}

func TestResolveAllowedForRegionalContext(t *testing.T) {
	resolver := newTestResolver(t, enabledSource(enums.PaymentProviderPaystack))

	got := resolver.Resolve(context.Background(), enums.PaymentProviderPaystack, "NG", enums.CurrencyNGN)

	want := ProviderEligibility{Enabled: true, SupportsCountry: true, SupportsCurrency: true, Allowed: true}
	if got != want {
		t.Fatalf("unexpected eligibility: %+v", got)
	}
}

func TestResolveDisabledDominates(t *testing.T) {
	source := &fakeConfigSource{configs: map[enums.PaymentProvider]settings.GatewayConfig{
		enums.PaymentProviderPaystack: {Enabled: false},
	}}
	resolver := newTestResolver(t, source)

	got := resolver.Resolve(context.Background(), enums.PaymentProviderPaystack, "XX", enums.CurrencyUSD)

	if got.Allowed {
		t.Fatal("expected not allowed")
	}
	if got.Reason != ReasonProviderDisabled {
		t.Fatalf("expected disabled reason first, got %q", got.Reason)
	}
}

func TestResolveCountryReasonBeforeCurrency(t *testing.T) {
	// An explicit allow-list pins the provider to NG; US is outside both the
	// allow-list and Paystack's fixed table.
	source := &fakeConfigSource{configs: map[enums.PaymentProvider]settings.GatewayConfig{
		enums.PaymentProviderPaystack: {Enabled: true, Countries: []string{"NG"}},
	}}
	resolver := newTestResolver(t, source)

	got := resolver.Resolve(context.Background(), enums.PaymentProviderPaystack, "US", enums.CurrencyUSD)

	if got.SupportsCountry {
		t.Fatal("US should not pass the allow-list or Paystack's country table")
	}
	if got.Reason != ReasonCountryNotSupported {
		t.Fatalf("expected country reason, got %q", got.Reason)
	}
}

func TestResolveCurrencyReasonLast(t *testing.T) {
	resolver := newTestResolver(t, enabledSource(enums.PaymentProviderPaystack))

	got := resolver.Resolve(context.Background(), enums.PaymentProviderPaystack, "NG", enums.CurrencyUSD)

	if !got.Enabled || !got.SupportsCountry {
		t.Fatalf("expected enabled provider in a covered country: %+v", got)
	}
	if got.Reason != ReasonCurrencyNotSupported {
		t.Fatalf("expected currency reason, got %q", got.Reason)
	}
}

func TestResolveAllowListExtendsFixedTable(t *testing.T) {
	source := &fakeConfigSource{configs: map[enums.PaymentProvider]settings.GatewayConfig{
		enums.PaymentProviderPaystack: {Enabled: true, Countries: []string{"GH"}},
	}}
	resolver := newTestResolver(t, source)

	// NG misses the allow-list but sits in Paystack's fixed table.
	if got := resolver.Resolve(context.Background(), enums.PaymentProviderPaystack, "NG", enums.CurrencyNGN); !got.SupportsCountry {
		t.Fatalf("fixed table should still apply: %+v", got)
	}
}

func TestResolveEmptyAllowListIsGlobal(t *testing.T) {
	resolver := newTestResolver(t, enabledSource(enums.PaymentProviderStripe))

	got := resolver.Resolve(context.Background(), enums.PaymentProviderStripe, "JP", enums.CurrencyUSD)

	if !got.SupportsCountry || !got.Allowed {
		t.Fatalf("provider without a fixed table or allow-list is global: %+v", got)
	}
}

func TestResolveConfigErrorDegradesToDisabled(t *testing.T) {
	source := &fakeConfigSource{err: fmt.Errorf("store down")}
	resolver := newTestResolver(t, source)

	got := resolver.Resolve(context.Background(), enums.PaymentProviderPaystack, "NG", enums.CurrencyNGN)

	if got.Allowed || got.Enabled {
		t.Fatalf("config failure must not grant eligibility: %+v", got)
	}
	if got.Reason != ReasonProviderDisabled {
		t.Fatalf("expected disabled reason, got %q", got.Reason)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	resolver := newTestResolver(t, enabledSource(enums.PaymentProviderFlutterwave))
	ctx := context.Background()

	first := resolver.Resolve(ctx, enums.PaymentProviderFlutterwave, "KE", enums.CurrencyKES)
	second := resolver.Resolve(ctx, enums.PaymentProviderFlutterwave, "KE", enums.CurrencyKES)

	if first != second {
		t.Fatalf("repeat resolution diverged: %+v vs %+v", first, second)
	}
	if !first.Allowed {
		t.Fatalf("expected KE/KES to be allowed for Flutterwave: %+v", first)
	}
}

func TestSupportedPaymentMethodsForContext(t *testing.T) {
	cases := []struct {
		name     string
		provider enums.PaymentProvider
		country  string
		currency enums.Currency
		want     []enums.CheckoutPaymentMethod
	}{
		{
			name:     "regional country with local currency gets full set",
			provider: enums.PaymentProviderPaystack,
			country:  "NG",
			currency: enums.CurrencyNGN,
			want:     []enums.CheckoutPaymentMethod{enums.CheckoutPaymentMethodCard, enums.CheckoutPaymentMethodMobileMoney},
		},
		{
			name:     "outside the regional set falls back to card",
			provider: enums.PaymentProviderPaystack,
			country:  "US",
			currency: enums.CurrencyNGN,
			want:     []enums.CheckoutPaymentMethod{enums.CheckoutPaymentMethodCard},
		},
		{
			name:     "regional country with foreign currency falls back to card",
			provider: enums.PaymentProviderFlutterwave,
			country:  "GH",
			currency: enums.CurrencyUSD,
			want:     []enums.CheckoutPaymentMethod{enums.CheckoutPaymentMethodCard},
		},
		{
			name:     "invalid country code falls back to card",
			provider: enums.PaymentProviderFlutterwave,
			country:  "nigeria",
			currency: enums.CurrencyNGN,
			want:     []enums.CheckoutPaymentMethod{enums.CheckoutPaymentMethodCard},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SupportedPaymentMethodsForContext(tc.provider, tc.country, tc.currency)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}
