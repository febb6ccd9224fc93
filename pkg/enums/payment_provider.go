package enums

import "fmt"

// PaymentProvider identifies an integrated payment processing service.
type PaymentProvider string

const (
	PaymentProviderPaystack    PaymentProvider = "paystack"
	PaymentProviderFlutterwave PaymentProvider = "flutterwave"
	PaymentProviderStripe      PaymentProvider = "stripe"
	PaymentProviderPaypal      PaymentProvider = "paypal"
)

var validPaymentProviders = []PaymentProvider{
	PaymentProviderPaystack,
	PaymentProviderFlutterwave,
	PaymentProviderStripe,
	PaymentProviderPaypal,
}

// PaymentProviders returns every integrated provider in declaration order.
func PaymentProviders() []PaymentProvider {
	out := make([]PaymentProvider, len(validPaymentProviders))
	copy(out, validPaymentProviders)
	return out
}

// String implements fmt.Stringer.
func (p PaymentProvider) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentProvider.
func (p PaymentProvider) IsValid() bool {
	for _, candidate := range validPaymentProviders {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentProvider converts raw input into a PaymentProvider.
func ParsePaymentProvider(value string) (PaymentProvider, error) {
	for _, candidate := range validPaymentProviders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment provider %q", value)
}
