package enums

import "fmt"

// CheckoutPaymentMethod represents a payment rail offered at checkout.
type CheckoutPaymentMethod string

const (
	CheckoutPaymentMethodCard        CheckoutPaymentMethod = "card"
	CheckoutPaymentMethodMobileMoney CheckoutPaymentMethod = "mobile_money"
	CheckoutPaymentMethodApplePay    CheckoutPaymentMethod = "apple_pay"
	CheckoutPaymentMethodGooglePay   CheckoutPaymentMethod = "google_pay"
)

var validCheckoutPaymentMethods = []CheckoutPaymentMethod{
	CheckoutPaymentMethodCard,
	CheckoutPaymentMethodMobileMoney,
	CheckoutPaymentMethodApplePay,
	CheckoutPaymentMethodGooglePay,
}

// String implements fmt.Stringer.
func (m CheckoutPaymentMethod) String() string {
	return string(m)
}

// IsValid reports whether the value is a known CheckoutPaymentMethod.
func (m CheckoutPaymentMethod) IsValid() bool {
	for _, candidate := range validCheckoutPaymentMethods {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseCheckoutPaymentMethod converts raw input into a CheckoutPaymentMethod.
func ParseCheckoutPaymentMethod(value string) (CheckoutPaymentMethod, error) {
	for _, candidate := range validCheckoutPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout payment method %q", value)
}
