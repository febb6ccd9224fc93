package gateways

import "github.com/qrdine/qrdine-backend/pkg/enums"

// providerMethods declares which checkout rails each provider can process.
// A provider/method pair absent from the table resolves to false.
var providerMethods = map[enums.PaymentProvider]map[enums.CheckoutPaymentMethod]bool{
	enums.PaymentProviderPaystack: {
		enums.CheckoutPaymentMethodCard:        true,
		enums.CheckoutPaymentMethodMobileMoney: true,
	},
	enums.PaymentProviderFlutterwave: {
		enums.CheckoutPaymentMethodCard:        true,
		enums.CheckoutPaymentMethodMobileMoney: true,
	},
	enums.PaymentProviderStripe: {
		enums.CheckoutPaymentMethodCard:      true,
		enums.CheckoutPaymentMethodApplePay:  true,
		enums.CheckoutPaymentMethodGooglePay: true,
	},
	enums.PaymentProviderPaypal: {
		enums.CheckoutPaymentMethodCard: true,
	},
}

// methodOrder fixes the declaration order for supported-method slices.
var methodOrder = []enums.CheckoutPaymentMethod{
	enums.CheckoutPaymentMethodCard,
	enums.CheckoutPaymentMethodMobileMoney,
	enums.CheckoutPaymentMethodApplePay,
	enums.CheckoutPaymentMethodGooglePay,
}

// providerCountries is each provider's fixed supported-country table. Providers
// absent here have no fixed table; country support then depends only on the
// administrator allow-list (or its absence, which means global).
var providerCountries = map[enums.PaymentProvider][]string{
	enums.PaymentProviderPaystack: {"NG", "GH", "KE", "ZA", "CI", "EG"},
	enums.PaymentProviderFlutterwave: {
		"NG", "GH", "KE", "ZA", "UG", "TZ", "RW", "ZM",
		"CM", "CI", "SN", "MW", "EG", "ET",
	},
}

// currencyPredicates allows provider-specific currency logic rather than a
// flat list: Paystack only settles its regional currencies, Flutterwave
// claims no restriction, card-first providers take the major denominations.
var currencyPredicates = map[enums.PaymentProvider]func(enums.Currency) bool{
	enums.PaymentProviderPaystack: func(c enums.Currency) bool {
		return IsLocalCurrency(c)
	},
	enums.PaymentProviderFlutterwave: func(c enums.Currency) bool {
		return c.IsValid()
	},
	enums.PaymentProviderStripe: majorCurrency,
	enums.PaymentProviderPaypal: majorCurrency,
}

func majorCurrency(c enums.Currency) bool {
	switch c {
	case enums.CurrencyUSD, enums.CurrencyGBP, enums.CurrencyEUR:
		return true
	}
	return false
}

// SupportsMethod reports whether the provider can process the method.
func SupportsMethod(provider enums.PaymentProvider, method enums.CheckoutPaymentMethod) bool {
	return providerMethods[provider][method]
}

// SupportedMethods returns the provider's full static method set in
// declaration order.
func SupportedMethods(provider enums.PaymentProvider) []enums.CheckoutPaymentMethod {
	methods := providerMethods[provider]
	out := make([]enums.CheckoutPaymentMethod, 0, len(methods))
	for _, method := range methodOrder {
		if methods[method] {
			out = append(out, method)
		}
	}
	return out
}

// SupportedCountries returns the provider's fixed supported-country table.
func SupportedCountries(provider enums.PaymentProvider) []string {
	src := providerCountries[provider]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// SupportsCurrency evaluates the provider's currency predicate.
func SupportsCurrency(provider enums.PaymentProvider, currency enums.Currency) bool {
	predicate, ok := currencyPredicates[provider]
	if !ok {
		return false
	}
	return predicate(currency)
}

// SupportedCurrencies enumerates the closed currency set through the
// provider's predicate.
func SupportedCurrencies(provider enums.PaymentProvider) []enums.Currency {
	all := []enums.Currency{
		enums.CurrencyUSD,
		enums.CurrencyNGN,
		enums.CurrencyGHS,
		enums.CurrencyKES,
		enums.CurrencyZAR,
		enums.CurrencyGBP,
		enums.CurrencyEUR,
	}
	out := make([]enums.Currency, 0, len(all))
	for _, c := range all {
		if SupportsCurrency(provider, c) {
			out = append(out, c)
		}
	}
	return out
}
