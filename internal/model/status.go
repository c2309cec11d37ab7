package model

var paymentTransitions = map[string][]string{
	PaymentPending:   {PaymentCompleted, PaymentFailed},
	PaymentCompleted: {PaymentRefunded},
}

func IsPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

func IsRegistrationStatus(s string) bool {
	switch s {
	case RegistrationPending, RegistrationCompleted, RegistrationFree, RegistrationFailed:
		return true
	}
	return false
}

// CanTransitionPayment reports whether a payment may move from one status to
// another. Payments never move backwards; failed and refunded are terminal.
func CanTransitionPayment(from, to string) bool {
	for _, next := range paymentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RegistrationStatusFor maps a payment status onto the registration that owns
// the payment. The second value is false when the status is not propagated.
func RegistrationStatusFor(paymentStatus string) (string, bool) {
	switch paymentStatus {
	case PaymentPending:
		return RegistrationPending, true
	case PaymentCompleted:
		return RegistrationCompleted, true
	case PaymentFailed:
		return RegistrationFailed, true
	}
	return "", false
}
