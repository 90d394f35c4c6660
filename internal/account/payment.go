package account

import (
	"time"

	"github.com/jpl-au/examdex/internal/store"
)

// Payments expire at the start of each semester.
var resetMonths = []time.Month{time.March, time.October}

// ValidUntil returns the first semester reset strictly after the payment
// time, in the payment time's location.
func ValidUntil(p store.Payment) time.Time {
	then := p.PaymentTime
	for _, year := range []int{then.Year(), then.Year() + 1} {
		for _, m := range resetMonths {
			reset := time.Date(year, m, 1, 0, 0, 0, 0, then.Location())
			if reset.After(then) {
				return reset
			}
		}
	}
	// Unreachable: 1 March of next year is always after then.
	return then
}

// Valid reports whether p entitles its user to payment-gated documents at
// now: it has not been refunded and no semester reset has passed since it
// was made.
func Valid(p store.Payment, now time.Time) bool {
	if p.RefundTime != nil {
		return false
	}
	return !now.After(ValidUntil(p))
}

// HasValidPayment reports whether any of payments is valid at now.
func HasValidPayment(payments []store.Payment, now time.Time) bool {
	for _, p := range payments {
		if Valid(p, now) {
			return true
		}
	}
	return false
}
