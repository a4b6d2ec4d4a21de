package subscription

import "time"

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pendente"
	PaymentPaid    PaymentStatus = "Pago"
)

// NextDueDate moves the due date one month past the later of the current due date and
// the payment instant.
func NextDueDate(current *time.Time, paidAt time.Time) time.Time {
	base := paidAt
	if current != nil && current.After(paidAt) {
		base = *current
	}
	return base.AddDate(0, 1, 0)
}
