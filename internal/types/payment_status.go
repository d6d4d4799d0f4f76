package types

// PaymentStatus is the derived billing state of an enrollment.
// It is recomputed from the stored charges on every read and never persisted.
type PaymentStatus string

const (
	PaymentStatusScheduled   PaymentStatus = "scheduled"
	PaymentStatusOutstanding PaymentStatus = "outstanding"
	PaymentStatusOverdue     PaymentStatus = "overdue"
	PaymentStatusFullyPaid   PaymentStatus = "fully_paid"
)

func (s PaymentStatus) String() string {
	return string(s)
}
