package charge

import (
	"time"

	"github.com/shopspring/decimal"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

// Charge is one billed amount for one enrollment in one billing period.
// Charges are never deleted; later periods get new charges.
type Charge struct {
	// Unique identifier of the charge
	ID string `db:"id" json:"id"`
	// The enrollment this charge bills
	EnrollmentID string `db:"enrollment_id" json:"enrollment_id"`
	// Payment state as recorded by payment processing
	ChargeStatus types.ChargeStatus `db:"charge_status" json:"charge_status"`
	// Day the amount becomes payable
	DueDate time.Time `db:"due_date" json:"due_date"`
	// Billing period the charge covers, both ends inclusive
	PeriodStart time.Time `db:"period_start" json:"period_start"`
	PeriodEnd   time.Time `db:"period_end" json:"period_end"`
	// Billed amount, already prorated when IsProrated is set
	Amount decimal.Decimal `db:"amount" json:"amount"`
	// Sum of payments recorded against the charge
	AmountPaid decimal.Decimal `db:"amount_paid" json:"amount_paid"`
	// Day the charge was cleared
	PaidAt *time.Time `db:"paid_at" json:"paid_at,omitempty"`
	// Set for first-cycle charges that only cover part of the period
	IsProrated bool `db:"is_prorated" json:"is_prorated"`

	types.BaseModel
}

// IsClear reports whether payment processing marked the charge as settled
func (c *Charge) IsClear() bool {
	return c.ChargeStatus == types.ChargeStatusClear
}

// AmountDue is what is left to pay, never negative
func (c *Charge) AmountDue() decimal.Decimal {
	due := c.Amount.Sub(c.AmountPaid)
	if due.IsNegative() {
		return decimal.Zero
	}
	return due
}

// Covers reports whether the charge bills the period that contains day
func (c *Charge) Covers(day time.Time) bool {
	d := types.StartOfDay(day)
	return !d.Before(types.StartOfDay(c.PeriodStart)) && !d.After(types.StartOfDay(c.PeriodEnd))
}

func (c *Charge) Validate() error {
	if c.EnrollmentID == "" {
		return ierr.NewError("enrollment_id is required").
			WithHint("Charge must belong to an enrollment").
			Mark(ierr.ErrValidation)
	}
	if err := c.ChargeStatus.Validate(); err != nil {
		return err
	}
	if c.DueDate.IsZero() {
		return ierr.NewError("due_date is required").
			WithHint("Charge due date is required").
			Mark(ierr.ErrValidation)
	}
	if c.Amount.IsNegative() || c.AmountPaid.IsNegative() {
		return ierr.NewError("negative charge amount").
			WithHint("Charge amounts cannot be negative").
			WithReportableDetails(map[string]any{
				"amount":      c.Amount.String(),
				"amount_paid": c.AmountPaid.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
