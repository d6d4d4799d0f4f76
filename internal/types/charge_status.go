package types

import (
	"github.com/samber/lo"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
)

// ChargeStatus is the stored state of a single billed amount
type ChargeStatus string

const (
	ChargeStatusOutstanding   ChargeStatus = "outstanding"
	ChargeStatusOverdue       ChargeStatus = "overdue"
	ChargeStatusClear         ChargeStatus = "clear"
	ChargeStatusPartiallyPaid ChargeStatus = "partially_paid"
)

var ChargeStatusValues = []ChargeStatus{
	ChargeStatusOutstanding,
	ChargeStatusOverdue,
	ChargeStatusClear,
	ChargeStatusPartiallyPaid,
}

func (s ChargeStatus) String() string {
	return string(s)
}

func (s ChargeStatus) Validate() error {
	if !lo.Contains(ChargeStatusValues, s) {
		return ierr.NewError("invalid charge status").
			WithHint("Charge status must be outstanding, overdue, clear or partially_paid").
			WithReportableDetails(map[string]any{
				"allowed_values": ChargeStatusValues,
				"provided_value": s,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
