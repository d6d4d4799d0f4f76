package dto

import (
	"github.com/shopspring/decimal"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/charge"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
	"github.com/tdtai09423/moe-ui-sub001/internal/validator"
)

type ChargeResponse struct {
	*charge.Charge
	AmountDue decimal.Decimal `json:"amount_due" swaggertype:"string"`
}

func NewChargeResponse(c *charge.Charge) *ChargeResponse {
	return &ChargeResponse{
		Charge:    c,
		AmountDue: c.AmountDue(),
	}
}

// ListChargesResponse represents the response for listing charges
type ListChargesResponse = types.ListResponse[*ChargeResponse]

// RecordPaymentRequest records money received against a charge
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string"`
	// paid_at defaults to today, YYYY-MM-DD
	PaidAt string `json:"paid_at,omitempty" validate:"omitempty,date"`
}

func (r *RecordPaymentRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if !r.Amount.IsPositive() {
		return ierr.NewError("payment amount must be positive").
			WithHint("Payment amount must be greater than zero").
			WithReportableDetails(map[string]any{
				"amount": r.Amount.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
