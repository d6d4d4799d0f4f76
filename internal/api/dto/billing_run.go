package dto

import "github.com/tdtai09423/moe-ui-sub001/internal/types"

// BillingRunRequest triggers recurring charge generation by hand
type BillingRunRequest struct {
	// run_date overrides today, YYYY-MM-DD. Nothing is billed unless it falls on the 5th.
	RunDate *string `json:"run_date,omitempty"`
}

func (r *BillingRunRequest) Validate() error {
	_, err := types.ParseOptionalDate(r.RunDate)
	return err
}

// BillingRunResponse summarizes one billing run
type BillingRunResponse struct {
	RunDate      string `json:"run_date"`
	IsBillingDay bool   `json:"is_billing_day"`
	Enrollments  int    `json:"enrollments"`
	Created      int    `json:"created"`
	Skipped      int    `json:"skipped"`
	Failed       int    `json:"failed"`
	// charge_ids lists the charges created by this run
	ChargeIDs []string `json:"charge_ids"`
}
