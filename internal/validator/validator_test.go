package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
)

type sampleRequest struct {
	EnrollmentDate string  `validate:"required,date"`
	CourseEndDate  *string `validate:"omitempty,date"`
	BillingCycle   string  `validate:"required,billing_cycle"`
	Count          int     `validate:"min=0,max=60"`
}

func TestValidateRequest(t *testing.T) {
	NewValidator()
	end := "2027-06-30"
	badEnd := "30/06/2027"

	tests := []struct {
		name    string
		req     sampleRequest
		wantErr bool
	}{
		{"valid", sampleRequest{EnrollmentDate: "2026-10-15", CourseEndDate: &end, BillingCycle: "quarterly", Count: 3}, false},
		{"missing date", sampleRequest{BillingCycle: "monthly"}, true},
		{"malformed date", sampleRequest{EnrollmentDate: "15-10-2026", BillingCycle: "monthly"}, true},
		{"malformed optional date", sampleRequest{EnrollmentDate: "2026-10-15", CourseEndDate: &badEnd, BillingCycle: "monthly"}, true},
		{"unknown cycle", sampleRequest{EnrollmentDate: "2026-10-15", BillingCycle: "weekly"}, true},
		{"count out of range", sampleRequest{EnrollmentDate: "2026-10-15", BillingCycle: "yearly", Count: 61}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.req)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, ierr.IsValidation(err))
		})
	}
}
