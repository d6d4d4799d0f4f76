package types

import (
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
)

const (
	FILTER_DEFAULT_LIMIT = 50
	FILTER_MAX_LIMIT     = 1000
)

// QueryFilter holds pagination shared by list filters
type QueryFilter struct {
	Limit  *int `json:"limit,omitempty" form:"limit" validate:"omitempty,min=1,max=1000"`
	Offset *int `json:"offset,omitempty" form:"offset" validate:"omitempty,min=0"`
}

func (f *QueryFilter) GetLimit() int {
	if f == nil || f.Limit == nil {
		return FILTER_DEFAULT_LIMIT
	}
	return *f.Limit
}

func (f *QueryFilter) GetOffset() int {
	if f == nil || f.Offset == nil {
		return 0
	}
	return *f.Offset
}

// IsUnlimited is true when no pagination was requested at all
func (f *QueryFilter) IsUnlimited() bool {
	return f == nil
}

func (f *QueryFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.Limit != nil && (*f.Limit < 1 || *f.Limit > FILTER_MAX_LIMIT) {
		return ierr.NewError("invalid limit").
			WithHintf("Limit must be between 1 and %d", FILTER_MAX_LIMIT).
			Mark(ierr.ErrValidation)
	}
	if f.Offset != nil && *f.Offset < 0 {
		return ierr.NewError("invalid offset").
			WithHint("Offset cannot be negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// EnrollmentFilter narrows enrollment listings
type EnrollmentFilter struct {
	*QueryFilter

	EnrollmentIDs []string     `form:"enrollment_ids" json:"enrollment_ids,omitempty"`
	StudentID     string       `form:"student_id" json:"student_id,omitempty"`
	CourseID      string       `form:"course_id" json:"course_id,omitempty"`
	BillingCycle  BillingCycle `form:"billing_cycle" json:"billing_cycle,omitempty"`
	Status        Status       `form:"status" json:"status,omitempty"`
}

// NewNoLimitEnrollmentFilter lists every enrollment, used by billing runs
func NewNoLimitEnrollmentFilter() *EnrollmentFilter {
	return &EnrollmentFilter{Status: StatusActive}
}

func (f *EnrollmentFilter) Validate() error {
	if f == nil {
		return nil
	}
	if err := f.QueryFilter.Validate(); err != nil {
		return err
	}
	if f.BillingCycle != "" {
		if err := f.BillingCycle.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ChargeFilter narrows charge listings
type ChargeFilter struct {
	EnrollmentID string         `form:"enrollment_id" json:"enrollment_id,omitempty"`
	Statuses     []ChargeStatus `form:"statuses" json:"statuses,omitempty"`
}
