package supabase

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/charge"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/enrollment"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/pagestate"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

// PostgREST returns date columns as bare YYYY-MM-DD strings, which time.Time cannot
// decode, so rows travel through these records.

type enrollmentRecord struct {
	ID              string             `json:"id"`
	StudentID       string             `json:"student_id"`
	CourseID        string             `json:"course_id"`
	EnrollmentDate  string             `json:"enrollment_date"`
	CourseStartDate *string            `json:"course_start_date"`
	CourseEndDate   *string            `json:"course_end_date"`
	BillingCycle    types.BillingCycle `json:"billing_cycle"`
	CourseFee       decimal.Decimal    `json:"course_fee"`
	TotalFee        decimal.Decimal    `json:"total_fee"`
	Status          types.Status       `json:"status"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	CreatedBy       string             `json:"created_by"`
	UpdatedBy       string             `json:"updated_by"`
}

func toEnrollmentRecord(e *enrollment.Enrollment) enrollmentRecord {
	return enrollmentRecord{
		ID:              e.ID,
		StudentID:       e.StudentID,
		CourseID:        e.CourseID,
		EnrollmentDate:  e.EnrollmentDate.Format(types.DateLayout),
		CourseStartDate: optionalDateString(e.CourseStartDate),
		CourseEndDate:   optionalDateString(e.CourseEndDate),
		BillingCycle:    e.BillingCycle,
		CourseFee:       e.CourseFee,
		TotalFee:        e.TotalFee,
		Status:          e.Status,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
		CreatedBy:       e.CreatedBy,
		UpdatedBy:       e.UpdatedBy,
	}
}

func (r enrollmentRecord) toDomain() (*enrollment.Enrollment, error) {
	enrollmentDate, err := types.ParseDate(r.EnrollmentDate)
	if err != nil {
		return nil, err
	}
	courseStart, err := types.ParseOptionalDate(r.CourseStartDate)
	if err != nil {
		return nil, err
	}
	courseEnd, err := types.ParseOptionalDate(r.CourseEndDate)
	if err != nil {
		return nil, err
	}

	return &enrollment.Enrollment{
		ID:              r.ID,
		StudentID:       r.StudentID,
		CourseID:        r.CourseID,
		EnrollmentDate:  enrollmentDate,
		CourseStartDate: courseStart,
		CourseEndDate:   courseEnd,
		BillingCycle:    r.BillingCycle,
		CourseFee:       r.CourseFee,
		TotalFee:        r.TotalFee,
		BaseModel: types.BaseModel{
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			CreatedBy: r.CreatedBy,
			UpdatedBy: r.UpdatedBy,
		},
	}, nil
}

type chargeRecord struct {
	ID           string             `json:"id"`
	EnrollmentID string             `json:"enrollment_id"`
	ChargeStatus types.ChargeStatus `json:"charge_status"`
	DueDate      string             `json:"due_date"`
	PeriodStart  string             `json:"period_start"`
	PeriodEnd    string             `json:"period_end"`
	Amount       decimal.Decimal    `json:"amount"`
	AmountPaid   decimal.Decimal    `json:"amount_paid"`
	PaidAt       *string            `json:"paid_at"`
	IsProrated   bool               `json:"is_prorated"`
	Status       types.Status       `json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	CreatedBy    string             `json:"created_by"`
	UpdatedBy    string             `json:"updated_by"`
}

func toChargeRecord(c *charge.Charge) chargeRecord {
	return chargeRecord{
		ID:           c.ID,
		EnrollmentID: c.EnrollmentID,
		ChargeStatus: c.ChargeStatus,
		DueDate:      c.DueDate.Format(types.DateLayout),
		PeriodStart:  c.PeriodStart.Format(types.DateLayout),
		PeriodEnd:    c.PeriodEnd.Format(types.DateLayout),
		Amount:       c.Amount,
		AmountPaid:   c.AmountPaid,
		PaidAt:       optionalDateString(c.PaidAt),
		IsProrated:   c.IsProrated,
		Status:       c.Status,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		CreatedBy:    c.CreatedBy,
		UpdatedBy:    c.UpdatedBy,
	}
}

func (r chargeRecord) toDomain() (*charge.Charge, error) {
	dates := make([]time.Time, 3)
	for i, raw := range []string{r.DueDate, r.PeriodStart, r.PeriodEnd} {
		d, err := types.ParseDate(raw)
		if err != nil {
			return nil, err
		}
		dates[i] = d
	}
	paidAt, err := types.ParseOptionalDate(r.PaidAt)
	if err != nil {
		return nil, err
	}

	return &charge.Charge{
		ID:           r.ID,
		EnrollmentID: r.EnrollmentID,
		ChargeStatus: r.ChargeStatus,
		DueDate:      dates[0],
		PeriodStart:  dates[1],
		PeriodEnd:    dates[2],
		Amount:       r.Amount,
		AmountPaid:   r.AmountPaid,
		PaidAt:       paidAt,
		IsProrated:   r.IsProrated,
		BaseModel: types.BaseModel{
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			CreatedBy: r.CreatedBy,
			UpdatedBy: r.UpdatedBy,
		},
	}, nil
}

type pageStateRecord struct {
	ID        string          `json:"id"`
	Page      string          `json:"page"`
	SessionID string          `json:"session_id"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func toPageStateRecord(s *pagestate.PageState) pageStateRecord {
	return pageStateRecord(*s)
}

func (r pageStateRecord) toDomain() *pagestate.PageState {
	state := pagestate.PageState(r)
	return &state
}

func optionalDateString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(types.DateLayout)
	return &s
}
