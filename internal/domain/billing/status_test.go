package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/charge"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

func newCharge(status types.ChargeStatus, due time.Time) *charge.Charge {
	return &charge.Charge{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CHARGE),
		EnrollmentID: "enr_test",
		ChargeStatus: status,
		DueDate:      due,
		Amount:       decimal.NewFromInt(100),
	}
}

func TestGetNextBillingDate(t *testing.T) {
	tests := []struct {
		name  string
		today time.Time
		want  time.Time
	}{
		{"before the fifth", date(2026, time.October, 3), date(2026, time.October, 5)},
		{"on the fifth", date(2026, time.October, 5), date(2026, time.November, 5)},
		{"after the fifth", date(2026, time.October, 18), date(2026, time.November, 5)},
		{"december rolls over", date(2026, time.December, 5), date(2027, time.January, 5)},
		{"early december stays", date(2026, time.December, 4), date(2026, time.December, 5)},
		{"end of january", date(2026, time.January, 31), date(2026, time.February, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, GetNextBillingDate(tt.today).Equal(tt.want), "got %v, want %v", GetNextBillingDate(tt.today), tt.want)
		})
	}
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 36, DaysBetween(date(2026, time.January, 5), date(2026, time.February, 10)))
	assert.Equal(t, -36, DaysBetween(date(2026, time.February, 10), date(2026, time.January, 5)))
	assert.Equal(t, 0, DaysBetween(date(2026, time.January, 5), date(2026, time.January, 5)))
	assert.Equal(t, 1, DaysBetween(date(2026, time.January, 5), time.Date(2026, time.January, 5, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, DaysBetween(time.Date(2026, time.January, 5, 12, 0, 0, 0, time.UTC), date(2026, time.January, 5)))
}

func TestCalculatePaymentStatus(t *testing.T) {
	today := date(2026, time.February, 10)
	nextFifth := date(2026, time.March, 5)

	tests := []struct {
		name     string
		charges  []*charge.Charge
		want     types.PaymentStatus
		wantNext bool
	}{
		{
			name:     "no charges",
			charges:  nil,
			want:     types.PaymentStatusScheduled,
			wantNext: true,
		},
		{
			name:     "only nil entries",
			charges:  []*charge.Charge{nil, nil},
			want:     types.PaymentStatusScheduled,
			wantNext: true,
		},
		{
			name:     "outstanding for 36 days stays outstanding",
			charges:  []*charge.Charge{newCharge(types.ChargeStatusOutstanding, date(2026, time.January, 5))},
			want:     types.PaymentStatusOutstanding,
			wantNext: true,
		},
		{
			name:     "recently outstanding",
			charges:  []*charge.Charge{newCharge(types.ChargeStatusOutstanding, date(2026, time.February, 1))},
			want:     types.PaymentStatusOutstanding,
			wantNext: true,
		},
		{
			name:     "outstanding due today",
			charges:  []*charge.Charge{newCharge(types.ChargeStatusOutstanding, today)},
			want:     types.PaymentStatusOutstanding,
			wantNext: true,
		},
		{
			name: "all clear",
			charges: []*charge.Charge{
				newCharge(types.ChargeStatusClear, date(2026, time.January, 5)),
				newCharge(types.ChargeStatusClear, date(2026, time.February, 5)),
			},
			want:     types.PaymentStatusScheduled,
			wantNext: true,
		},
		{
			name: "clear and partially paid falls through",
			charges: []*charge.Charge{
				newCharge(types.ChargeStatusClear, date(2026, time.January, 5)),
				newCharge(types.ChargeStatusPartiallyPaid, date(2026, time.February, 5)),
			},
			want:     types.PaymentStatusOutstanding,
			wantNext: false,
		},
		{
			name: "outstanding not yet due falls through",
			charges: []*charge.Charge{
				newCharge(types.ChargeStatusClear, date(2026, time.February, 5)),
				newCharge(types.ChargeStatusOutstanding, date(2026, time.March, 5)),
			},
			want:     types.PaymentStatusOutstanding,
			wantNext: false,
		},
		{
			name:     "charge already marked overdue falls through",
			charges:  []*charge.Charge{newCharge(types.ChargeStatusOverdue, date(2025, time.December, 5))},
			want:     types.PaymentStatusOutstanding,
			wantNext: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculatePaymentStatus(tt.charges, today)
			assert.Equal(t, tt.want, got.Status)
			if tt.wantNext {
				require.NotNil(t, got.NextBillingDate)
				assert.True(t, got.NextBillingDate.Equal(nextFifth))
			} else {
				assert.Nil(t, got.NextBillingDate)
			}
		})
	}
}

func TestStatusClassifier_EscalateOverdue(t *testing.T) {
	classifier := StatusClassifier{OverdueAfterDays: 30, EscalateOverdue: true}
	today := date(2026, time.February, 10)

	got := classifier.Classify([]*charge.Charge{newCharge(types.ChargeStatusOutstanding, date(2026, time.January, 5))}, today)
	assert.Equal(t, types.PaymentStatusOverdue, got.Status)
	require.NotNil(t, got.NextBillingDate)

	got = classifier.Classify([]*charge.Charge{newCharge(types.ChargeStatusOutstanding, date(2026, time.February, 1))}, today)
	assert.Equal(t, types.PaymentStatusOutstanding, got.Status)
}

func TestStatusClassifier_OverdueThreshold(t *testing.T) {
	classifier := StatusClassifier{OverdueAfterDays: 7, EscalateOverdue: true}
	today := date(2026, time.February, 10)

	assert.Equal(t, types.PaymentStatusOutstanding,
		classifier.Classify([]*charge.Charge{newCharge(types.ChargeStatusOutstanding, date(2026, time.February, 3))}, today).Status)
	assert.Equal(t, types.PaymentStatusOverdue,
		classifier.Classify([]*charge.Charge{newCharge(types.ChargeStatusOutstanding, date(2026, time.February, 2))}, today).Status)
}

func TestIsFullyPaid(t *testing.T) {
	today := date(2026, time.October, 18)

	tests := []struct {
		name      string
		total     string
		collected string
		courseEnd *time.Time
		want      bool
	}{
		{"collected covers total", "1000", "1000", nil, true},
		{"overpaid", "1000", "1200", nil, true},
		{"one cent short", "1000", "999.99", nil, false},
		{"zero fee open course", "0", "0", nil, false},
		{"zero fee ended course", "0", "0", datePtr(2026, time.June, 30), true},
		{"covered and still running", "1000", "1000", datePtr(2027, time.June, 30), true},
		{"ended but short", "500", "400", datePtr(2026, time.June, 30), false},
		{"ends today is not ended", "0", "0", datePtr(2026, time.October, 18), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsFullyPaid(decimal.RequireFromString(tt.total), decimal.RequireFromString(tt.collected), tt.courseEnd, today)
			assert.Equal(t, tt.want, got)
		})
	}
}
