package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/tdtai09423/moe-ui-sub001/internal/cache"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/enrollment"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
	"github.com/tdtai09423/moe-ui-sub001/internal/logger"
	"github.com/tdtai09423/moe-ui-sub001/internal/postgres"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

const enrollmentColumns = `id, student_id, course_id, enrollment_date, course_start_date, course_end_date,
	billing_cycle, course_fee, total_fee, status, created_at, updated_at, created_by, updated_by`

type enrollmentRepository struct {
	db     *postgres.DB
	logger *logger.Logger
	cache  cache.Cache
}

func NewEnrollmentRepository(db *postgres.DB, logger *logger.Logger, cache cache.Cache) enrollment.Repository {
	return &enrollmentRepository{db: db, logger: logger, cache: cache}
}

func (r *enrollmentRepository) Create(ctx context.Context, e *enrollment.Enrollment) (err error) {
	span := StartRepositorySpan(ctx, "enrollment", "create", map[string]interface{}{
		"enrollment_id": e.ID,
	})
	defer func() { FinishSpan(span, err) }()

	r.logger.Debugw("creating enrollment",
		"enrollment_id", e.ID,
		"student_id", e.StudentID,
		"billing_cycle", e.BillingCycle,
	)

	query := `
		INSERT INTO enrollments (` + enrollmentColumns + `)
		VALUES (
			:id, :student_id, :course_id, :enrollment_date, :course_start_date, :course_end_date,
			:billing_cycle, :course_fee, :total_fee, :status, :created_at, :updated_at, :created_by, :updated_by
		)`

	if _, err = r.db.GetQuerier(ctx).NamedExecContext(ctx, query, e); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ierr.WithError(err).
				WithHint("An enrollment with this ID already exists").
				WithReportableDetails(map[string]any{"enrollment_id": e.ID}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create enrollment").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *enrollmentRepository) Get(ctx context.Context, id string) (_ *enrollment.Enrollment, err error) {
	span := StartRepositorySpan(ctx, "enrollment", "get", map[string]interface{}{
		"enrollment_id": id,
	})
	defer func() { FinishSpan(span, err) }()

	if cached := r.getCache(ctx, id); cached != nil {
		return cached, nil
	}

	var e enrollment.Enrollment
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE id = $1`
	if err = r.db.GetQuerier(ctx).GetContext(ctx, &e, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHintf("Enrollment %s was not found", id).
				WithReportableDetails(map[string]any{"enrollment_id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get enrollment").
			Mark(ierr.ErrDatabase)
	}

	r.setCache(ctx, &e)
	return &e, nil
}

func (r *enrollmentRepository) Update(ctx context.Context, e *enrollment.Enrollment) (err error) {
	span := StartRepositorySpan(ctx, "enrollment", "update", map[string]interface{}{
		"enrollment_id": e.ID,
	})
	defer func() { FinishSpan(span, err) }()

	query := `
		UPDATE enrollments SET
			course_start_date = :course_start_date,
			course_end_date = :course_end_date,
			billing_cycle = :billing_cycle,
			course_fee = :course_fee,
			total_fee = :total_fee,
			status = :status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id`

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, e)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update enrollment").
			Mark(ierr.ErrDatabase)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ierr.NewErrorf("enrollment %s not found", e.ID).
			WithHintf("Enrollment %s was not found", e.ID).
			Mark(ierr.ErrNotFound)
	}

	r.deleteCache(ctx, e.ID)
	return nil
}

func (r *enrollmentRepository) List(ctx context.Context, filter *types.EnrollmentFilter) (_ []*enrollment.Enrollment, err error) {
	span := StartRepositorySpan(ctx, "enrollment", "list", nil)
	defer func() { FinishSpan(span, err) }()

	query, args := buildEnrollmentListQuery(filter)

	enrollments := make([]*enrollment.Enrollment, 0)
	if err = r.db.GetQuerier(ctx).SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list enrollments").
			Mark(ierr.ErrDatabase)
	}
	return enrollments, nil
}

func (r *enrollmentRepository) Delete(ctx context.Context, id string) (err error) {
	span := StartRepositorySpan(ctx, "enrollment", "delete", map[string]interface{}{
		"enrollment_id": id,
	})
	defer func() { FinishSpan(span, err) }()

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete enrollment").
			Mark(ierr.ErrDatabase)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ierr.NewErrorf("enrollment %s not found", id).
			WithHintf("Enrollment %s was not found", id).
			Mark(ierr.ErrNotFound)
	}

	r.deleteCache(ctx, id)
	return nil
}

func buildEnrollmentListQuery(filter *types.EnrollmentFilter) (string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, strings.Replace(cond, "?", "$"+strconv.Itoa(len(args)), 1))
	}

	if filter != nil {
		if len(filter.EnrollmentIDs) > 0 {
			add("id = ANY(?)", pq.Array(filter.EnrollmentIDs))
		}
		if filter.StudentID != "" {
			add("student_id = ?", filter.StudentID)
		}
		if filter.CourseID != "" {
			add("course_id = ?", filter.CourseID)
		}
		if filter.BillingCycle != "" {
			add("billing_cycle = ?", filter.BillingCycle)
		}
		if filter.Status != "" {
			add("status = ?", filter.Status)
		}
	}

	query := `SELECT ` + enrollmentColumns + ` FROM enrollments`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at, id"

	if filter != nil && filter.QueryFilter != nil {
		args = append(args, filter.GetLimit(), filter.GetOffset())
		query += " LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))
	}
	return query, args
}

func (r *enrollmentRepository) getCache(ctx context.Context, id string) *enrollment.Enrollment {
	if r.cache == nil {
		return nil
	}
	if value, found := r.cache.Get(ctx, cache.GenerateKey(cache.PrefixEnrollment, id)); found {
		if e, ok := value.(*enrollment.Enrollment); ok {
			copied := *e
			return &copied
		}
	}
	return nil
}

func (r *enrollmentRepository) setCache(ctx context.Context, e *enrollment.Enrollment) {
	if r.cache == nil {
		return
	}
	copied := *e
	r.cache.Set(ctx, cache.GenerateKey(cache.PrefixEnrollment, e.ID), &copied, 0)
}

func (r *enrollmentRepository) deleteCache(ctx context.Context, id string) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(ctx, cache.GenerateKey(cache.PrefixEnrollment, id))
}
