package supabase

import (
	"context"
	"sort"

	supa "github.com/nedpals/supabase-go"
	"github.com/samber/lo"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/enrollment"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
	"github.com/tdtai09423/moe-ui-sub001/internal/logger"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

type enrollmentRepository struct {
	client *supa.Client
	logger *logger.Logger
}

func NewEnrollmentRepository(client *supa.Client, logger *logger.Logger) enrollment.Repository {
	return &enrollmentRepository{client: client, logger: logger}
}

func (r *enrollmentRepository) Create(ctx context.Context, e *enrollment.Enrollment) error {
	r.logger.Debugw("creating enrollment", "enrollment_id", e.ID, "student_id", e.StudentID)

	var inserted []enrollmentRecord
	if err := r.client.DB.From(tableEnrollments).Insert(toEnrollmentRecord(e)).Execute(&inserted); err != nil {
		return dbError(err, "Failed to create enrollment")
	}
	return nil
}

func (r *enrollmentRepository) Get(ctx context.Context, id string) (*enrollment.Enrollment, error) {
	var rows []enrollmentRecord
	if err := r.client.DB.From(tableEnrollments).Select("*").Eq("id", id).Execute(&rows); err != nil {
		return nil, dbError(err, "Failed to get enrollment")
	}
	if len(rows) == 0 {
		return nil, ierr.NewErrorf("enrollment %s not found", id).
			WithHintf("Enrollment %s was not found", id).
			WithReportableDetails(map[string]any{"enrollment_id": id}).
			Mark(ierr.ErrNotFound)
	}
	return rows[0].toDomain()
}

func (r *enrollmentRepository) Update(ctx context.Context, e *enrollment.Enrollment) error {
	var updated []enrollmentRecord
	if err := r.client.DB.From(tableEnrollments).Update(toEnrollmentRecord(e)).Eq("id", e.ID).Execute(&updated); err != nil {
		return dbError(err, "Failed to update enrollment")
	}
	if len(updated) == 0 {
		return ierr.NewErrorf("enrollment %s not found", e.ID).
			WithHintf("Enrollment %s was not found", e.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *enrollmentRepository) Delete(ctx context.Context, id string) error {
	var deleted []enrollmentRecord
	if err := r.client.DB.From(tableEnrollments).Delete().Eq("id", id).Execute(&deleted); err != nil {
		return dbError(err, "Failed to delete enrollment")
	}
	if len(deleted) == 0 {
		return ierr.NewErrorf("enrollment %s not found", id).
			WithHintf("Enrollment %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

// List fetches the table, or one student's rows, and filters the rest here
func (r *enrollmentRepository) List(ctx context.Context, filter *types.EnrollmentFilter) ([]*enrollment.Enrollment, error) {
	var (
		rows []enrollmentRecord
		err  error
	)
	if filter != nil && filter.StudentID != "" {
		err = r.client.DB.From(tableEnrollments).Select("*").Eq("student_id", filter.StudentID).Execute(&rows)
	} else {
		err = r.client.DB.From(tableEnrollments).Select("*").Execute(&rows)
	}
	if err != nil {
		return nil, dbError(err, "Failed to list enrollments")
	}

	enrollments := make([]*enrollment.Enrollment, 0, len(rows))
	for _, row := range rows {
		e, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		if e.Matches(filter) {
			enrollments = append(enrollments, e)
		}
	}

	sort.SliceStable(enrollments, func(i, j int) bool {
		return enrollments[i].CreatedAt.Before(enrollments[j].CreatedAt)
	})
	if filter != nil && filter.QueryFilter != nil {
		enrollments = lo.Slice(enrollments, filter.GetOffset(), filter.GetOffset()+filter.GetLimit())
	}
	return enrollments, nil
}
