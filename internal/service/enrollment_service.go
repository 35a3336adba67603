package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Oggm2/registroServicio/internal/cache"
	"github.com/Oggm2/registroServicio/internal/errors"
	"github.com/Oggm2/registroServicio/internal/model"
	"github.com/Oggm2/registroServicio/internal/repository"
)

// EnrollmentService guards pre-registration: quota, duplicate and
// one-service-per-period rules are checked and the enrollment created inside
// a single transaction holding a lock on the service row.
type EnrollmentService interface {
	Enroll(ctx context.Context, studentID uint, crn string) (*model.Enrollment, error)
	Cancel(ctx context.Context, enrollmentID, userID uint, role string) error
	List(ctx context.Context, period, career string) ([]repository.EnrollmentRow, error)
}

type enrollmentService struct {
	enrollmentRepo repository.EnrollmentRepository
	studentRepo    repository.StudentRepository
	cache          *cache.Client
}

// NewEnrollmentService creates a new enrollment service.
func NewEnrollmentService(
	enrollmentRepo repository.EnrollmentRepository,
	studentRepo repository.StudentRepository,
	cache *cache.Client,
) EnrollmentService {
	return &enrollmentService{
		enrollmentRepo: enrollmentRepo,
		studentRepo:    studentRepo,
		cache:          cache,
	}
}

// Enroll registers a student in the service identified by CRN. All business
// checks run against the locked service row, so two concurrent requests for
// the last seat cannot both pass the quota check.
func (s *enrollmentService) Enroll(ctx context.Context, studentID uint, crn string) (*model.Enrollment, error) {
	if _, err := s.studentRepo.FindByID(ctx, studentID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrStudentNotFound
		}
		return nil, err
	}

	var enrollment *model.Enrollment
	err := s.enrollmentRepo.WithTransaction(ctx, func(ctx context.Context, repo repository.EnrollmentRepository) error {
		svc, err := repo.FindServiceForUpdate(ctx, crn)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrServiceNotFound
			}
			return err
		}

		enrolled, err := repo.CountByService(ctx, svc.ID)
		if err != nil {
			return err
		}
		if enrolled >= int64(svc.MaxCapacity) {
			return errors.ErrQuotaExceeded
		}

		exists, err := repo.ExistsByStudentAndService(ctx, studentID, svc.ID)
		if err != nil {
			return err
		}
		if exists {
			return errors.ErrDuplicateEnrollment
		}

		if _, err := repo.FindByStudentInPeriod(ctx, studentID, svc.Period); err == nil {
			return fmt.Errorf("%w %s", errors.ErrPeriodConflict, svc.Period)
		} else if err != gorm.ErrRecordNotFound {
			return err
		}

		enrollment = &model.Enrollment{StudentID: studentID, ServiceID: svc.ID}
		return repo.Create(ctx, enrollment)
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.DeleteByPrefix(ctx, statsCachePrefix)
	return enrollment, nil
}

// Cancel removes an enrollment. Students may only cancel their own; staff
// and admins may cancel any.
func (s *enrollmentService) Cancel(ctx context.Context, enrollmentID, userID uint, role string) error {
	enrollment, err := s.enrollmentRepo.FindByID(ctx, enrollmentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrEnrollmentNotFound
		}
		return err
	}

	if role == model.RoleStudent {
		student, err := s.studentRepo.FindByUserID(ctx, userID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrForbidden
			}
			return err
		}
		if student.ID != enrollment.StudentID {
			return errors.ErrForbidden
		}
	}

	if err := s.enrollmentRepo.Delete(ctx, enrollmentID); err != nil {
		return err
	}

	_ = s.cache.DeleteByPrefix(ctx, statsCachePrefix)
	return nil
}

func (s *enrollmentService) List(ctx context.Context, period, career string) ([]repository.EnrollmentRow, error) {
	return s.enrollmentRepo.ListDetailed(ctx, period, career)
}
