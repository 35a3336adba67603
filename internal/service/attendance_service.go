package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Oggm2/registroServicio/internal/cache"
	"github.com/Oggm2/registroServicio/internal/errors"
	"github.com/Oggm2/registroServicio/internal/model"
	"github.com/Oggm2/registroServicio/internal/repository"
)

// FairOccupancy is the live attendance snapshot for the fair floor.
// Attended counts everyone who checked in, whether or not they left yet.
type FairOccupancy struct {
	Inside     int64 `json:"dentro_ahora"`
	Registered int64 `json:"total_registrados"`
	Attended   int64 `json:"total_asistieron"`
}

// AttendanceService tracks fair attendance: one record per student moving
// through pendiente, dentro, asistió or no_asistió.
type AttendanceService interface {
	Register(ctx context.Context, userID uint, timeSlot string) (*model.AttendanceRecord, error)
	Check(ctx context.Context, userID uint) (*model.AttendanceRecord, error)
	Reschedule(ctx context.Context, recordID, userID uint, role, timeSlot string) (*model.AttendanceRecord, error)
	Validate(ctx context.Context, recordID uint, status model.AttendanceStatus) (*model.AttendanceRecord, error)
	Occupancy(ctx context.Context) (*FairOccupancy, error)
}

type attendanceService struct {
	attendanceRepo repository.AttendanceRepository
	studentRepo    repository.StudentRepository
	cache          *cache.Client
}

// NewAttendanceService creates a new attendance service.
func NewAttendanceService(
	attendanceRepo repository.AttendanceRepository,
	studentRepo repository.StudentRepository,
	cache *cache.Client,
) AttendanceService {
	return &attendanceService{
		attendanceRepo: attendanceRepo,
		studentRepo:    studentRepo,
		cache:          cache,
	}
}

// Register creates the student's attendance record for the chosen slot.
// Each student gets at most one record.
func (s *attendanceService) Register(ctx context.Context, userID uint, timeSlot string) (*model.AttendanceRecord, error) {
	student, err := s.studentRepo.FindByUserID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrStudentNotFound
		}
		return nil, err
	}

	if _, err := s.attendanceRepo.FindByStudent(ctx, student.ID); err == nil {
		return nil, errors.ErrAttendanceExists
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	record := &model.AttendanceRecord{
		StudentID: student.ID,
		Date:      time.Now(),
		TimeSlot:  timeSlot,
		Status:    model.AttendancePending,
	}
	if err := s.attendanceRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	_ = s.cache.DeleteByPrefix(ctx, statsCachePrefix)
	return record, nil
}

// Check returns the student's record, or nil when they have not registered.
func (s *attendanceService) Check(ctx context.Context, userID uint) (*model.AttendanceRecord, error) {
	student, err := s.studentRepo.FindByUserID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrStudentNotFound
		}
		return nil, err
	}

	record, err := s.attendanceRepo.FindByStudent(ctx, student.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

// Reschedule changes the chosen time slot. Students may only move their own
// record; staff and admins may move any.
func (s *attendanceService) Reschedule(ctx context.Context, recordID, userID uint, role, timeSlot string) (*model.AttendanceRecord, error) {
	record, err := s.attendanceRepo.FindByID(ctx, recordID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrAttendanceNotFound
		}
		return nil, err
	}

	if role == model.RoleStudent {
		student, err := s.studentRepo.FindByUserID(ctx, userID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, errors.ErrForbidden
			}
			return nil, err
		}
		if student.ID != record.StudentID {
			return nil, errors.ErrForbidden
		}
	}

	record.TimeSlot = timeSlot
	if err := s.attendanceRepo.Update(ctx, record); err != nil {
		return nil, err
	}

	_ = s.cache.DeleteByPrefix(ctx, statsCachePrefix)
	return record, nil
}

// Validate moves a record to a new status. Entering the fair (dentro) stamps
// the check-in time; completing it (asistió) stamps the check-out time.
func (s *attendanceService) Validate(ctx context.Context, recordID uint, status model.AttendanceStatus) (*model.AttendanceRecord, error) {
	if !status.Valid() {
		return nil, errors.ErrInvalidStatus
	}

	record, err := s.attendanceRepo.FindByID(ctx, recordID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrAttendanceNotFound
		}
		return nil, err
	}

	now := time.Now()
	switch status {
	case model.AttendanceInside:
		if record.CheckInAt == nil {
			record.CheckInAt = &now
		}
	case model.AttendanceAttended:
		if record.CheckOutAt == nil {
			record.CheckOutAt = &now
		}
	}
	record.Status = status

	if err := s.attendanceRepo.Update(ctx, record); err != nil {
		return nil, err
	}

	_ = s.cache.DeleteByPrefix(ctx, statsCachePrefix)
	return record, nil
}

func (s *attendanceService) Occupancy(ctx context.Context) (*FairOccupancy, error) {
	inside, err := s.attendanceRepo.CountByStatus(ctx, model.AttendanceInside)
	if err != nil {
		return nil, err
	}
	registered, err := s.attendanceRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	attended, err := s.attendanceRepo.CountByStatus(ctx, model.AttendanceInside, model.AttendanceAttended)
	if err != nil {
		return nil, err
	}
	return &FairOccupancy{Inside: inside, Registered: registered, Attended: attended}, nil
}
