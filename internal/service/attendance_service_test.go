package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Oggm2/registroServicio/internal/errors"
	"github.com/Oggm2/registroServicio/internal/model"
	"github.com/Oggm2/registroServicio/internal/repository"
)

func TestAttendanceRegisterOnce(t *testing.T) {
	db := openTestDB(t)
	career := seedCareer(t, db)
	student := seedStudent(t, db, career.ID, "alumno1", "A01111111")

	svc := NewAttendanceService(repository.NewAttendanceRepository(db), repository.NewStudentRepository(db), nil)

	record, err := svc.Register(testCtx, student.UserID, "10:00 - 11:00")
	require.NoError(t, err)
	assert.Equal(t, model.AttendancePending, record.Status)
	assert.Equal(t, "10:00 - 11:00", record.TimeSlot)
	assert.Nil(t, record.CheckInAt)

	_, err = svc.Register(testCtx, student.UserID, "11:00 - 12:00")
	assert.ErrorIs(t, err, errors.ErrAttendanceExists)
}

func TestAttendanceRegisterWithoutProfile(t *testing.T) {
	db := openTestDB(t)
	seedCareer(t, db)
	staff := &model.User{Username: "becario1", PasswordHash: "x", Role: model.RoleStaff}
	require.NoError(t, db.Create(staff).Error)

	svc := NewAttendanceService(repository.NewAttendanceRepository(db), repository.NewStudentRepository(db), nil)

	_, err := svc.Register(testCtx, staff.ID, "10:00 - 11:00")
	assert.ErrorIs(t, err, errors.ErrStudentNotFound)
}

func TestAttendanceCheck(t *testing.T) {
	db := openTestDB(t)
	career := seedCareer(t, db)
	student := seedStudent(t, db, career.ID, "alumno1", "A01111111")

	svc := NewAttendanceService(repository.NewAttendanceRepository(db), repository.NewStudentRepository(db), nil)

	record, err := svc.Check(testCtx, student.UserID)
	require.NoError(t, err)
	assert.Nil(t, record)

	_, err = svc.Register(testCtx, student.UserID, "10:00 - 11:00")
	require.NoError(t, err)

	record, err = svc.Check(testCtx, student.UserID)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "10:00 - 11:00", record.TimeSlot)
}

func TestAttendanceValidateStamps(t *testing.T) {
	db := openTestDB(t)
	career := seedCareer(t, db)
	student := seedStudent(t, db, career.ID, "alumno1", "A01111111")

	svc := NewAttendanceService(repository.NewAttendanceRepository(db), repository.NewStudentRepository(db), nil)

	record, err := svc.Register(testCtx, student.UserID, "10:00 - 11:00")
	require.NoError(t, err)

	// entering the fair stamps check-in
	record, err = svc.Validate(testCtx, record.ID, model.AttendanceInside)
	require.NoError(t, err)
	assert.Equal(t, model.AttendanceInside, record.Status)
	require.NotNil(t, record.CheckInAt)
	checkIn := *record.CheckInAt
	assert.Nil(t, record.CheckOutAt)

	// completing stamps check-out and keeps the original check-in
	record, err = svc.Validate(testCtx, record.ID, model.AttendanceAttended)
	require.NoError(t, err)
	assert.Equal(t, model.AttendanceAttended, record.Status)
	require.NotNil(t, record.CheckOutAt)
	require.NotNil(t, record.CheckInAt)
	assert.Equal(t, checkIn.Unix(), record.CheckInAt.Unix())
}

func TestAttendanceValidateInvalidStatus(t *testing.T) {
	db := openTestDB(t)
	career := seedCareer(t, db)
	student := seedStudent(t, db, career.ID, "alumno1", "A01111111")

	svc := NewAttendanceService(repository.NewAttendanceRepository(db), repository.NewStudentRepository(db), nil)

	record, err := svc.Register(testCtx, student.UserID, "10:00 - 11:00")
	require.NoError(t, err)

	_, err = svc.Validate(testCtx, record.ID, model.AttendanceStatus("presente"))
	assert.ErrorIs(t, err, errors.ErrInvalidStatus)

	_, err = svc.Validate(testCtx, 9999, model.AttendanceInside)
	assert.ErrorIs(t, err, errors.ErrAttendanceNotFound)
}

func TestAttendanceRescheduleOwnership(t *testing.T) {
	db := openTestDB(t)
	career := seedCareer(t, db)
	owner := seedStudent(t, db, career.ID, "alumno1", "A01111111")
	other := seedStudent(t, db, career.ID, "alumno2", "A02222222")

	svc := NewAttendanceService(repository.NewAttendanceRepository(db), repository.NewStudentRepository(db), nil)

	record, err := svc.Register(testCtx, owner.UserID, "10:00 - 11:00")
	require.NoError(t, err)

	_, err = svc.Reschedule(testCtx, record.ID, other.UserID, model.RoleStudent, "11:00 - 12:00")
	assert.ErrorIs(t, err, errors.ErrForbidden)

	record, err = svc.Reschedule(testCtx, record.ID, owner.UserID, model.RoleStudent, "11:00 - 12:00")
	require.NoError(t, err)
	assert.Equal(t, "11:00 - 12:00", record.TimeSlot)

	record, err = svc.Reschedule(testCtx, record.ID, 0, model.RoleStaff, "12:00 - 13:00")
	require.NoError(t, err)
	assert.Equal(t, "12:00 - 13:00", record.TimeSlot)
}

func TestAttendanceOccupancy(t *testing.T) {
	db := openTestDB(t)
	career := seedCareer(t, db)

	svc := NewAttendanceService(repository.NewAttendanceRepository(db), repository.NewStudentRepository(db), nil)

	students := []*model.Student{
		seedStudent(t, db, career.ID, "alumno1", "A01111111"),
		seedStudent(t, db, career.ID, "alumno2", "A02222222"),
		seedStudent(t, db, career.ID, "alumno3", "A03333333"),
	}
	records := make([]*model.AttendanceRecord, 0, len(students))
	for _, student := range students {
		record, err := svc.Register(testCtx, student.UserID, "10:00 - 11:00")
		require.NoError(t, err)
		records = append(records, record)
	}

	_, err := svc.Validate(testCtx, records[0].ID, model.AttendanceInside)
	require.NoError(t, err)
	_, err = svc.Validate(testCtx, records[1].ID, model.AttendanceAttended)
	require.NoError(t, err)

	occupancy, err := svc.Occupancy(testCtx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, occupancy.Inside)
	assert.EqualValues(t, 3, occupancy.Registered)
	// attended counts everyone who made it in, including those still inside
	assert.EqualValues(t, 2, occupancy.Attended)
}
