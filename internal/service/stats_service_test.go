package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Oggm2/registroServicio/internal/model"
	"github.com/Oggm2/registroServicio/internal/repository"
	"gorm.io/gorm"
)

func buildStatsService(t *testing.T) (StatsService, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)
	svc := NewStatsService(
		repository.NewStatsRepository(db),
		repository.NewServiceRepository(db),
		repository.NewAttendanceRepository(db),
		nil,
	)
	return svc, db
}

func TestDashboardEmpty(t *testing.T) {
	svc, _ := buildStatsService(t)

	dashboard, err := svc.Dashboard(testCtx, "")
	require.NoError(t, err)
	assert.Zero(t, dashboard.TotalStudents)
	assert.Zero(t, dashboard.TotalEnrollments)
	// no attendance records means a zero rate, not a division by zero
	assert.Zero(t, dashboard.NoShowRate)
	assert.Empty(t, dashboard.TopServices)
}

func TestDashboardZeroCapacityPeriod(t *testing.T) {
	svc, db := buildStatsService(t)
	seedService(t, db, "10231", "2024-1", 0)

	dashboard, err := svc.Dashboard(testCtx, "")
	require.NoError(t, err)
	require.Len(t, dashboard.OccupancyByPeriod, 1)
	assert.Zero(t, dashboard.OccupancyByPeriod[0].Percent)
}

func TestDashboardAggregates(t *testing.T) {
	svc, db := buildStatsService(t)
	career := seedCareer(t, db)

	partner := &model.Partner{Name: "Cruz Roja"}
	require.NoError(t, db.Create(partner).Error)

	popular := seedService(t, db, "20231", "2024-1", 2)
	quiet := seedService(t, db, "20232", "2024-1", 10)
	popular.PartnerID = &partner.ID
	require.NoError(t, db.Save(popular).Error)

	enrollmentSvc := NewEnrollmentService(repository.NewEnrollmentRepository(db), repository.NewStudentRepository(db), nil)
	attendanceSvc := NewAttendanceService(repository.NewAttendanceRepository(db), repository.NewStudentRepository(db), nil)

	first := seedStudent(t, db, career.ID, "alumno1", "A01111111")
	second := seedStudent(t, db, career.ID, "alumno2", "A02222222")

	_, err := enrollmentSvc.Enroll(testCtx, first.ID, "20231")
	require.NoError(t, err)
	_, err = enrollmentSvc.Enroll(testCtx, second.ID, "20231")
	require.NoError(t, err)

	recordA, err := attendanceSvc.Register(testCtx, first.UserID, "10:00 - 11:00")
	require.NoError(t, err)
	_, err = attendanceSvc.Register(testCtx, second.UserID, "11:00 - 12:00")
	require.NoError(t, err)
	_, err = attendanceSvc.Validate(testCtx, recordA.ID, model.AttendanceNoShow)
	require.NoError(t, err)

	dashboard, err := svc.Dashboard(testCtx, "")
	require.NoError(t, err)

	assert.EqualValues(t, 2, dashboard.TotalStudents)
	assert.EqualValues(t, 2, dashboard.TotalEnrollments)
	assert.EqualValues(t, 2, dashboard.TotalAttendance)
	assert.EqualValues(t, 2, dashboard.ActiveServices)
	assert.EqualValues(t, 1, dashboard.NoShows)
	assert.InDelta(t, 50.0, dashboard.NoShowRate, 0.01)

	// most requested first
	require.NotEmpty(t, dashboard.TopServices)
	assert.Equal(t, popular.Description, dashboard.TopServices[0].Description)
	assert.EqualValues(t, 2, dashboard.TopServices[0].Enrolled)

	// the full service shows zero seats left, the quiet one all ten
	availability := map[string]int64{}
	for _, row := range dashboard.Availability {
		availability[row.CRN] = row.Available
	}
	assert.EqualValues(t, 0, availability[popular.CRN])
	assert.EqualValues(t, 10, availability[quiet.CRN])

	require.Len(t, dashboard.OccupancyByPeriod, 1)
	occ := dashboard.OccupancyByPeriod[0]
	assert.Equal(t, "2024-1", occ.Period)
	assert.EqualValues(t, 12, occ.CapacityTotal)
	assert.EqualValues(t, 2, occ.Enrolled)
	assert.InDelta(t, 16.7, occ.Percent, 0.01)

	require.Len(t, dashboard.ByPartner, 1)
	assert.Equal(t, "Cruz Roja", dashboard.ByPartner[0].Partner)
	assert.EqualValues(t, 2, dashboard.ByPartner[0].Total)

	require.Len(t, dashboard.ByCareer, 1)
	assert.Equal(t, "ITC", dashboard.ByCareer[0].Code)
	assert.EqualValues(t, 2, dashboard.ByCareer[0].Total)

	assert.Len(t, dashboard.AttendanceBySlot, 2)
	assert.Len(t, dashboard.EnrollmentTrend, 1)
	assert.Equal(t, []string{"2024-1"}, dashboard.Periods)
}

func TestDashboardPeriodFilter(t *testing.T) {
	svc, db := buildStatsService(t)
	seedService(t, db, "30231", "2024-1", 10)
	seedService(t, db, "30232", "2024-2", 20)

	dashboard, err := svc.Dashboard(testCtx, "2024-2")
	require.NoError(t, err)
	require.Len(t, dashboard.OccupancyByPeriod, 1)
	assert.Equal(t, "2024-2", dashboard.OccupancyByPeriod[0].Period)
	// the period list always shows every period
	assert.Equal(t, []string{"2024-1", "2024-2"}, dashboard.Periods)
}

func TestStudentReportRows(t *testing.T) {
	svc, db := buildStatsService(t)
	career := seedCareer(t, db)
	student := seedStudent(t, db, career.ID, "alumno1", "A01111111")

	header, rows, err := svc.StudentReportRows(testCtx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Nombre", "Matrícula", "Carrera", "Celular", "Correo Alterno"}, header)
	require.Len(t, rows, 1)
	assert.Equal(t, student.FullName, rows[0][0])
	assert.Equal(t, "A01111111", rows[0][1])
	assert.Equal(t, career.Name, rows[0][2])
}

func TestEnrollmentReportRows(t *testing.T) {
	svc, db := buildStatsService(t)
	career := seedCareer(t, db)
	student := seedStudent(t, db, career.ID, "alumno1", "A01111111")
	seedService(t, db, "40231", "2024-1", 10)

	enrollmentSvc := NewEnrollmentService(repository.NewEnrollmentRepository(db), repository.NewStudentRepository(db), nil)
	_, err := enrollmentSvc.Enroll(testCtx, student.ID, "40231")
	require.NoError(t, err)

	header, rows, err := svc.EnrollmentReportRows(testCtx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Nombre", "Matrícula", "Carrera", "CRN", "Servicio", "Periodo", "Fecha Registro"}, header)
	require.Len(t, rows, 1)
	assert.Equal(t, "40231", rows[0][3])
	assert.Equal(t, "2024-1", rows[0][5])
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}$`, rows[0][6])
}
