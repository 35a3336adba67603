package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Oggm2/registroServicio/internal/errors"
	"github.com/Oggm2/registroServicio/internal/model"
	"github.com/Oggm2/registroServicio/internal/repository"
	"gorm.io/gorm"
)

func buildCatalogService(t *testing.T) (CatalogService, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)
	svc := NewCatalogService(repository.NewServiceRepository(db), repository.NewPartnerRepository(db), nil)
	return svc, db
}

func TestCatalogCreateDefaults(t *testing.T) {
	svc, _ := buildCatalogService(t)

	created, err := svc.Create(testCtx, CreateServiceInput{
		Description: "Apoyo comunitario",
		CRN:         "10231",
		Period:      "2024-1",
	})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultMaxCapacity, created.MaxCapacity)

	_, err = svc.Create(testCtx, CreateServiceInput{
		Description: "Otro servicio",
		CRN:         "10231",
		Period:      "2024-2",
	})
	assert.ErrorIs(t, err, errors.ErrCRNTaken)
}

func TestCatalogCreateUnknownPartner(t *testing.T) {
	svc, _ := buildCatalogService(t)

	partnerID := uint(42)
	_, err := svc.Create(testCtx, CreateServiceInput{
		Description: "Servicio con socio",
		CRN:         "20231",
		Period:      "2024-1",
		PartnerID:   &partnerID,
	})
	assert.ErrorIs(t, err, errors.ErrPartnerNotFound)
}

func TestCatalogUpdatePartial(t *testing.T) {
	svc, db := buildCatalogService(t)
	seedService(t, db, "30231", "2024-1", 30)
	other := seedService(t, db, "30232", "2024-1", 30)

	desc := "Descripción nueva"
	updated, err := svc.Update(testCtx, other.ID, UpdateServiceInput{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, desc, updated.Description)
	assert.Equal(t, "30232", updated.CRN)

	// CRN collision with another service
	crn := "30231"
	_, err = svc.Update(testCtx, other.ID, UpdateServiceInput{CRN: &crn})
	assert.ErrorIs(t, err, errors.ErrCRNTaken)

	// keeping your own CRN is fine
	own := "30232"
	_, err = svc.Update(testCtx, other.ID, UpdateServiceInput{CRN: &own})
	assert.NoError(t, err)
}

func TestCatalogCapacityFloor(t *testing.T) {
	svc, db := buildCatalogService(t)
	career := seedCareer(t, db)
	service := seedService(t, db, "40231", "2024-1", 30)

	enrollmentSvc := NewEnrollmentService(repository.NewEnrollmentRepository(db), repository.NewStudentRepository(db), nil)
	for i, matricula := range []string{"A01111111", "A02222222", "A03333333"} {
		student := seedStudent(t, db, career.ID, "alumno"+string(rune('1'+i)), matricula)
		_, err := enrollmentSvc.Enroll(testCtx, student.ID, "40231")
		require.NoError(t, err)
	}

	// below the enrolled count is rejected and the error names the count
	_, err := svc.UpdateCapacity(testCtx, service.ID, 2)
	require.ErrorIs(t, err, errors.ErrCapacityBelowEnrolled)
	assert.Contains(t, err.Error(), "3")

	// exactly the enrolled count is allowed
	updated, err := svc.UpdateCapacity(testCtx, service.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.MaxCapacity)

	_, err = svc.UpdateCapacity(testCtx, service.ID, -1)
	assert.ErrorIs(t, err, errors.ErrInvalidCapacity)
}

func TestCatalogListCounts(t *testing.T) {
	svc, db := buildCatalogService(t)
	career := seedCareer(t, db)
	seedService(t, db, "50231", "2024-1", 30)
	seedService(t, db, "50232", "2024-1", 30)

	enrollmentSvc := NewEnrollmentService(repository.NewEnrollmentRepository(db), repository.NewStudentRepository(db), nil)
	student := seedStudent(t, db, career.ID, "alumno1", "A01111111")
	_, err := enrollmentSvc.Enroll(testCtx, student.ID, "50231")
	require.NoError(t, err)

	rows, pagination, err := svc.List(testCtx, "", 1, 20)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.EqualValues(t, 2, pagination.Total)

	byCRN := map[string]int64{}
	for _, row := range rows {
		byCRN[row.CRN] = row.Enrolled
	}
	assert.EqualValues(t, 1, byCRN["50231"])
	assert.EqualValues(t, 0, byCRN["50232"])

	filtered, _, err := svc.List(testCtx, "50232", 1, 20)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "50232", filtered[0].CRN)
}

func TestCatalogDelete(t *testing.T) {
	svc, db := buildCatalogService(t)
	service := seedService(t, db, "60231", "2024-1", 30)

	require.NoError(t, svc.Delete(testCtx, service.ID))
	err := svc.Delete(testCtx, service.ID)
	assert.ErrorIs(t, err, errors.ErrServiceNotFound)
}

func TestCatalogPeriods(t *testing.T) {
	svc, db := buildCatalogService(t)
	seedService(t, db, "70231", "2024-1", 30)
	seedService(t, db, "70232", "2024-2", 30)
	seedService(t, db, "70233", "2024-1", 30)

	periods, err := svc.Periods(testCtx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-1", "2024-2"}, periods)
}
