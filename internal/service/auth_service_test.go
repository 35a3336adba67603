package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Oggm2/registroServicio/internal/auth"
	apperrors "github.com/Oggm2/registroServicio/internal/errors"
	"github.com/Oggm2/registroServicio/internal/model"
	"github.com/Oggm2/registroServicio/internal/repository"
)

// captureMailer records the last reset link instead of sending mail.
type captureMailer struct {
	to   string
	link string
	err  error
}

func (m *captureMailer) SendPasswordReset(to, _, link string) error {
	m.to = to
	m.link = link
	return m.err
}

func buildAuthService(t *testing.T) (AuthService, *captureMailer, *model.Career) {
	t.Helper()
	db := openTestDB(t)
	career := seedCareer(t, db)
	mailer := &captureMailer{}
	svc := NewAuthService(
		repository.NewUserRepository(db),
		repository.NewStudentRepository(db),
		repository.NewCareerRepository(db),
		repository.NewResetTokenRepository(db),
		auth.NewJWTService("test-secret"),
		mailer,
		"http://localhost:5173",
	)
	return svc, mailer, career
}

func registerInput(career *model.Career) RegisterStudentInput {
	return RegisterStudentInput{
		Username:  "alumno1",
		Password:  "secreta123",
		FullName:  "Ana López",
		Matricula: "A01111111",
		CareerID:  career.ID,
		Phone:     "5512345678",
		AltEmail:  "ana@example.com",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, career := buildAuthService(t)

	student, token, err := svc.RegisterStudent(testCtx, registerInput(career))
	require.NoError(t, err)
	assert.Equal(t, "A01111111", student.Matricula)
	assert.NotEmpty(t, token)

	result, err := svc.Login(testCtx, "alumno1", "secreta123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, model.RoleStudent, result.User.Role)
	require.NotNil(t, result.User.Student)
	assert.Equal(t, student.ID, result.User.Student.ID)

	_, err = svc.Login(testCtx, "alumno1", "incorrecta")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(testCtx, "nadie", "secreta123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestRegisterUniqueness(t *testing.T) {
	svc, _, career := buildAuthService(t)

	_, _, err := svc.RegisterStudent(testCtx, registerInput(career))
	require.NoError(t, err)

	dup := registerInput(career)
	dup.Matricula = "A09999999"
	dup.AltEmail = "otra@example.com"
	_, _, err = svc.RegisterStudent(testCtx, dup)
	assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)

	dup = registerInput(career)
	dup.Username = "alumno2"
	dup.AltEmail = "otra@example.com"
	_, _, err = svc.RegisterStudent(testCtx, dup)
	assert.ErrorIs(t, err, apperrors.ErrMatriculaTaken)

	dup = registerInput(career)
	dup.Username = "alumno2"
	dup.Matricula = "A09999999"
	_, _, err = svc.RegisterStudent(testCtx, dup)
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
}

func TestRegisterUnknownCareer(t *testing.T) {
	svc, _, career := buildAuthService(t)

	input := registerInput(career)
	input.CareerID = 999
	_, _, err := svc.RegisterStudent(testCtx, input)
	assert.ErrorIs(t, err, apperrors.ErrCareerNotFound)
}

func TestChangePassword(t *testing.T) {
	svc, _, career := buildAuthService(t)

	_, _, err := svc.RegisterStudent(testCtx, registerInput(career))
	require.NoError(t, err)
	result, err := svc.Login(testCtx, "alumno1", "secreta123")
	require.NoError(t, err)

	err = svc.ChangePassword(testCtx, result.User.ID, "incorrecta", "nueva12345")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	err = svc.ChangePassword(testCtx, result.User.ID, "secreta123", "nueva12345")
	require.NoError(t, err)

	_, err = svc.Login(testCtx, "alumno1", "nueva12345")
	assert.NoError(t, err)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, mailer, career := buildAuthService(t)

	_, _, err := svc.RegisterStudent(testCtx, registerInput(career))
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(testCtx, "ana@example.com"))
	require.NotEmpty(t, mailer.link)
	assert.Equal(t, "ana@example.com", mailer.to)

	token := mailer.link[strings.LastIndex(mailer.link, "=")+1:]
	require.NotEmpty(t, token)

	require.NoError(t, svc.ResetPassword(testCtx, token, "restablecida1"))

	_, err = svc.Login(testCtx, "alumno1", "restablecida1")
	require.NoError(t, err)

	// tokens are single use
	err = svc.ResetPassword(testCtx, token, "otravez12345")
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)
}

func TestForgotPasswordNeverLeaks(t *testing.T) {
	svc, mailer, career := buildAuthService(t)

	_, _, err := svc.RegisterStudent(testCtx, registerInput(career))
	require.NoError(t, err)

	// unknown email: still success, no mail sent
	require.NoError(t, svc.ForgotPassword(testCtx, "nadie@example.com"))
	assert.Empty(t, mailer.link)

	// mailer failures are swallowed
	mailer.err = errors.New("smtp down")
	require.NoError(t, svc.ForgotPassword(testCtx, "ana@example.com"))
	assert.NotEmpty(t, mailer.link)
}

func TestResetPasswordBadToken(t *testing.T) {
	svc, _, _ := buildAuthService(t)

	err := svc.ResetPassword(testCtx, "no-existe", "loquesea123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)
}

func TestStaffLifecycle(t *testing.T) {
	svc, _, career := buildAuthService(t)

	user, err := svc.CreateStaff(testCtx, "becario1", "clave12345")
	require.NoError(t, err)
	assert.Equal(t, model.RoleStaff, user.Role)

	_, err = svc.CreateStaff(testCtx, "becario1", "clave12345")
	assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)

	staff, pagination, err := svc.ListStaff(testCtx, 1, 20)
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.EqualValues(t, 1, pagination.Total)

	// a student account cannot be deleted through the staff path
	student, _, err := svc.RegisterStudent(testCtx, registerInput(career))
	require.NoError(t, err)
	err = svc.DeleteStaff(testCtx, student.UserID)
	assert.ErrorIs(t, err, apperrors.ErrNotStaff)

	require.NoError(t, svc.DeleteStaff(testCtx, user.ID))
	err = svc.DeleteStaff(testCtx, user.ID)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestAdminResetUserPassword(t *testing.T) {
	svc, _, career := buildAuthService(t)

	_, _, err := svc.RegisterStudent(testCtx, registerInput(career))
	require.NoError(t, err)
	result, err := svc.Login(testCtx, "alumno1", "secreta123")
	require.NoError(t, err)

	require.NoError(t, svc.ResetUserPassword(testCtx, result.User.ID, "porelladmin1"))
	_, err = svc.Login(testCtx, "alumno1", "porelladmin1")
	assert.NoError(t, err)

	err = svc.ResetUserPassword(testCtx, 9999, "cualquiera123")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
