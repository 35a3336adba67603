package errors

import (
	"errors"
	"net/http"
)

// Domain sentinels. Messages are the user-facing Spanish strings the
// frontend renders; services may wrap them with extra detail (the
// conflicting period, the live enrollment count) via fmt.Errorf and %w.
var (
	// Not found.
	ErrStudentNotFound    = errors.New("estudiante no encontrado")
	ErrServiceNotFound    = errors.New("servicio no encontrado")
	ErrEnrollmentNotFound = errors.New("pre-registro no encontrado")
	ErrAttendanceNotFound = errors.New("registro de asistencia no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrPartnerNotFound    = errors.New("socio formador no encontrado")
	ErrCareerNotFound     = errors.New("carrera no encontrada")

	// Conflicts (business rules and uniqueness).
	ErrQuotaExceeded         = errors.New("el servicio ha alcanzado su cupo máximo")
	ErrDuplicateEnrollment   = errors.New("el estudiante ya está inscrito en este servicio")
	ErrPeriodConflict        = errors.New("el estudiante ya tiene un servicio inscrito en el periodo")
	ErrCRNTaken              = errors.New("el CRN ya existe")
	ErrUsernameTaken         = errors.New("el nombre de usuario ya existe")
	ErrMatriculaTaken        = errors.New("la matrícula ya está registrada")
	ErrEmailTaken            = errors.New("el correo alterno ya está registrado")
	ErrPartnerNameTaken      = errors.New("ya existe un socio formador con ese nombre")
	ErrCapacityBelowEnrolled = errors.New("no se puede reducir el cupo por debajo de los inscritos")
	ErrAttendanceExists      = errors.New("ya tienes un registro de asistencia")
	ErrPartnerHasServices    = errors.New("no se puede eliminar: tiene servicios asociados")

	// Auth.
	ErrInvalidCredentials = errors.New("credenciales incorrectas")
	ErrForbidden          = errors.New("no tienes permisos para esta acción")
	ErrInvalidResetToken  = errors.New("token inválido o expirado")

	// Bad input that survives DTO validation.
	ErrInvalidStatus   = errors.New("estatus inválido")
	ErrInvalidCapacity = errors.New("cupo inválido")
	ErrNotStaff        = errors.New("el usuario no es un becario")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

var statusByErr = []struct {
	target error
	status int
	code   string
}{
	{ErrStudentNotFound, http.StatusNotFound, "STUDENT_NOT_FOUND"},
	{ErrServiceNotFound, http.StatusNotFound, "SERVICE_NOT_FOUND"},
	{ErrEnrollmentNotFound, http.StatusNotFound, "ENROLLMENT_NOT_FOUND"},
	{ErrAttendanceNotFound, http.StatusNotFound, "ATTENDANCE_NOT_FOUND"},
	{ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	{ErrPartnerNotFound, http.StatusNotFound, "PARTNER_NOT_FOUND"},
	{ErrCareerNotFound, http.StatusNotFound, "CAREER_NOT_FOUND"},

	{ErrQuotaExceeded, http.StatusConflict, "QUOTA_EXCEEDED"},
	{ErrDuplicateEnrollment, http.StatusConflict, "DUPLICATE_ENROLLMENT"},
	{ErrPeriodConflict, http.StatusConflict, "PERIOD_CONFLICT"},
	{ErrCRNTaken, http.StatusConflict, "CRN_TAKEN"},
	{ErrUsernameTaken, http.StatusConflict, "USERNAME_TAKEN"},
	{ErrMatriculaTaken, http.StatusConflict, "MATRICULA_TAKEN"},
	{ErrEmailTaken, http.StatusConflict, "EMAIL_TAKEN"},
	{ErrPartnerNameTaken, http.StatusConflict, "PARTNER_NAME_TAKEN"},
	{ErrCapacityBelowEnrolled, http.StatusConflict, "CAPACITY_BELOW_ENROLLED"},
	{ErrAttendanceExists, http.StatusConflict, "ATTENDANCE_EXISTS"},
	{ErrPartnerHasServices, http.StatusConflict, "PARTNER_HAS_SERVICES"},

	{ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{ErrInvalidResetToken, http.StatusBadRequest, "INVALID_RESET_TOKEN"},
	{ErrInvalidStatus, http.StatusBadRequest, "INVALID_STATUS"},
	{ErrInvalidCapacity, http.StatusBadRequest, "INVALID_CAPACITY"},
	{ErrNotStaff, http.StatusBadRequest, "NOT_STAFF"},
}

// MapErrorToHTTP maps domain errors to HTTP errors. Matching uses errors.Is
// so wrapped sentinels keep their status while the message carries the
// wrapped detail.
func MapErrorToHTTP(err error) *HTTPError {
	for _, m := range statusByErr {
		if errors.Is(err, m.target) {
			return NewHTTPError(m.status, err.Error(), m.code)
		}
	}
	return NewHTTPError(http.StatusInternalServerError, "error interno del servidor", "INTERNAL_ERROR")
}
