package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Oggm2/registroServicio/internal/errors"
	"github.com/Oggm2/registroServicio/internal/model"
	"github.com/Oggm2/registroServicio/internal/repository"
)

// searchLimit caps quick-search results for the staff check-in desk.
const searchLimit = 20

// StudentSearchResult is a quick-search hit with enrollment and attendance
// context for the check-in desk.
type StudentSearchResult struct {
	Student     model.Student                     `json:"estudiante"`
	Enrollments []repository.StudentEnrollmentRow `json:"preregistros"`
	Attendance  *model.AttendanceRecord           `json:"asistencia"`
}

// UpdateProfileInput carries the fields a student may edit on their profile.
type UpdateProfileInput struct {
	Phone    *string
	AltEmail *string
}

// CreateStudentInput is the admin-side variant of student registration.
type CreateStudentInput = RegisterStudentInput

// StudentService handles student profiles and the staff-facing directory.
type StudentService interface {
	Profile(ctx context.Context, userID uint) (*model.Student, error)
	UpdateProfile(ctx context.Context, userID uint, input UpdateProfileInput) (*model.Student, error)
	MyEnrollments(ctx context.Context, userID uint, period string) ([]repository.StudentEnrollmentRow, error)
	Search(ctx context.Context, q string) ([]StudentSearchResult, error)
	ListStudents(ctx context.Context, q string, page, perPage int) ([]repository.StudentAdminRow, *repository.Pagination, error)
	CreateStudent(ctx context.Context, input CreateStudentInput) (*model.Student, error)
	DeleteStudent(ctx context.Context, studentID uint) error
	ListCareers(ctx context.Context) ([]model.Career, error)
}

type studentService struct {
	studentRepo    repository.StudentRepository
	userRepo       repository.UserRepository
	careerRepo     repository.CareerRepository
	enrollmentRepo repository.EnrollmentRepository
	attendanceRepo repository.AttendanceRepository
}

// NewStudentService creates a new student service.
func NewStudentService(
	studentRepo repository.StudentRepository,
	userRepo repository.UserRepository,
	careerRepo repository.CareerRepository,
	enrollmentRepo repository.EnrollmentRepository,
	attendanceRepo repository.AttendanceRepository,
) StudentService {
	return &studentService{
		studentRepo:    studentRepo,
		userRepo:       userRepo,
		careerRepo:     careerRepo,
		enrollmentRepo: enrollmentRepo,
		attendanceRepo: attendanceRepo,
	}
}

func (s *studentService) Profile(ctx context.Context, userID uint) (*model.Student, error) {
	student, err := s.studentRepo.FindByUserID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

// UpdateProfile edits the student-owned fields. Only phone and alternate
// email are editable; name, matrícula and career stay admin-managed.
func (s *studentService) UpdateProfile(ctx context.Context, userID uint, input UpdateProfileInput) (*model.Student, error) {
	student, err := s.studentRepo.FindByUserID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrStudentNotFound
		}
		return nil, err
	}

	if input.AltEmail != nil {
		if *input.AltEmail == "" {
			student.AltEmail = nil
		} else {
			if _, err := s.studentRepo.FindByAltEmail(ctx, *input.AltEmail, student.ID); err == nil {
				return nil, errors.ErrEmailTaken
			} else if err != gorm.ErrRecordNotFound {
				return nil, err
			}
			student.AltEmail = input.AltEmail
		}
	}
	if input.Phone != nil {
		student.Phone = *input.Phone
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

func (s *studentService) MyEnrollments(ctx context.Context, userID uint, period string) ([]repository.StudentEnrollmentRow, error) {
	student, err := s.studentRepo.FindByUserID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrStudentNotFound
		}
		return nil, err
	}
	return s.enrollmentRepo.ListByStudent(ctx, student.ID, period)
}

// Search finds students by matrícula or name and embeds their enrollments
// and attendance record, so the check-in desk resolves everything in one
// request.
func (s *studentService) Search(ctx context.Context, q string) ([]StudentSearchResult, error) {
	students, err := s.studentRepo.Search(ctx, q, searchLimit)
	if err != nil {
		return nil, err
	}

	results := make([]StudentSearchResult, 0, len(students))
	for _, student := range students {
		enrollments, err := s.enrollmentRepo.ListByStudent(ctx, student.ID, "")
		if err != nil {
			return nil, err
		}
		record, err := s.attendanceRepo.FindByStudent(ctx, student.ID)
		if err != nil && err != gorm.ErrRecordNotFound {
			return nil, err
		}
		results = append(results, StudentSearchResult{
			Student:     student,
			Enrollments: enrollments,
			Attendance:  record,
		})
	}
	return results, nil
}

func (s *studentService) ListStudents(ctx context.Context, q string, page, perPage int) ([]repository.StudentAdminRow, *repository.Pagination, error) {
	return s.studentRepo.ListPaged(ctx, q, page, perPage)
}

// CreateStudent is the admin path for opening a student account. Same checks
// as self-registration.
func (s *studentService) CreateStudent(ctx context.Context, input CreateStudentInput) (*model.Student, error) {
	return createStudentAccount(ctx, s.userRepo, s.studentRepo, s.careerRepo, input)
}

// createStudentAccount runs the uniqueness checks and creates the credential
// plus profile. Shared by self-registration and the admin path.
func createStudentAccount(
	ctx context.Context,
	userRepo repository.UserRepository,
	studentRepo repository.StudentRepository,
	careerRepo repository.CareerRepository,
	input RegisterStudentInput,
) (*model.Student, error) {
	if _, err := userRepo.FindByUsername(ctx, input.Username); err == nil {
		return nil, errors.ErrUsernameTaken
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	if _, err := studentRepo.FindByMatricula(ctx, input.Matricula); err == nil {
		return nil, errors.ErrMatriculaTaken
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	if input.AltEmail != "" {
		if _, err := studentRepo.FindByAltEmail(ctx, input.AltEmail, 0); err == nil {
			return nil, errors.ErrEmailTaken
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}

	if _, err := careerRepo.FindByID(ctx, input.CareerID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrCareerNotFound
		}
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     input.Username,
		PasswordHash: string(hash),
		Role:         model.RoleStudent,
	}
	student := &model.Student{
		FullName:  input.FullName,
		Matricula: input.Matricula,
		CareerID:  input.CareerID,
		Phone:     input.Phone,
	}
	if input.AltEmail != "" {
		student.AltEmail = &input.AltEmail
	}

	if err := studentRepo.CreateWithUser(ctx, user, student); err != nil {
		return nil, err
	}
	return student, nil
}

// DeleteStudent removes the student, their enrollments, attendance and
// credential.
func (s *studentService) DeleteStudent(ctx context.Context, studentID uint) error {
	if _, err := s.studentRepo.FindByID(ctx, studentID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrStudentNotFound
		}
		return err
	}
	return s.studentRepo.DeleteCascade(ctx, studentID)
}

func (s *studentService) ListCareers(ctx context.Context) ([]model.Career, error) {
	return s.careerRepo.List(ctx)
}
