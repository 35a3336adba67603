package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Oggm2/registroServicio/internal/auth"
	"github.com/Oggm2/registroServicio/internal/errors"
	"github.com/Oggm2/registroServicio/internal/model"
	"github.com/Oggm2/registroServicio/internal/repository"
)

// resetTokenExpiry bounds how long a password reset link stays valid.
const resetTokenExpiry = time.Hour

// RegisterStudentInput carries everything needed to open a student account.
type RegisterStudentInput struct {
	Username  string
	Password  string
	FullName  string
	Matricula string
	CareerID  uint
	Phone     string
	AltEmail  string
}

// LoginResult is the token plus the profile the frontend caches.
type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"usuario"`
}

// AuthService handles credentials: login, student registration, password
// lifecycle and staff account management.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	RegisterStudent(ctx context.Context, input RegisterStudentInput) (*model.Student, string, error)
	ChangePassword(ctx context.Context, userID uint, current, next string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, next string) error
	ResetUserPassword(ctx context.Context, userID uint, next string) error
	ListStaff(ctx context.Context, page, perPage int) ([]model.User, *repository.Pagination, error)
	CreateStaff(ctx context.Context, username, password string) (*model.User, error)
	DeleteStaff(ctx context.Context, userID uint) error
}

type authService struct {
	userRepo    repository.UserRepository
	studentRepo repository.StudentRepository
	careerRepo  repository.CareerRepository
	tokenRepo   repository.ResetTokenRepository
	jwtService  *auth.JWTService
	mailer      Mailer
	frontendURL string
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo repository.UserRepository,
	studentRepo repository.StudentRepository,
	careerRepo repository.CareerRepository,
	tokenRepo repository.ResetTokenRepository,
	jwtService *auth.JWTService,
	mailer Mailer,
	frontendURL string,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		studentRepo: studentRepo,
		careerRepo:  careerRepo,
		tokenRepo:   tokenRepo,
		jwtService:  jwtService,
		mailer:      mailer,
		frontendURL: frontendURL,
	}
}

// Login verifies credentials and issues an access token. Unknown user and
// wrong password return the same error.
func (s *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, errors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, User: user}, nil
}

// RegisterStudent opens a credential and a profile atomically after checking
// username, matrícula and alternate email uniqueness, and logs the new
// student straight in.
func (s *authService) RegisterStudent(ctx context.Context, input RegisterStudentInput) (*model.Student, string, error) {
	student, err := createStudentAccount(ctx, s.userRepo, s.studentRepo, s.careerRepo, input)
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwtService.GenerateToken(student.UserID, input.Username, model.RoleStudent)
	if err != nil {
		return nil, "", err
	}
	return student, token, nil
}

// ChangePassword rotates the caller's own password after verifying the
// current one.
func (s *authService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrUserNotFound
		}
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return errors.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, userID, string(hash))
}

// ForgotPassword issues a reset token for the account behind the alternate
// email. It always reports success so the endpoint cannot be used to probe
// which emails exist; mailer failures are logged, not surfaced.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	student, err := s.studentRepo.FindByAltEmail(ctx, email, 0)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}

	token := &model.PasswordResetToken{
		UserID:    student.UserID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(resetTokenExpiry),
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, token.Token)
	if err := s.mailer.SendPasswordReset(email, student.FullName, link); err != nil {
		log.Printf("send password reset mail: %v", err)
	}
	return nil
}

// ResetPassword consumes a reset token. Tokens are single use and expire
// after resetTokenExpiry.
func (s *authService) ResetPassword(ctx context.Context, token, next string) error {
	row, err := s.tokenRepo.FindUnused(ctx, token)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrInvalidResetToken
		}
		return err
	}
	if time.Now().After(row.ExpiresAt) {
		return errors.ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, row.UserID, string(hash)); err != nil {
		return err
	}
	return s.tokenRepo.MarkUsed(ctx, row.ID)
}

// ResetUserPassword lets an admin set a user's password directly.
func (s *authService) ResetUserPassword(ctx context.Context, userID uint, next string) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrUserNotFound
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, userID, string(hash))
}

func (s *authService) ListStaff(ctx context.Context, page, perPage int) ([]model.User, *repository.Pagination, error) {
	return s.userRepo.ListByRole(ctx, model.RoleStaff, page, perPage)
}

// CreateStaff opens a staff (Becario) account.
func (s *authService) CreateStaff(ctx context.Context, username, password string) (*model.User, error) {
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, errors.ErrUsernameTaken
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         model.RoleStaff,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteStaff removes a staff account. Refuses accounts holding any other
// role so admin and student credentials cannot be deleted through it.
func (s *authService) DeleteStaff(ctx context.Context, userID uint) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrUserNotFound
		}
		return err
	}
	if user.Role != model.RoleStaff {
		return errors.ErrNotStaff
	}
	return s.userRepo.Delete(ctx, userID)
}
