package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/userhub/userhub/internal/models"
	"github.com/userhub/userhub/internal/utils"
	"github.com/userhub/userhub/pkg/logger"
	"gorm.io/gorm"
)

// Sentinel failures of the user lifecycle flows. Handlers translate them;
// anything else coming out of UserService is a storage failure.
var (
	ErrEmailTaken    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already taken")
	ErrUserNotFound  = errors.New("user not found")
	ErrWrongPassword = errors.New("current password is incorrect")
)

// UserService owns registration, profile maintenance and the side-channel
// proof flows (email confirmation, password reset). Proof emails are
// handed to the task queue so requests never wait on SMTP.
type UserService struct {
	db    *gorm.DB
	creds CredentialStore
	audit *AuditService
	queue TaskQueue
}

func NewUserService(db *gorm.DB, queue TaskQueue) *UserService {
	return &UserService{
		db:    db,
		creds: NewGormCredentialStore(db),
		audit: NewAuditService(db),
		queue: queue,
	}
}

type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=100"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
}

// Register creates an account with the default customer role and queues a
// confirmation mail. The email starts unconfirmed; login is gated on it.
func (s *UserService) Register(req *RegisterRequest) (*models.User, error) {
	if existing, err := s.creds.FindByEmail(req.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailTaken
	}
	if existing, err := s.creds.FindByUsername(req.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrUsernameTaken
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:          uuid.New(),
		Username:    req.Username,
		Email:       req.Email,
		Password:    hashed,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		IsActive:    true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		var role models.Role
		if err := tx.Where("name = ?", "customer").First(&role).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				role = models.Role{Name: "customer"}
				if err := tx.Create(&role).Error; err != nil {
					return err
				}
			} else {
				return err
			}
		}
		return tx.Model(&user).Association("Roles").Append(&role)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(models.AuditUserRegistered, AuditEntry{UserID: &user.ID, Username: user.Username})

	if _, err := s.SendConfirmationEmail(user.Email); err != nil {
		// The account exists; the user can request another mail.
		return &user, nil
	}
	return &user, nil
}

// ProofIssued reports a generated proof token. The plaintext proof is kept
// service-internal: handlers answer with a uniform message and the proof
// reaches the user only through the mail channel.
type ProofIssued struct {
	UserID uuid.UUID
	Proof  string
}

// SendConfirmationEmail issues a fresh email-confirmation proof for the
// account behind the address. Returns (nil, nil) when no account matches.
func (s *UserService) SendConfirmationEmail(email string) (*ProofIssued, error) {
	user, err := s.creds.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	proof, err := s.creds.GenerateEmailConfirmationProof(user.ID)
	if err != nil {
		return nil, err
	}

	s.enqueueMail(user.Email, "Confirm your email",
		fmt.Sprintf("Hello %s,\n\nUse this code to confirm your email address: %s\n\nThe code expires in 24 hours.", user.Username, proof))

	return &ProofIssued{UserID: user.ID, Proof: proof}, nil
}

// ConfirmEmail consumes a confirmation proof. A consumed or expired proof
// returns false without touching the account.
func (s *UserService) ConfirmEmail(userID uuid.UUID, proof string) (bool, error) {
	ok, err := s.creds.ConfirmEmail(userID, proof)
	if err != nil {
		return false, err
	}
	if ok {
		s.audit.Record(models.AuditEmailConfirmed, AuditEntry{UserID: &userID})
	}
	return ok, nil
}

// ForgotPassword issues a reset proof for the account behind the address.
// Returns (nil, nil) when no account matches; the handler answers
// identically either way so the endpoint cannot be used to enumerate
// accounts.
func (s *UserService) ForgotPassword(email string) (*ProofIssued, error) {
	user, err := s.creds.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	proof, err := s.creds.GeneratePasswordResetProof(user.ID)
	if err != nil {
		return nil, err
	}

	s.enqueueMail(user.Email, "Reset your password",
		fmt.Sprintf("Hello %s,\n\nUse this code to reset your password: %s\n\nThe code expires in 2 hours. If you did not request a reset, ignore this mail.", user.Username, proof))

	return &ProofIssued{UserID: user.ID, Proof: proof}, nil
}

// ResetPassword consumes a reset proof and installs the new password. All
// refresh tokens of the user are revoked as part of the consumption.
func (s *UserService) ResetPassword(userID uuid.UUID, proof, newPassword string) (bool, error) {
	user, err := s.creds.FindByID(userID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}

	ok, err := s.creds.ConsumePasswordResetProof(userID, proof, newPassword)
	if err != nil {
		return false, err
	}
	if ok {
		s.audit.Record(models.AuditPasswordReset, AuditEntry{UserID: &userID, Username: user.Username})
	}
	return ok, nil
}

// ChangePassword verifies the current password before installing the new
// one.
func (s *UserService) ChangePassword(userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.creds.FindByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if !s.creds.CheckPassword(user, currentPassword) {
		return ErrWrongPassword
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("password", hashed).Error; err != nil {
		return err
	}

	s.audit.Record(models.AuditPasswordChanged, AuditEntry{UserID: &userID, Username: user.Username})
	return nil
}

// Profile is the user-facing view of an account.
type Profile struct {
	UserID          uuid.UUID  `json:"user_id"`
	Username        string     `json:"username"`
	Email           string     `json:"email"`
	FullName        string     `json:"full_name"`
	PhoneNumber     string     `json:"phone_number"`
	ProfilePhotoURL string     `json:"profile_photo_url"`
	EmailConfirmed  bool       `json:"email_confirmed"`
	LastLoginAt     *time.Time `json:"last_login_at"`
}

func (s *UserService) GetProfile(userID uuid.UUID) (*Profile, error) {
	user, err := s.creds.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return &Profile{
		UserID:          user.ID,
		Username:        user.Username,
		Email:           user.Email,
		FullName:        user.FullName,
		PhoneNumber:     user.PhoneNumber,
		ProfilePhotoURL: user.ProfilePhotoURL,
		EmailConfirmed:  user.EmailConfirmed,
		LastLoginAt:     user.LastLoginAt,
	}, nil
}

type UpdateProfileRequest struct {
	FullName        string `json:"full_name"`
	PhoneNumber     string `json:"phone_number"`
	ProfilePhotoURL string `json:"profile_photo_url"`
}

func (s *UserService) UpdateProfile(userID uuid.UUID, req *UpdateProfileRequest) error {
	user, err := s.creds.FindByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	return s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"full_name":         req.FullName,
			"phone_number":      req.PhoneNumber,
			"profile_photo_url": req.ProfilePhotoURL,
		}).Error
}

// Exists reports whether an account with the given id exists.
func (s *UserService) Exists(userID uuid.UUID) (bool, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *UserService) enqueueMail(to, subject, body string) {
	if s.queue == nil {
		return
	}
	if err := s.queue.Enqueue(&EmailTask{To: to, Subject: subject, Body: body}); err != nil {
		// Delivery failures must not break the account flow.
		logger.Error().Err(err).Str("subject", subject).Msg("failed to enqueue mail")
	}
}
