package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/userhub/userhub/internal/models"
	"github.com/userhub/userhub/internal/utils"
	"gorm.io/gorm"
)

// Proof token lifetimes. Reset proofs are short-lived because they grant a
// password change without knowing the old one.
const (
	emailProofTTL = 24 * time.Hour
	resetProofTTL = 2 * time.Hour
)

// CredentialStore is the abstract capability set the session orchestrator
// needs from the identity storage: user resolution, password verification,
// lockout bookkeeping and side-channel proof tokens. Lookups return
// (nil, nil) when no record matches; errors are infrastructure failures.
type CredentialStore interface {
	FindByEmail(email string) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	FindByID(id uuid.UUID) (*models.User, error)
	CheckPassword(user *models.User, password string) bool
	IncrementFailedCount(userID uuid.UUID) (int, error)
	ResetFailedCount(userID uuid.UUID) error
	SetLockoutEnd(userID uuid.UUID, until time.Time) error
	IsTwoFactorEnabled(user *models.User) bool
	UpdateLastLogin(userID uuid.UUID, at time.Time) error
	Roles(user *models.User) ([]string, error)
	GenerateEmailConfirmationProof(userID uuid.UUID) (string, error)
	ConfirmEmail(userID uuid.UUID, proof string) (bool, error)
	GeneratePasswordResetProof(userID uuid.UUID) (string, error)
	ConsumePasswordResetProof(userID uuid.UUID, proof, newPassword string) (bool, error)
}

// GormCredentialStore is the production CredentialStore backed by the
// relational store. Counter mutations are single UPDATE statements so
// concurrent login attempts cannot under-count failures.
type GormCredentialStore struct {
	db *gorm.DB
}

func NewGormCredentialStore(db *gorm.DB) *GormCredentialStore {
	return &GormCredentialStore{db: db}
}

func (s *GormCredentialStore) FindByEmail(email string) (*models.User, error) {
	return s.findOne("email = ?", email)
}

func (s *GormCredentialStore) FindByUsername(username string) (*models.User, error) {
	return s.findOne("username = ?", username)
}

func (s *GormCredentialStore) FindByID(id uuid.UUID) (*models.User, error) {
	return s.findOne("id = ?", id)
}

func (s *GormCredentialStore) findOne(query string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := s.db.Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormCredentialStore) CheckPassword(user *models.User, password string) bool {
	return utils.CheckPassword(password, user.Password)
}

// IncrementFailedCount bumps the counter atomically and returns the fresh
// value read back from the row.
func (s *GormCredentialStore) IncrementFailedCount(userID uuid.UUID) (int, error) {
	if err := s.db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("access_failed_count", gorm.Expr("access_failed_count + 1")).Error; err != nil {
		return 0, err
	}

	var user models.User
	if err := s.db.Select("access_failed_count").First(&user, "id = ?", userID).Error; err != nil {
		return 0, err
	}
	return user.AccessFailedCount, nil
}

// ResetFailedCount zeroes the counter and clears any recorded lockout end.
func (s *GormCredentialStore) ResetFailedCount(userID uuid.UUID) error {
	return s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"access_failed_count": 0,
			"lockout_end":         nil,
		}).Error
}

func (s *GormCredentialStore) SetLockoutEnd(userID uuid.UUID, until time.Time) error {
	return s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("lockout_end", until).Error
}

func (s *GormCredentialStore) IsTwoFactorEnabled(user *models.User) bool {
	return user.TwoFactorEnabled
}

func (s *GormCredentialStore) UpdateLastLogin(userID uuid.UUID, at time.Time) error {
	return s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_login_at", at).Error
}

func (s *GormCredentialStore) Roles(user *models.User) ([]string, error) {
	var names []string
	err := s.db.Model(&models.Role{}).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", user.ID).
		Pluck("roles.name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (s *GormCredentialStore) GenerateEmailConfirmationProof(userID uuid.UUID) (string, error) {
	return s.generateProof(userID, models.ProofPurposeEmailConfirm, emailProofTTL)
}

func (s *GormCredentialStore) GeneratePasswordResetProof(userID uuid.UUID) (string, error) {
	return s.generateProof(userID, models.ProofPurposePasswordReset, resetProofTTL)
}

func (s *GormCredentialStore) generateProof(userID uuid.UUID, purpose string, ttl time.Duration) (string, error) {
	value, hash, err := generateOpaqueToken()
	if err != nil {
		return "", err
	}

	record := models.ProofToken{
		UserID:    userID,
		Purpose:   purpose,
		TokenHash: hash,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := s.db.Create(&record).Error; err != nil {
		return "", err
	}
	return value, nil
}

// ConfirmEmail consumes an email-confirmation proof. Consumption is a
// guarded UPDATE: a proof that was already consumed, expired, or never
// issued flips zero rows and the confirmation does not double-apply.
func (s *GormCredentialStore) ConfirmEmail(userID uuid.UUID, proof string) (bool, error) {
	ok := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		consumed, err := consumeProof(tx, userID, models.ProofPurposeEmailConfirm, proof)
		if err != nil || !consumed {
			return err
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("email_confirmed", true).Error; err != nil {
			return err
		}
		ok = true
		return nil
	})
	return ok, err
}

// ConsumePasswordResetProof consumes a reset proof, installs the new
// password hash and revokes every outstanding refresh token for the user.
// A stolen reset link must not leave stolen sessions alive.
func (s *GormCredentialStore) ConsumePasswordResetProof(userID uuid.UUID, proof, newPassword string) (bool, error) {
	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return false, err
	}

	ok := false
	err = s.db.Transaction(func(tx *gorm.DB) error {
		consumed, err := consumeProof(tx, userID, models.ProofPurposePasswordReset, proof)
		if err != nil || !consumed {
			return err
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("password", hashed).Error; err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&models.RefreshToken{}).
			Where("user_id = ? AND revoked_at IS NULL", userID).
			Update("revoked_at", now).Error; err != nil {
			return err
		}
		ok = true
		return nil
	})
	return ok, err
}

func consumeProof(tx *gorm.DB, userID uuid.UUID, purpose, proof string) (bool, error) {
	now := time.Now()
	result := tx.Model(&models.ProofToken{}).
		Where("user_id = ? AND purpose = ? AND token_hash = ? AND consumed_at IS NULL AND expires_at > ?",
			userID, purpose, hashOpaqueToken(proof), now).
		Update("consumed_at", now)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
