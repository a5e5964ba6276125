package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/userhub/userhub/internal/models"
	"gorm.io/gorm"
)

// RefreshTokenService persists and rotates refresh tokens. The plaintext
// value exists only in the response that carries it to the client; storage
// holds a SHA-256 hash, unique-indexed for point lookup.
type RefreshTokenService struct {
	db       *gorm.DB
	validity time.Duration
}

func NewRefreshTokenService(db *gorm.DB, validityDays int) *RefreshTokenService {
	if validityDays <= 0 {
		validityDays = 7
	}
	return &RefreshTokenService{
		db:       db,
		validity: time.Duration(validityDays) * 24 * time.Hour,
	}
}

// IssueAndRotate creates a fresh token for (user, client, device) and, in
// the same transaction, revokes every token still active for that tuple.
// The transactional revoke-then-insert keeps the invariant of at most one
// active token per tuple even under concurrent calls. replaced, when non
// nil, is the token being exchanged; it is revoked by id as well, which
// covers a refresh presented from a device whose fingerprint has changed.
func (s *RefreshTokenService) IssueAndRotate(userID uuid.UUID, clientID, device, ip string, replaced *models.RefreshToken) (string, *models.RefreshToken, error) {
	value, hash, err := generateOpaqueToken()
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	record := models.RefreshToken{
		UserID:      userID,
		ClientID:    clientID,
		Device:      device,
		TokenHash:   hash,
		ExpiresAt:   now.Add(s.validity),
		CreatedByIP: ip,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.RefreshToken{}).
			Where("user_id = ? AND client_id = ? AND device = ? AND revoked_at IS NULL AND expires_at > ?",
				userID, clientID, device, now).
			Updates(map[string]interface{}{
				"revoked_at":    now,
				"revoked_by_ip": ip,
			}).Error; err != nil {
			return err
		}

		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		if replaced != nil {
			if err := tx.Model(&models.RefreshToken{}).
				Where("id = ?", replaced.ID).
				Updates(map[string]interface{}{
					"revoked_at":           now,
					"revoked_by_ip":        ip,
					"replaced_by_token_id": record.ID,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", nil, err
	}

	return value, &record, nil
}

// Lookup resolves a presented token value to its stored row, or (nil, nil)
// when unknown. The caller decides what an inactive row means.
func (s *RefreshTokenService) Lookup(value string) (*models.RefreshToken, error) {
	var stored models.RefreshToken
	err := s.db.Where("token_hash = ?", hashOpaqueToken(value)).First(&stored).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stored, nil
}

// Revoke marks an active token revoked and records the revoking IP. It is
// idempotent: unknown, expired and already-revoked tokens return false
// without touching anything.
func (s *RefreshTokenService) Revoke(value, ip string) (bool, error) {
	now := time.Now()
	result := s.db.Model(&models.RefreshToken{}).
		Where("token_hash = ? AND revoked_at IS NULL AND expires_at > ?", hashOpaqueToken(value), now).
		Updates(map[string]interface{}{
			"revoked_at":    now,
			"revoked_by_ip": ip,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// PurgeExpired deletes rows whose audit value has lapsed: expired or
// revoked longer ago than the retention period. Active rows are never
// touched.
func (s *RefreshTokenService) PurgeExpired(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result := s.db.
		Where("expires_at < ? OR (revoked_at IS NOT NULL AND revoked_at < ?)", cutoff, cutoff).
		Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}

// generateOpaqueToken returns an unguessable token value and the hash that
// goes to storage. 32 bytes from crypto/rand, hex-encoded.
func generateOpaqueToken() (value string, hash string, err error) {
	randomBytes := make([]byte, 32)
	if _, err = rand.Read(randomBytes); err != nil {
		return "", "", err
	}
	value = hex.EncodeToString(randomBytes)
	return value, hashOpaqueToken(value), nil
}

func hashOpaqueToken(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
