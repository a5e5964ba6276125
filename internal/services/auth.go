package services

import (
	"strings"
	"time"

	"github.com/userhub/userhub/internal/config"
	"github.com/userhub/userhub/internal/models"
	"github.com/userhub/userhub/internal/utils"
	"gorm.io/gorm"
)

// LoginStatus is the terminal state of a login or refresh attempt. Domain
// failures are values, not errors; a non-nil error from AuthService means
// the storage layer failed and the caller should answer with a 5xx.
type LoginStatus string

const (
	StatusAuthenticated      LoginStatus = "authenticated"
	StatusRequiresTwoFactor  LoginStatus = "requires_two_factor"
	StatusInvalidClient      LoginStatus = "invalid_client"
	StatusInvalidCredentials LoginStatus = "invalid_credentials"
	StatusLockedOut          LoginStatus = "locked_out"
	StatusEmailNotConfirmed  LoginStatus = "email_not_confirmed"
	StatusInvalidToken       LoginStatus = "invalid_token"
	StatusUserNotFound       LoginStatus = "user_not_found"
)

// Identical wording for unknown user and wrong password, so responses do
// not reveal which accounts exist.
const msgInvalidCredentials = "invalid username or password"

type LoginRequest struct {
	ClientID        string `json:"client_id" binding:"required"`
	EmailOrUsername string `json:"email_or_username" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	ClientID     string `json:"client_id" binding:"required"`
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type RevokeRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LoginResult is returned by Login and Refresh. RemainingAttempts is set
// only when the outcome is derived from a password mismatch or an active
// lockout.
type LoginResult struct {
	Status            LoginStatus `json:"status"`
	Message           string      `json:"message,omitempty"`
	RemainingAttempts *int        `json:"remaining_attempts,omitempty"`
	AccessToken       string      `json:"access_token,omitempty"`
	AccessExpiresAt   time.Time   `json:"access_expires_at,omitempty"`
	RefreshToken      string      `json:"refresh_token,omitempty"`
	RefreshExpiresAt  time.Time   `json:"refresh_expires_at,omitempty"`
}

func (r *LoginResult) Succeeded() bool {
	return r.Status == StatusAuthenticated || r.Status == StatusRequiresTwoFactor
}

// AuthService is the session orchestrator: it composes the client registry,
// credential store, lockout policy, token issuer and refresh token store
// into the login, refresh and revoke flows.
type AuthService struct {
	creds   CredentialStore
	clients *ClientService
	refresh *RefreshTokenService
	audit   *AuditService
	lockout LockoutPolicy
	jwtCfg  *config.JWTConfig
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	lockout := DefaultLockoutPolicy()
	if cfg.Lockout.MaxFailedAttempts > 0 {
		lockout.MaxAttempts = cfg.Lockout.MaxFailedAttempts
	}
	if cfg.Lockout.WindowMinutes > 0 {
		lockout.Window = time.Duration(cfg.Lockout.WindowMinutes) * time.Minute
	}

	return &AuthService{
		creds:   NewGormCredentialStore(db),
		clients: NewClientService(db),
		refresh: NewRefreshTokenService(db, cfg.JWT.RefreshTokenDays),
		audit:   NewAuditService(db),
		lockout: lockout,
		jwtCfg:  &cfg.JWT,
	}
}

// Lockout exposes the active policy, mainly for handlers and tests.
func (s *AuthService) Lockout() LockoutPolicy { return s.lockout }

// Login walks the authentication state machine. Each gate either stops
// with a terminal status or lets the next one run; side effects happen
// only on the path actually taken.
func (s *AuthService) Login(req *LoginRequest, ip, device string) (*LoginResult, error) {
	valid, err := s.clients.IsValidClient(req.ClientID)
	if err != nil {
		return nil, err
	}
	if !valid {
		return &LoginResult{Status: StatusInvalidClient, Message: "invalid client id"}, nil
	}

	user, err := s.resolveUser(req.EmailOrUsername)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		// Disabled accounts answer exactly like unknown ones.
		s.audit.Record(models.AuditLoginFailed, AuditEntry{
			Username: req.EmailOrUsername, ClientID: req.ClientID, Detail: "unknown or inactive account", IP: ip, Device: device,
		})
		return &LoginResult{Status: StatusInvalidCredentials, Message: msgInvalidCredentials}, nil
	}

	now := time.Now()
	if s.lockout.IsLockedOut(user.LockoutEnd, now) {
		zero := 0
		return &LoginResult{
			Status:            StatusLockedOut,
			Message:           "account is locked, try again after " + s.lockout.RemainingLockout(*user.LockoutEnd, now),
			RemainingAttempts: &zero,
		}, nil
	}
	if s.lockout.IsStale(user.LockoutEnd, now) {
		if err := s.creds.ResetFailedCount(user.ID); err != nil {
			return nil, err
		}
		user.AccessFailedCount = 0
		user.LockoutEnd = nil
	}

	if !user.EmailConfirmed {
		return &LoginResult{Status: StatusEmailNotConfirmed, Message: "email not confirmed, please verify your email"}, nil
	}

	if !s.creds.CheckPassword(user, req.Password) {
		return s.recordFailedPassword(user, req.ClientID, ip, device)
	}

	if err := s.creds.ResetFailedCount(user.ID); err != nil {
		return nil, err
	}

	if s.creds.IsTwoFactorEnabled(user) {
		return &LoginResult{Status: StatusRequiresTwoFactor, Message: "two-factor authentication required"}, nil
	}

	if err := s.creds.UpdateLastLogin(user.ID, time.Now()); err != nil {
		return nil, err
	}

	result, err := s.issueTokens(user, req.ClientID, ip, device, nil)
	if err != nil {
		return nil, err
	}

	s.audit.Record(models.AuditLoginSuccess, AuditEntry{
		UserID: &user.ID, Username: user.Username, ClientID: req.ClientID, IP: ip, Device: device,
	})
	return result, nil
}

// recordFailedPassword increments the counter, applies the lockout policy
// and shapes the failure result.
func (s *AuthService) recordFailedPassword(user *models.User, clientID, ip, device string) (*LoginResult, error) {
	count, err := s.creds.IncrementFailedCount(user.ID)
	if err != nil {
		return nil, err
	}

	entry := AuditEntry{UserID: &user.ID, Username: user.Username, ClientID: clientID, IP: ip, Device: device}

	if s.lockout.ShouldLock(count) {
		if err := s.creds.SetLockoutEnd(user.ID, s.lockout.NextLockoutEnd(time.Now())); err != nil {
			return nil, err
		}
		s.audit.Record(models.AuditLockout, entry)

		zero := 0
		return &LoginResult{
			Status:            StatusLockedOut,
			Message:           "account locked due to multiple failed login attempts",
			RemainingAttempts: &zero,
		}, nil
	}

	s.audit.Record(models.AuditLoginFailed, entry)

	remaining := s.lockout.RemainingAttempts(count)
	return &LoginResult{
		Status:            StatusInvalidCredentials,
		Message:           msgInvalidCredentials,
		RemainingAttempts: &remaining,
	}, nil
}

// Refresh exchanges an active refresh token for a fresh access/refresh
// pair, rotating the stored token in the process.
func (s *AuthService) Refresh(req *RefreshRequest, ip, device string) (*LoginResult, error) {
	valid, err := s.clients.IsValidClient(req.ClientID)
	if err != nil {
		return nil, err
	}
	if !valid {
		return &LoginResult{Status: StatusInvalidClient, Message: "invalid client id"}, nil
	}

	stored, err := s.refresh.Lookup(req.RefreshToken)
	if err != nil {
		return nil, err
	}
	if stored == nil || !stored.Active(time.Now()) {
		return &LoginResult{Status: StatusInvalidToken, Message: "invalid or expired refresh token"}, nil
	}

	user, err := s.creds.FindByID(stored.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return &LoginResult{Status: StatusUserNotFound, Message: "user not found"}, nil
	}
	if !user.IsActive {
		return &LoginResult{Status: StatusInvalidToken, Message: "invalid or expired refresh token"}, nil
	}

	result, err := s.issueTokens(user, req.ClientID, ip, device, stored)
	if err != nil {
		return nil, err
	}

	s.audit.Record(models.AuditTokenRefreshed, AuditEntry{
		UserID: &user.ID, Username: user.Username, ClientID: req.ClientID, IP: ip, Device: device,
	})
	return result, nil
}

// Revoke marks a refresh token revoked. Idempotent: revoking an unknown or
// already-revoked token reports false.
func (s *AuthService) Revoke(req *RevokeRequest, ip string) (bool, error) {
	revoked, err := s.refresh.Revoke(req.RefreshToken, ip)
	if err != nil {
		return false, err
	}
	if revoked {
		s.audit.Record(models.AuditTokenRevoked, AuditEntry{IP: ip})
	}
	return revoked, nil
}

func (s *AuthService) resolveUser(emailOrUsername string) (*models.User, error) {
	if strings.Contains(emailOrUsername, "@") {
		return s.creds.FindByEmail(emailOrUsername)
	}
	return s.creds.FindByUsername(emailOrUsername)
}

func (s *AuthService) issueTokens(user *models.User, clientID, ip, device string, replaced *models.RefreshToken) (*LoginResult, error) {
	roles, err := s.creds.Roles(user)
	if err != nil {
		return nil, err
	}

	accessToken, accessExpiresAt, err := utils.GenerateToken(
		user.ID.String(), user.Username, user.Email, clientID, roles, s.jwtCfg.AccessTokenMinutes)
	if err != nil {
		return nil, err
	}

	refreshValue, refreshRecord, err := s.refresh.IssueAndRotate(user.ID, clientID, device, ip, replaced)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Status:           StatusAuthenticated,
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpiresAt,
		RefreshToken:     refreshValue,
		RefreshExpiresAt: refreshRecord.ExpiresAt,
	}, nil
}
