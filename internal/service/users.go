package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"bookly/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Users provides persistence operations for user records and their
// email-verification and password-reset tokens.
type Users struct {
	db *gorm.DB
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

func (s *Users) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &user, nil
}

// GetByEmailWithBooks preloads the user's books for profile responses.
func (s *Users) GetByEmailWithBooks(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("Books").Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &user, nil
}

func (s *Users) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count users by email: %w", err)
	}
	return count > 0, nil
}

func (s *Users) Create(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// UpdateFields applies a partial update to the given user record.
func (s *Users) UpdateFields(ctx context.Context, user *models.User, changes map[string]any) error {
	if err := s.db.WithContext(ctx).Model(user).Updates(changes).Error; err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// CreateEmailToken mints a single-use email verification token for user.
func (s *Users) CreateEmailToken(ctx context.Context, user *models.User, ttl time.Duration) (*models.EmailToken, error) {
	value, err := randomToken()
	if err != nil {
		return nil, err
	}
	token := models.EmailToken{
		UserID:    user.ID,
		Token:     value,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := s.db.WithContext(ctx).Create(&token).Error; err != nil {
		return nil, fmt.Errorf("create email token: %w", err)
	}
	return &token, nil
}

// ConsumeEmailToken marks an unexpired, unconsumed verification token as used
// and returns its owner. An unknown, expired, or already-consumed token
// yields ErrNotFound.
func (s *Users) ConsumeEmailToken(ctx context.Context, value string) (*models.User, error) {
	var token models.EmailToken
	err := s.db.WithContext(ctx).
		Where("token = ? AND consumed_at IS NULL AND expires_at > ?", value, time.Now()).
		First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup email token: %w", err)
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&token).Update("consumed_at", &now).Error; err != nil {
		return nil, fmt.Errorf("consume email token: %w", err)
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", token.UserID).Error; err != nil {
		return nil, fmt.Errorf("load token owner: %w", err)
	}
	return &user, nil
}

// CreateResetToken mints a single-use password reset token for user.
func (s *Users) CreateResetToken(ctx context.Context, user *models.User, ttl time.Duration) (*models.ResetToken, error) {
	value, err := randomToken()
	if err != nil {
		return nil, err
	}
	token := models.ResetToken{
		UserID:    user.ID,
		Token:     value,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := s.db.WithContext(ctx).Create(&token).Error; err != nil {
		return nil, fmt.Errorf("create reset token: %w", err)
	}
	return &token, nil
}

// ConsumeResetToken marks an unexpired, unconsumed reset token as used and
// returns its owner.
func (s *Users) ConsumeResetToken(ctx context.Context, value string) (*models.User, error) {
	var token models.ResetToken
	err := s.db.WithContext(ctx).
		Where("token = ? AND consumed_at IS NULL AND expires_at > ?", value, time.Now()).
		First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup reset token: %w", err)
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&token).Update("consumed_at", &now).Error; err != nil {
		return nil, fmt.Errorf("consume reset token: %w", err)
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", token.UserID).Error; err != nil {
		return nil, fmt.Errorf("load token owner: %w", err)
	}
	return &user, nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
