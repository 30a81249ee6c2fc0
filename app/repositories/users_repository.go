package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Rakhulsr/go-shoppingmall/app/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserRepositoryImpl covers account lookup for form, social and remember-me login.
type UserRepositoryImpl interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByLoginID(ctx context.Context, loginID string) (*models.User, error)
	FindByProvider(ctx context.Context, provider, subject string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateRememberToken(ctx context.Context, userID string, selector string, verifierHash string, expiresAt *time.Time) error
	FindByRememberToken(ctx context.Context, tokenFromCookie string) (*models.User, error)
	GetPaginated(ctx context.Context, limit, offset int) ([]models.User, int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepositoryImpl {
	return &userRepository{db}
}

// Create hashes a plain password before insert. Social users have none.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	if user.Password != "" {
		hashPass, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password for user %s: %w", user.Email, err)
		}
		user.Password = string(hashPass)
	}

	if user.Role == "" {
		user.Role = models.RoleUser
	}

	user.RememberTokenSelector = nil
	user.RememberTokenHash = ""
	user.RememberTokenExpires = nil

	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) FindByLoginID(ctx context.Context, loginID string) (*models.User, error) {
	return r.first(ctx, "login_id = ?", loginID)
}

func (r *userRepository) FindByProvider(ctx context.Context, provider, subject string) (*models.User, error) {
	return r.first(ctx, "provider = ? AND provider_subject = ?", provider, subject)
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) UpdateRememberToken(ctx context.Context, userID string, selector string, verifierHash string, expiresAt *time.Time) error {
	updates := map[string]interface{}{
		"remember_token_hash":    verifierHash,
		"remember_token_expires": expiresAt,
		"updated_at":             time.Now(),
	}
	if selector == "" {
		updates["remember_token_selector"] = nil
	} else {
		updates["remember_token_selector"] = &selector
	}

	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update remember token for user %s: %w", userID, result.Error)
	}
	return nil
}

// FindByRememberToken resolves a "selector.verifier" cookie value. A
// malformed, unknown, expired or mismatching token yields (nil, nil).
func (r *userRepository) FindByRememberToken(ctx context.Context, tokenFromCookie string) (*models.User, error) {
	parts := strings.SplitN(tokenFromCookie, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, nil
	}

	selector := parts[0]
	verifierRaw := parts[1]

	user, err := r.first(ctx, "remember_token_selector = ?", selector)
	if err != nil || user == nil {
		return nil, err
	}

	if user.RememberTokenExpires == nil || time.Now().After(*user.RememberTokenExpires) {
		return nil, nil
	}

	if user.RememberTokenHash == "" || bcrypt.CompareHashAndPassword([]byte(user.RememberTokenHash), []byte(verifierRaw)) != nil {
		return nil, nil
	}

	return user, nil
}

// GetPaginated lists accounts newest first for the admin pages.
func (r *userRepository) GetPaginated(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepository) first(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
