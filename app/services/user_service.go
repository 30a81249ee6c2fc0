package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Rakhulsr/go-shoppingmall/app/helpers"
	"github.com/Rakhulsr/go-shoppingmall/app/models"
	"github.com/Rakhulsr/go-shoppingmall/app/repositories"
	"github.com/Rakhulsr/go-shoppingmall/app/utils/pagination"
	"github.com/Rakhulsr/go-shoppingmall/app/utils/validation"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DefaultRememberMeTTL keeps a remember-me login valid for one day.
const DefaultRememberMeTTL = 24 * time.Hour

const UserPageSize = 20

type RegisterRequest struct {
	LoginID  string `form:"loginId" validate:"required,loginid"`
	Password string `form:"password" validate:"required,password"`
	Name     string `form:"name" validate:"required,max=50"`
	Email    string `form:"email" validate:"required,mallemail"`
	Phone    string `form:"phone" validate:"required,phone"`
}

// SocialProfile is the identity an OAuth2 provider reports for a user.
type SocialProfile struct {
	Provider string
	Subject  string
	Email    string
	Name     string
}

type UserPage struct {
	Users  []models.User
	Paging pagination.PagingInfo
}

type UserService struct {
	userRepo    repositories.UserRepositoryImpl
	validate    *validator.Validate
	rememberTTL time.Duration
	logger      *zap.Logger
}

func NewUserService(userRepo repositories.UserRepositoryImpl, rememberTTL time.Duration, logger *zap.Logger) *UserService {
	if rememberTTL <= 0 {
		rememberTTL = DefaultRememberMeTTL
	}
	return &UserService{
		userRepo:    userRepo,
		validate:    validation.New(),
		rememberTTL: rememberTTL,
		logger:      logger,
	}
}

func (s *UserService) RememberTTL() time.Duration {
	return s.rememberTTL
}

// Register validates the form and creates a USER account. Validation
// failures are returned as validator.ValidationErrors.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.FindByLoginID(ctx, req.LoginID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateUser
	}

	loginID := req.LoginID
	user := &models.User{
		LoginID:  &loginID,
		Password: req.Password,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     models.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("UserService.Register: user created", zap.String("user_id", user.ID))
	return user, nil
}

func (s *UserService) Authenticate(ctx context.Context, loginID, password string) (*models.User, error) {
	user, err := s.userRepo.FindByLoginID(ctx, loginID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil || user.Password == "" {
		return nil, ErrInvalidCredentials
	}
	if !helpers.PasswordCompare(s.logger, user.Password, []byte(password)) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// LoginSocial returns the SOCIAL account linked to the provider identity,
// creating it on first login and refreshing name and email afterwards.
func (s *UserService) LoginSocial(ctx context.Context, profile SocialProfile) (*models.User, error) {
	if profile.Provider == "" || profile.Subject == "" {
		return nil, fmt.Errorf("%w: empty identity", ErrUnsupportedProvider)
	}

	user, err := s.userRepo.FindByProvider(ctx, profile.Provider, profile.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to find social user: %w", err)
	}

	if user == nil {
		user = &models.User{
			Email:           profile.Email,
			Name:            profile.Name,
			Role:            models.RoleSocial,
			Provider:        profile.Provider,
			ProviderSubject: profile.Subject,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create social user: %w", err)
		}
		s.logger.Info("UserService.LoginSocial: social user created",
			zap.String("user_id", user.ID),
			zap.String("provider", profile.Provider))
		return user, nil
	}

	if (profile.Name != "" && profile.Name != user.Name) || (profile.Email != "" && profile.Email != user.Email) {
		if profile.Name != "" {
			user.Name = profile.Name
		}
		if profile.Email != "" {
			user.Email = profile.Email
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update social user: %w", err)
		}
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFoundUser
	}
	return user, nil
}

// ListUsers pages through every account for the admin user list.
func (s *UserService) ListUsers(ctx context.Context, page int) (*UserPage, error) {
	page = pagination.NormalizePage(page)

	users, total, err := s.userRepo.GetPaginated(ctx, UserPageSize, pagination.Offset(page, UserPageSize))
	if err != nil {
		s.logger.Error("UserService.ListUsers: query failed", zap.Int("page", page), zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return &UserPage{Users: users, Paging: pagination.New(total, page, UserPageSize)}, nil
}

// IssueRememberToken stores a fresh hashed verifier and returns the cookie
// value that proves it.
func (s *UserService) IssueRememberToken(ctx context.Context, userID string) (string, time.Time, error) {
	selector, verifier, token, err := helpers.GenerateRememberTokenParts()
	if err != nil {
		return "", time.Time{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(verifier), bcrypt.DefaultCost)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to hash remember token: %w", err)
	}

	expires := time.Now().Add(s.rememberTTL)
	if err := s.userRepo.UpdateRememberToken(ctx, userID, selector, string(hashed), &expires); err != nil {
		return "", time.Time{}, err
	}
	return token, expires, nil
}

func (s *UserService) ClearRememberToken(ctx context.Context, userID string) error {
	return s.userRepo.UpdateRememberToken(ctx, userID, "", "", nil)
}

// ResolveRememberToken returns nil when the cookie no longer identifies anyone.
func (s *UserService) ResolveRememberToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	return s.userRepo.FindByRememberToken(ctx, token)
}
