package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"restaurant-pos/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	base
}

type RegisterInput struct {
	Username string          `validate:"required,min=3,max=50"`
	Password string          `validate:"required,min=6,max=72"`
	Role     models.UserRole `validate:"required,oneof=ADMIN STAFF"`
}

// Register creates a user account. Anyone may sign up as STAFF from the login screen; once
// signed in, only an admin may add accounts, and only an admin may create another admin.
func (s *UserService) Register(ctx context.Context, sess Session, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Role = models.UserRole(strings.ToUpper(string(in.Role)))
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if sess.Authenticated() && !sess.IsAdmin() {
		return nil, fmt.Errorf("%w: only an admin can register users", ErrForbidden)
	}
	if in.Role == models.RoleAdmin && !sess.IsAdmin() {
		return nil, fmt.Errorf("%w: only an admin can create admin accounts", ErrForbidden)
	}
	return s.create(ctx, in)
}

func (s *UserService) create(ctx context.Context, in RegisterInput) (*models.User, error) {
	// bcrypt only reads the first 72 bytes
	if len(in.Password) > 72 {
		return nil, invalidInput("password must be at most 72 bytes")
	}
	var existing int64
	if err := s.conn(ctx).Model(&models.User{}).Where("username = ?", in.Username).Count(&existing).Error; err != nil {
		return nil, s.storeErr(ctx, "register_user", err)
	}
	if existing > 0 {
		return nil, invalidState("username %q already taken", in.Username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, s.storeErr(ctx, "register_user", err)
	}

	user := models.User{
		Username:     in.Username,
		PasswordHash: string(hash),
		Role:         in.Role,
	}
	if err := s.conn(ctx).Create(&user).Error; err != nil {
		return nil, s.storeErr(ctx, "register_user", err)
	}
	s.log.Info("register_user", RequestIDFrom(ctx), "registered "+string(user.Role)+" "+user.Username)
	return &user, nil
}

// Authenticate checks a username/password pair
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := s.conn(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalidInput("invalid username or password")
	}
	if err != nil {
		return nil, s.storeErr(ctx, "authenticate", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, invalidInput("invalid username or password")
	}
	return &user, nil
}

// Get loads a user by id
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.find(ctx, "get_user", "user", &user, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns every account, admins only
func (s *UserService) List(ctx context.Context, sess Session) ([]models.User, error) {
	if !sess.IsAdmin() {
		return nil, fmt.Errorf("%w: only an admin can list users", ErrForbidden)
	}
	var users []models.User
	if err := s.conn(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, s.storeErr(ctx, "list_users", err)
	}
	return users, nil
}

// EnsureDefaultAdmin seeds an admin account when username does not exist yet
func (s *UserService) EnsureDefaultAdmin(ctx context.Context, username, password string) (bool, error) {
	var n int64
	if err := s.conn(ctx).Model(&models.User{}).Where("username = ?", username).Count(&n).Error; err != nil {
		return false, s.storeErr(ctx, "seed_admin", err)
	}
	if n > 0 {
		return false, nil
	}
	in := RegisterInput{Username: username, Password: password, Role: models.RoleAdmin}
	if err := validateInput(in); err != nil {
		return false, err
	}
	if _, err := s.create(ctx, in); err != nil {
		return false, err
	}
	return true, nil
}
