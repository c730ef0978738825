package Services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"HomeList/Models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type AccountService struct {
	DB *gorm.DB
	// Cost is the bcrypt cost; zero means bcrypt.DefaultCost.
	Cost int
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{DB: db}
}

// PasswordProblem returns why a password is too weak, or "" when it is fine.
func PasswordProblem(p string) string {
	if len(p) < 8 {
		return "password must be at least 8 characters"
	}
	var upper, lower, digit bool
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return "password must contain an uppercase letter, a lowercase letter and a digit"
	}
	return ""
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AccountService) hash(password string) ([]byte, error) {
	cost := s.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return bcrypt.GenerateFromPassword([]byte(password), cost)
}

func (s *AccountService) Register(ctx context.Context, username, email, password string) (*Models.User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, invalid("email", "email is required")
	}
	if msg := PasswordProblem(password); msg != "" {
		return nil, invalid("password", msg)
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&Models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &ConflictError{Field: "email", Message: "an account with this email already exists"}
	}

	hash, err := s.hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := Models.User{
		Username:     strings.TrimSpace(username),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*Models.User, error) {
	user, err := s.ByEmail(ctx, email)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AccountService) ByEmail(ctx context.Context, email string) (*Models.User, error) {
	var user Models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "user"}
		}
		return nil, err
	}
	return &user, nil
}

func (s *AccountService) ByID(ctx context.Context, id uint) (*Models.User, error) {
	var user Models.User
	if err := s.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "user", ID: id}
		}
		return nil, err
	}
	return &user, nil
}

type SettingsChanges struct {
	Username            *string
	Email               *string
	NotificationsOptOut *bool
	CurrentPassword     string
	NewPassword         string
}

// UpdateSettings changes profile fields. Changing the email or password
// requires the current password.
func (s *AccountService) UpdateSettings(ctx context.Context, userID uint, c SettingsChanges) (*Models.User, error) {
	user, err := s.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if c.Username != nil {
		user.Username = strings.TrimSpace(*c.Username)
		updates["username"] = user.Username
	}
	if c.NotificationsOptOut != nil {
		user.NotificationsOptOut = *c.NotificationsOptOut
		updates["notifications_opt_out"] = user.NotificationsOptOut
	}

	emailChanged := c.Email != nil && NormalizeEmail(*c.Email) != user.Email
	if emailChanged || c.NewPassword != "" {
		if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(c.CurrentPassword)) != nil {
			return nil, invalid("current_password", "current password is incorrect")
		}
	}
	if emailChanged {
		email := NormalizeEmail(*c.Email)
		if email == "" {
			return nil, invalid("email", "email is required")
		}
		var count int64
		if err := s.DB.WithContext(ctx).Model(&Models.User{}).Where("email = ? AND id <> ?", email, userID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, &ConflictError{Field: "email", Message: "an account with this email already exists"}
		}
		user.Email = email
		updates["email"] = email
	}
	if c.NewPassword != "" {
		if msg := PasswordProblem(c.NewPassword); msg != "" {
			return nil, invalid("new_password", msg)
		}
		hash, err := s.hash(c.NewPassword)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
		updates["password_hash"] = hash
	}

	if len(updates) == 0 {
		return user, nil
	}
	if err := s.DB.WithContext(ctx).Model(&Models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// SetPassword replaces the password without checking the old one. It backs
// the reset-password flow, which proves ownership with a token instead.
func (s *AccountService) SetPassword(ctx context.Context, userID uint, password string) error {
	if msg := PasswordProblem(password); msg != "" {
		return invalid("password", msg)
	}
	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	res := s.DB.WithContext(ctx).Model(&Models.User{}).Where("id = ?", userID).Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Resource: "user", ID: userID}
	}
	return nil
}
