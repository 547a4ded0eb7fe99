package auth

import (
	"errors"
	"fmt"

	"github.com/vinay-852/MediTracker-Backend/internal/models"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// ScheduleProvisioner creates the schedule that every new user owns. It runs
// inside the registration transaction so a user row and its schedule row
// either both land or neither does.
type ScheduleProvisioner interface {
	CreateForUser(tx *gorm.DB, userID uint) error
}

// Service owns user records: registration, login and profile reads.
type Service struct {
	db        *gorm.DB
	tokens    *TokenService
	passwords PasswordVerifier
	schedules ScheduleProvisioner
}

func NewService(db *gorm.DB, tokens *TokenService, passwords PasswordVerifier, schedules ScheduleProvisioner) *Service {
	return &Service{db: db, tokens: tokens, passwords: passwords, schedules: schedules}
}

// Profile is the public view of a user. It never carries the password hash.
type Profile struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Gender   string `json:"gender"`
}

func profileOf(user models.User) Profile {
	return Profile{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Phone:    user.Phone,
		Gender:   user.Gender,
	}
}

// Register creates a user with an empty log sequence and its schedule, then
// issues a credential for the new user.
func (s *Service) Register(username, email, password, phone, gender string) (Profile, string, error) {
	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return Profile{}, "", ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Profile{}, "", err
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return Profile{}, "", err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Phone:        phone,
		Gender:       gender,
		Logs:         []models.LogEntry{},
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return s.schedules.CreateForUser(tx, user.ID)
	})
	if err != nil {
		// A registration racing this one can slip past the email pre-check
		// and lose on the unique index instead; the loser still sees the
		// conflict, not an internal error.
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return Profile{}, "", ErrEmailTaken
		}
		return Profile{}, "", fmt.Errorf("register: %w", err)
	}

	token, err := s.tokens.Sign(user.ID)
	if err != nil {
		return Profile{}, "", err
	}
	return profileOf(user), token, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

// Login verifies email and password and issues a fresh credential. The error
// is the same whichever check fails, so callers cannot enumerate accounts.
func (s *Service) Login(email, password string) (Profile, string, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return Profile{}, "", ErrInvalidCredentials
	}
	if !s.passwords.Verify(password, user.PasswordHash) {
		return Profile{}, "", ErrInvalidCredentials
	}
	token, err := s.tokens.Sign(user.ID)
	if err != nil {
		return Profile{}, "", err
	}
	return profileOf(user), token, nil
}

// GetProfile returns the public profile fields for userID.
func (s *Service) GetProfile(userID uint) (Profile, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Profile{}, ErrUserNotFound
		}
		return Profile{}, err
	}
	return profileOf(user), nil
}
