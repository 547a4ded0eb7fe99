package activity

import (
	"errors"

	"github.com/vinay-852/MediTracker-Backend/internal/locking"
	"github.com/vinay-852/MediTracker-Backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrMissingFields = errors.New("compartment and openedAt are required")
	ErrUserNotFound  = errors.New("user not found")
)

// Service owns the append-only activity log attached to each user. Append and
// Reset rewrite the user document, so they serialize per user through a keyed
// mutex the same way schedule mutations do; reads take no lock.
type Service struct {
	db    *gorm.DB
	locks *locking.KeyedMutex
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, locks: locking.NewKeyedMutex()}
}

func (s *Service) user(userID uint) (models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// Append records a compartment-open event and returns the full updated log
// sequence. Both fields are required; openedAt is a caller-supplied string
// and is stored verbatim.
func (s *Service) Append(userID uint, compartment, openedAt string) ([]models.LogEntry, error) {
	if compartment == "" || openedAt == "" {
		return nil, ErrMissingFields
	}
	lock := s.locks.Get(userID)
	lock.Lock()
	defer lock.Unlock()

	user, err := s.user(userID)
	if err != nil {
		return nil, err
	}
	user.Logs = append(user.Logs, models.LogEntry{Compartment: compartment, OpenedAt: openedAt})
	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return user.Logs, nil
}

// Logs returns the user's log sequence, oldest first.
func (s *Service) Logs(userID uint) ([]models.LogEntry, error) {
	user, err := s.user(userID)
	if err != nil {
		return nil, err
	}
	return user.Logs, nil
}

// Reset irreversibly replaces the log sequence with an empty one and returns
// it for confirmation.
func (s *Service) Reset(userID uint) ([]models.LogEntry, error) {
	lock := s.locks.Get(userID)
	lock.Lock()
	defer lock.Unlock()

	user, err := s.user(userID)
	if err != nil {
		return nil, err
	}
	user.Logs = []models.LogEntry{}
	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return user.Logs, nil
}
