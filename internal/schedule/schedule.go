package schedule

import (
	"errors"

	"github.com/vinay-852/MediTracker-Backend/internal/locking"
	"github.com/vinay-852/MediTracker-Backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrScheduleExists      = errors.New("schedule already exists")
	ErrScheduleNotFound    = errors.New("schedule not found")
	ErrCompartmentNotFound = errors.New("compartment not found")
	ErrTaskIndexOutOfRange = errors.New("task index out of range")
)

// seedCompartments are created with every schedule. Further compartments come
// into existence lazily through AddTask.
var seedCompartments = []string{"compartment1", "compartment2", "compartment3", "compartment4"}

// Service owns schedules: creation during registration, lookup and task
// mutation. Mutations on the same user's schedule are serialized through a
// per-user mutex, so two interleaved read-modify-write cycles cannot lose an
// update. Different users never contend.
type Service struct {
	db    *gorm.DB
	locks *locking.KeyedMutex
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, locks: locking.NewKeyedMutex()}
}

// CreateForUser creates the schedule owned by userID with the four seeded
// empty compartments. It is called from registration with the registration
// transaction; a second schedule for the same user is a conflict.
func (s *Service) CreateForUser(tx *gorm.DB, userID uint) error {
	var existing models.Schedule
	if err := tx.Where("user_id = ?", userID).First(&existing).Error; err == nil {
		return ErrScheduleExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	compartments := models.Compartments{}
	for _, name := range seedCompartments {
		compartments[name] = []models.Task{}
	}
	sched := models.Schedule{UserID: userID, Compartments: compartments}
	return tx.Create(&sched).Error
}

// Get returns the schedule owned by userID.
func (s *Service) Get(userID uint) (models.Schedule, error) {
	var sched models.Schedule
	if err := s.db.Where("user_id = ?", userID).First(&sched).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Schedule{}, ErrScheduleNotFound
		}
		return models.Schedule{}, err
	}
	return sched, nil
}

// AddTask appends a task to the named compartment of userID's schedule. An
// unknown compartment name is not an error: it is created empty first, which
// is how compartments beyond the seeded four come into existence.
func (s *Service) AddTask(userID uint, compartment, name, time string) (models.Schedule, error) {
	lock := s.locks.Get(userID)
	lock.Lock()
	defer lock.Unlock()

	sched, err := s.Get(userID)
	if err != nil {
		return models.Schedule{}, err
	}
	if sched.Compartments == nil {
		sched.Compartments = models.Compartments{}
	}
	if _, ok := sched.Compartments[compartment]; !ok {
		sched.Compartments[compartment] = []models.Task{}
	}
	sched.Compartments[compartment] = append(sched.Compartments[compartment], models.Task{
		Time:   time,
		Name:   name,
		Status: true,
	})
	if err := s.db.Save(&sched).Error; err != nil {
		return models.Schedule{}, err
	}
	return sched, nil
}

// DeleteTask removes the task at the zero-based index from the named
// compartment of userID's schedule. Unlike AddTask, an unknown compartment is
// a failure, as is an index outside the current task list; neither mutates
// the schedule.
func (s *Service) DeleteTask(userID uint, compartment string, index int) (models.Schedule, error) {
	lock := s.locks.Get(userID)
	lock.Lock()
	defer lock.Unlock()

	sched, err := s.Get(userID)
	if err != nil {
		return models.Schedule{}, err
	}
	tasks, ok := sched.Compartments[compartment]
	if !ok {
		return models.Schedule{}, ErrCompartmentNotFound
	}
	if index < 0 || index >= len(tasks) {
		return models.Schedule{}, ErrTaskIndexOutOfRange
	}
	sched.Compartments[compartment] = append(tasks[:index], tasks[index+1:]...)
	if err := s.db.Save(&sched).Error; err != nil {
		return models.Schedule{}, err
	}
	return sched, nil
}
