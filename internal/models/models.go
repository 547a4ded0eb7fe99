package models

import "time"

// Task is a single timed item inside a schedule compartment. Time is a
// caller-defined string and is not validated here.
type Task struct {
	Time   string `json:"time"`
	Name   string `json:"name"`
	Status bool   `json:"status"`
}

// LogEntry records a compartment being opened. Entries are immutable once
// appended; ordering is append order.
type LogEntry struct {
	Compartment string `json:"compartment"`
	OpenedAt    string `json:"openedAt"`
}

// Compartments maps a compartment name to its ordered task list. The key
// space is open: AddTask may introduce any name beyond the seeded four.
type Compartments map[string][]Task

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `json:"username"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `json:"-"`
	Phone        string     `json:"phone"`
	Gender       string     `json:"gender"`
	Logs         []LogEntry `gorm:"serializer:json" json:"logs"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Schedule is the per-user container of compartments. UserID is set once at
// creation and never reassigned; every user has at most one schedule.
type Schedule struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	UserID       uint         `gorm:"uniqueIndex;not null" json:"userId"`
	Compartments Compartments `gorm:"serializer:json" json:"compartments"`
	CreatedAt    time.Time    `json:"createdAt"`
}
