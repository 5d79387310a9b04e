// Package model defines the core domain types for the activities API.
package model

import (
	"slices"
	"time"
)

// Activity is an extracurricular offering. Its name is the registry key and
// is not repeated inside the record.
type Activity struct {
	Description     string   `json:"description" yaml:"description"`
	Schedule        string   `json:"schedule" yaml:"schedule"`
	MaxParticipants int      `json:"max_participants" yaml:"max_participants"`
	Participants    []string `json:"participants" yaml:"participants"`
}

// Remaining returns the number of open spots. It goes negative when an
// activity has been over-enrolled.
func (a *Activity) Remaining() int {
	return a.MaxParticipants - len(a.Participants)
}

// IsFull returns true when no spots remain.
func (a *Activity) IsFull() bool {
	return len(a.Participants) >= a.MaxParticipants
}

// HasParticipant reports whether email is on the roster.
func (a *Activity) HasParticipant(email string) bool {
	return slices.Contains(a.Participants, email)
}

// Clone returns a copy that shares no memory with a.
func (a Activity) Clone() Activity {
	a.Participants = append([]string{}, a.Participants...)
	return a
}

// Registration records a single participant's enrollment in an activity.
type Registration struct {
	ID        string    `json:"id"`
	Activity  string    `json:"activity"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageResponse is the confirmation envelope for roster mutations.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the standard JSON error envelope.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
