package services

import (
	"context"

	"github.com/jakechorley/random-duties/pkg/availability"
)

// AvailabilitySource loads the current availability sheet
type AvailabilitySource interface {
	LoadAvailability(ctx context.Context) (*availability.Sheet, error)
	Describe() string
}

// Notifier sends one e-mail
type Notifier interface {
	SendEmail(to, subject, body string) error
}
