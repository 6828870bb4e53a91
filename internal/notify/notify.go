// Package notify delivers assessment results to the contact. The default
// implementation only logs; production deployments plug in their mail
// provider behind the same interface.
package notify

import (
	"context"
	"log"

	"assessment-service/internal/domain"
)

// LogNotifier records the delivery intent without sending anything.
type LogNotifier struct{}

func (LogNotifier) SendResults(_ context.Context, contact domain.Contact, _ domain.Report) error {
	log.Printf("results email queued for %s (%s)", contact.Email, contact.Company)
	return nil
}
