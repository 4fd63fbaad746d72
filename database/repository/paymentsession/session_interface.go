package sessionRepo

import "maravi/models"

// SessionRepository stores payment sessions, one per checkout attempt,
// keyed by the gateway transaction reference.
type SessionRepository interface {
	Create(session *models.PaymentSession) error
	GetByTxRef(txRef string) (*models.PaymentSession, error)
	UpdateStatus(txRef, status string) error
}
