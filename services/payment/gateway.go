package payment

import (
	"context"

	"maravi/models"
)

// Gateway is the contract the orchestrators expect from a hosted-checkout
// payment provider. CreateSession opens a hosted checkout page; Verify polls
// the provider for the authoritative result of a session when a webhook may
// have been missed.
type Gateway interface {
	CreateSession(ctx context.Context, req models.SessionRequest) (*models.SessionResult, error)
	Verify(ctx context.Context, session *models.PaymentSession) (*models.GatewayCallback, error)
}
