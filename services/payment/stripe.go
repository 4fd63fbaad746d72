package payment

import (
	"context"
	"math"
	"strings"

	"maravi/models"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"go.uber.org/zap"
)

// StripeGateway implements Gateway on top of Stripe Checkout Sessions.
// The global stripe.Key is set once at startup.
type StripeGateway struct {
	successURL string
	cancelURL  string
	logger     *zap.Logger
}

// NewStripeGateway builds a Stripe-backed gateway.
func NewStripeGateway(successURL, cancelURL string, logger *zap.Logger) *StripeGateway {
	return &StripeGateway{successURL: successURL, cancelURL: cancelURL, logger: logger}
}

// CreateSession opens a Stripe Checkout Session for the full amount as a
// single line item. The tx_ref and order/booking identity ride in metadata.
func (g *StripeGateway) CreateSession(ctx context.Context, req models.SessionRequest) (*models.SessionResult, error) {
	txRef := "TX-" + uuid.New().String()

	name := req.Description
	if name == "" {
		name = "Maravi storefront payment"
	}
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(g.successURL),
		CancelURL:         stripe.String(g.cancelURL),
		CustomerEmail:     stripe.String(req.CustomerEmail),
		ClientReferenceID: stripe.String(txRef),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(req.Currency)),
					UnitAmount: stripe.Int64(int64(math.Round(req.Amount * 100))),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(name),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	params.AddMetadata("tx_ref", txRef)
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	sess, err := session.New(params)
	if err != nil {
		return nil, &UpstreamError{Op: "create session", Err: err}
	}

	g.logger.Info("Opened Stripe checkout session",
		zap.String("txRef", txRef), zap.String("sessionID", sess.ID))
	return &models.SessionResult{
		CheckoutURL:   sess.URL,
		TxRef:         txRef,
		TransactionID: sess.ID,
	}, nil
}

// Verify retrieves the checkout session and maps its payment state onto the
// shared callback shape.
func (g *StripeGateway) Verify(ctx context.Context, ps *models.PaymentSession) (*models.GatewayCallback, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	sess, err := session.Get(ps.TransactionID, params)
	if err != nil {
		return nil, &UpstreamError{Op: "verify", Err: err}
	}

	status := models.CallbackPending
	switch {
	case sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid:
		status = models.CallbackSuccess
	case sess.Status == stripe.CheckoutSessionStatusExpired:
		status = models.CallbackFailed
	}

	return &models.GatewayCallback{
		TxRef:     ps.TxRef,
		Status:    status,
		Amount:    float64(sess.AmountTotal) / 100,
		Currency:  strings.ToUpper(string(sess.Currency)),
		Reference: sess.ID,
	}, nil
}
