package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"maravi/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PayChanguGateway talks to the PayChangu hosted-checkout REST API.
type PayChanguGateway struct {
	baseURL   string
	secretKey string
	returnURL string
	cancelURL string
	client    *http.Client
	logger    *zap.Logger
}

// NewPayChanguGateway builds a gateway client.
func NewPayChanguGateway(baseURL, secretKey, returnURL, cancelURL string, logger *zap.Logger) *PayChanguGateway {
	return &PayChanguGateway{
		baseURL:   baseURL,
		secretKey: secretKey,
		returnURL: returnURL,
		cancelURL: cancelURL,
		client:    &http.Client{Timeout: 15 * time.Second},
		logger:    logger,
	}
}

type payChanguSessionBody struct {
	Amount      float64           `json:"amount"`
	Currency    string            `json:"currency"`
	Email       string            `json:"email"`
	FirstName   string            `json:"first_name,omitempty"`
	LastName    string            `json:"last_name,omitempty"`
	TxRef       string            `json:"tx_ref"`
	CallbackURL string            `json:"callback_url"`
	ReturnURL   string            `json:"return_url"`
	Meta        map[string]string `json:"meta,omitempty"`
}

type payChanguSessionResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		CheckoutURL   string `json:"checkout_url"`
		TxRef         string `json:"tx_ref"`
		TransactionID string `json:"transaction_id"`
	} `json:"data"`
}

// CreateSession opens a hosted checkout page. The caller's order or booking
// identity rides in the meta block so callbacks map back unambiguously.
func (g *PayChanguGateway) CreateSession(ctx context.Context, req models.SessionRequest) (*models.SessionResult, error) {
	txRef := "TX-" + uuid.New().String()

	body := payChanguSessionBody{
		Amount:      req.Amount,
		Currency:    req.Currency,
		Email:       req.CustomerEmail,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		TxRef:       txRef,
		CallbackURL: g.returnURL,
		ReturnURL:   g.cancelURL,
		Meta:        req.Metadata,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/payment", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build session request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.secretKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, &UpstreamError{Op: "create session", Err: err}
	}
	defer resp.Body.Close()

	var parsed payChanguSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &UpstreamError{Op: "create session", Err: fmt.Errorf("decoding response failed: %w", err)}
	}
	if resp.StatusCode >= 300 || parsed.Status != "success" {
		return nil, &UpstreamError{Op: "create session",
			Err: fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, parsed.Message)}
	}
	if parsed.Data.TxRef == "" {
		parsed.Data.TxRef = txRef
	}

	g.logger.Info("Opened PayChangu checkout session",
		zap.String("txRef", parsed.Data.TxRef), zap.Float64("amount", req.Amount))
	return &models.SessionResult{
		CheckoutURL:   parsed.Data.CheckoutURL,
		TxRef:         parsed.Data.TxRef,
		TransactionID: parsed.Data.TransactionID,
	}, nil
}

type payChanguVerifyResponse struct {
	Status string                 `json:"status"`
	Data   models.GatewayCallback `json:"data"`
}

// Verify polls the gateway for the authoritative state of a transaction.
func (g *PayChanguGateway) Verify(ctx context.Context, session *models.PaymentSession) (*models.GatewayCallback, error) {
	url := fmt.Sprintf("%s/verify-payment/%s", g.baseURL, session.TxRef)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build verify request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.secretKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, &UpstreamError{Op: "verify", Err: err}
	}
	defer resp.Body.Close()

	var parsed payChanguVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &UpstreamError{Op: "verify", Err: fmt.Errorf("decoding response failed: %w", err)}
	}
	if resp.StatusCode >= 300 {
		return nil, &UpstreamError{Op: "verify",
			Err: fmt.Errorf("gateway returned status %d", resp.StatusCode)}
	}
	if parsed.Data.TxRef == "" {
		parsed.Data.TxRef = session.TxRef
	}
	return &parsed.Data, nil
}
