package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"maravi/config"
	"maravi/models"
	"maravi/services/payment"
	"maravi/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler receives gateway callbacks and verification requests.
type PaymentHandler struct {
	reconciler *payment.Reconciler
	logger     *zap.Logger
}

func NewPaymentHandler(reconciler *payment.Reconciler, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{reconciler: reconciler, logger: logger}
}

// Webhook handles a gateway push. The body is authenticated with an
// HMAC-SHA256 signature over the raw payload before any field is trusted.
// Delivery is at-least-once, so replays must come back 200.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "unreadable payload", err.Error())
		return
	}

	if !validSignature(body, c.GetHeader("Signature"), config.AppConfig.WebhookSecret) {
		h.logger.Warn("Webhook rejected: bad signature", zap.String("ip", c.ClientIP()))
		utils.JSONError(c, http.StatusUnauthorized, "invalid signature", "")
		return
	}

	var cb models.GatewayCallback
	if err := json.Unmarshal(body, &cb); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	if err := h.reconciler.HandleCallback(c.Request.Context(), cb); err != nil {
		h.handleReconcileError(c, cb.TxRef, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Verify polls the gateway for the current state of a transaction and runs
// the result through the same reconciliation path as the webhook.
func (h *PaymentHandler) Verify(c *gin.Context) {
	txRef := c.Param("txRef")
	if txRef == "" {
		utils.JSONError(c, http.StatusBadRequest, "missing txRef", "")
		return
	}

	if err := h.reconciler.VerifyTransaction(c.Request.Context(), txRef); err != nil {
		h.handleReconcileError(c, txRef, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "txRef": txRef})
}

func (h *PaymentHandler) handleReconcileError(c *gin.Context, txRef string, err error) {
	switch {
	case errors.Is(err, payment.ErrUnknownTransaction):
		utils.JSONError(c, http.StatusNotFound, "unknown transaction", txRef)
	default:
		var mErr *payment.MismatchError
		if errors.As(err, &mErr) {
			// Mismatches are held for an operator; acknowledging with a 4xx
			// stops the gateway from re-delivering the same bad amount.
			utils.JSONError(c, http.StatusUnprocessableEntity, "amount mismatch", mErr.Error())
			return
		}
		var upErr *payment.UpstreamError
		if errors.As(err, &upErr) {
			utils.JSONError(c, http.StatusBadGateway, "gateway unavailable", "please retry")
			return
		}
		h.logger.Error("Reconciliation failed", zap.String("txRef", txRef), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "reconciliation failed", "")
	}
}

func validSignature(body []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
