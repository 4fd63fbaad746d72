package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"maravi/models"
	"maravi/services/delivery"
	"maravi/services/pricing"
	"maravi/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Checkout builds an order from a cart: validate, snapshot prices, persist
// in PENDING, reserve stock (best effort, retried in background), then open
// a payment session. Nothing is persisted when validation fails; a gateway
// failure after persistence leaves the order PENDING without a session.
func (s *DefaultCheckoutService) Checkout(ctx context.Context, input models.CheckoutInput) (*models.CheckoutResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var provider *models.DeliveryProvider
	if input.Delivery.Method == models.DeliveryMethodDelivery {
		p, err := s.Catalog.GetDeliveryProvider(input.Delivery.ProviderID)
		if err != nil {
			return nil, fmt.Errorf("failed to load delivery provider: %w", err)
		}
		if p == nil {
			return nil, NewValidationError(fmt.Sprintf("unknown delivery provider %s", input.Delivery.ProviderID))
		}
		provider = p
	}

	items, subtotal, err := s.priceCart(input.Lines)
	if err != nil {
		return nil, err
	}

	shipping := delivery.Resolve(provider, delivery.Destination{
		District: input.Delivery.Address.District,
		Region:   input.Delivery.Address.Region,
	}, input.Delivery.Method)
	tax := utils.RoundMoney(subtotal * s.TaxRate / 100)
	// Promotions are already folded into unit prices, so the order-level
	// discount stays zero.
	total := utils.RoundMoney(subtotal + shipping + tax)

	order := &models.Order{
		ID:            uuid.New().String(),
		OrderNumber:   newOrderNumber(),
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		CustomerPhone: input.CustomerPhone,
		Status:        models.StatusPending,
		Items:         items,
		Pricing: models.OrderPricing{
			Subtotal: subtotal,
			Tax:      tax,
			Shipping: shipping,
			Discount: 0,
			Total:    total,
			Currency: s.Currency,
		},
		Delivery: models.OrderDelivery{
			Method:     input.Delivery.Method,
			ProviderID: input.Delivery.ProviderID,
			Address:    input.Delivery.Address,
		},
		ReservationStatus: models.ReservationUnreserved,
	}
	if err := s.Orders.Create(order); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	s.reserveStock(ctx, order)

	firstName, lastName := splitName(input.CustomerName)
	result, err := s.Gateway.CreateSession(ctx, models.SessionRequest{
		OrderID:       order.ID,
		Amount:        total,
		Currency:      s.Currency,
		CustomerEmail: input.CustomerEmail,
		CustomerName:  input.CustomerName,
		FirstName:     firstName,
		LastName:      lastName,
		Description:   fmt.Sprintf("Order %s", order.OrderNumber),
		Metadata: map[string]string{
			"orderId":     order.ID,
			"orderNumber": order.OrderNumber,
		},
	})
	if err != nil {
		// The order stays PENDING with no session; the customer may retry
		// checkout, which creates a fresh order.
		s.Logger.Error("Failed to open payment session",
			zap.String("orderID", order.ID), zap.Error(err))
		return nil, err
	}

	session := &models.PaymentSession{
		TxRef:         result.TxRef,
		TransactionID: result.TransactionID,
		OrderID:       order.ID,
		Amount:        total,
		Currency:      s.Currency,
		Status:        models.SessionOpened,
		CheckoutURL:   result.CheckoutURL,
	}
	if err := s.Sessions.Create(session); err != nil {
		return nil, fmt.Errorf("failed to persist payment session: %w", err)
	}

	s.Logger.Info("Checkout completed",
		zap.String("orderNumber", order.OrderNumber),
		zap.String("txRef", result.TxRef),
		zap.Float64("total", total))
	return &models.CheckoutResult{
		Order:       order,
		CheckoutURL: result.CheckoutURL,
		TxRef:       result.TxRef,
	}, nil
}

// priceCart snapshots every cart line through the pricing engine. Unit
// prices are frozen here and never re-read from the catalog afterwards.
func (s *DefaultCheckoutService) priceCart(lines []models.CartLine) ([]models.OrderItem, float64, error) {
	now := time.Now()
	items := make([]models.OrderItem, 0, len(lines))
	var subtotal float64
	for _, line := range lines {
		item, err := s.Catalog.GetItem(line.ItemID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to load item %s: %w", line.ItemID, err)
		}
		if item == nil {
			return nil, 0, NewValidationError(fmt.Sprintf("unknown item %s", line.ItemID))
		}
		if item.Kind != models.ItemKindProduct {
			return nil, 0, NewValidationError(fmt.Sprintf("item %s is not a product", line.ItemID))
		}

		promos, err := s.Catalog.ActivePromotionsFor(item.ID, item.Kind)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to load promotions for item %s: %w", item.ID, err)
		}
		quote := pricing.QuoteItem(item, promos, now)
		lineSubtotal := utils.RoundMoney(quote.FinalPrice * float64(line.Quantity))
		items = append(items, models.OrderItem{
			ProductID:   item.ID,
			ProductName: item.Name,
			Quantity:    line.Quantity,
			UnitPrice:   quote.FinalPrice,
			Subtotal:    lineSubtotal,
			SKU:         item.SKU,
		})
		subtotal = utils.RoundMoney(subtotal + lineSubtotal)
	}
	return items, subtotal, nil
}

// reserveStock attempts the synchronous hold. Failure is not fatal at
// checkout time: the worker retries, and the reconciler re-confirms after
// payment, so the hold converges without blocking the customer.
func (s *DefaultCheckoutService) reserveStock(ctx context.Context, order *models.Order) {
	lines := order.ReservationLines()
	if len(lines) == 0 {
		return
	}
	if err := s.Inventory.Reserve(ctx, order.ID, lines); err != nil {
		s.Logger.Warn("Inventory reservation failed at checkout, scheduling retry",
			zap.String("orderID", order.ID), zap.Error(err))
		if err := s.Orders.SetReservationStatus(order.ID, models.ReservationFailed); err != nil {
			s.Logger.Error("Failed to record reservation failure",
				zap.String("orderID", order.ID), zap.Error(err))
		}
		if s.Retry != nil {
			if err := s.Retry.EnqueueReservationRetry(order.ID); err != nil {
				s.Logger.Error("Failed to enqueue reservation retry",
					zap.String("orderID", order.ID), zap.Error(err))
			}
		}
		return
	}
	order.ReservationStatus = models.ReservationReserved
	if err := s.Orders.SetReservationStatus(order.ID, models.ReservationReserved); err != nil {
		s.Logger.Error("Failed to record reservation",
			zap.String("orderID", order.ID), zap.Error(err))
	}
}

func validateInput(input models.CheckoutInput) error {
	if strings.TrimSpace(input.CustomerName) == "" {
		return NewValidationError("customer name is required")
	}
	if strings.TrimSpace(input.CustomerEmail) == "" {
		return NewValidationError("customer email is required")
	}
	if strings.TrimSpace(input.CustomerPhone) == "" {
		return NewValidationError("customer phone is required")
	}
	if len(input.Lines) == 0 {
		return NewValidationError("cart is empty")
	}
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return NewValidationError(fmt.Sprintf("invalid quantity for item %s", line.ItemID))
		}
	}
	switch input.Delivery.Method {
	case models.DeliveryMethodPickup:
		return nil
	case models.DeliveryMethodDelivery:
		if input.Delivery.ProviderID == "" {
			return NewValidationError("delivery provider is required")
		}
		if input.Delivery.Address.District == "" && input.Delivery.Address.Region == "" {
			return NewValidationError("delivery address requires a district or region")
		}
		return nil
	default:
		return NewValidationError("delivery method must be PICKUP or DELIVERY")
	}
}

func newOrderNumber() string {
	return fmt.Sprintf("ORD-%s-%s",
		time.Now().Format("20060102"),
		strings.ToUpper(uuid.New().String()[:8]))
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
