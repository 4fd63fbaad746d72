package models

// CartLine is one item+quantity pair from the customer's cart.
type CartLine struct {
	ItemID   string `json:"itemId" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

// DeliverySelection is the fulfillment choice made at checkout.
type DeliverySelection struct {
	Method     DeliveryMethod `json:"method" binding:"required"`
	ProviderID string         `json:"providerId,omitempty"`
	Address    Address        `json:"address,omitempty"`
}

// CheckoutInput is everything the checkout orchestrator needs to build an
// order: cart lines, delivery selection and customer contact info.
type CheckoutInput struct {
	CustomerName  string            `json:"customerName" binding:"required"`
	CustomerEmail string            `json:"customerEmail" binding:"required,email"`
	CustomerPhone string            `json:"customerPhone" binding:"required"`
	Lines         []CartLine        `json:"lines" binding:"required,min=1"`
	Delivery      DeliverySelection `json:"delivery"`
}

// CheckoutResult is returned once an order is persisted and a payment
// session opened.
type CheckoutResult struct {
	Order       *Order `json:"order"`
	CheckoutURL string `json:"checkoutUrl"`
	TxRef       string `json:"txRef"`
}
