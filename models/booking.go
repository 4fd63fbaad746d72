package models

import "time"

// TimeSlot is the window a booking occupies.
type TimeSlot struct {
	StartTime       time.Time `bson:"start_time" json:"startTime"`
	EndTime         time.Time `bson:"end_time" json:"endTime"`
	DurationMinutes int       `bson:"duration" json:"duration"`
}

// ServiceSlot is a bookable capacity bucket for a service. Multiple bookings
// may share a slot up to Capacity; single occupancy is Capacity == 1.
// Booked is only ever mutated through a conditional update that checks
// remaining capacity, never read-then-write.
type ServiceSlot struct {
	ID        string    `bson:"id" json:"id"`
	ServiceID string    `bson:"service_id" json:"serviceId"`
	StartTime time.Time `bson:"start_time" json:"startTime"`
	EndTime   time.Time `bson:"end_time" json:"endTime"`
	Capacity  int       `bson:"capacity" json:"capacity"`
	Booked    int       `bson:"booked" json:"booked"`
	Blocked   bool      `bson:"blocked" json:"blocked"`
}

// BookingPricing aggregates the money components of a booking. When the
// customer pays only the booking fee up front, RemainingBalance is derived
// and stored so the display value can never drift from the formula.
type BookingPricing struct {
	BasePrice        float64 `bson:"base_price" json:"basePrice"`
	BookingFee       float64 `bson:"booking_fee,omitempty" json:"bookingFee,omitempty"`
	TotalFee         float64 `bson:"total_fee,omitempty" json:"totalFee,omitempty"`
	Tax              float64 `bson:"tax" json:"tax"`
	Total            float64 `bson:"total" json:"total"`
	IsPartialPayment bool    `bson:"is_partial_payment" json:"isPartialPayment"`
	RemainingBalance float64 `bson:"remaining_balance,omitempty" json:"remainingBalance,omitempty"`
	Currency         string  `bson:"currency" json:"currency"`
}

// Booking is a persisted service booking. Created by the booking orchestrator
// in PENDING status; mutated only by the payment reconciler or admin updates.
type Booking struct {
	ID            string          `bson:"id" json:"id"`
	BookingNumber string          `bson:"booking_number" json:"bookingNumber"`
	ServiceID     string          `bson:"service_id" json:"serviceId"`
	ServiceName   string          `bson:"service_name" json:"serviceName"`
	SlotID        string          `bson:"slot_id" json:"slotId"`
	CustomerName  string          `bson:"customer_name" json:"customerName"`
	CustomerEmail string          `bson:"customer_email" json:"customerEmail"`
	CustomerPhone string          `bson:"customer_phone" json:"customerPhone"`
	Status        Status          `bson:"status" json:"status"`
	TimeSlot      TimeSlot        `bson:"time_slot" json:"timeSlot"`
	Pricing       BookingPricing  `bson:"pricing" json:"pricing"`
	Payment       *PaymentDetails `bson:"payment,omitempty" json:"payment,omitempty"`
	CreatedAt     time.Time       `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time       `bson:"updated_at" json:"updatedAt"`
}
