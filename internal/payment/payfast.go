// Package payment integrates with the PayFast hosted checkout.  The
// flow is redirect-based: we build a checkout URL for the customer,
// PayFast collects the payment and then calls our notify endpoint with
// the outcome.  Reconciliation of that callback lives in the booking
// service; this package only knows the wire formats.
package payment

import (
	"fmt"
	"net/url"
	"strconv"
)

// Config carries the merchant credentials and endpoint URLs for a
// PayFast integration.  Sandbox and production differ only in BaseURL
// and credentials.
type Config struct {
	BaseURL     string // e.g. https://sandbox.payfast.co.za/eng/process
	MerchantID  string
	MerchantKey string
	ReturnURL   string
	CancelURL   string
	NotifyURL   string
}

// Notification is the form-encoded payload PayFast posts to the notify
// endpoint after a payment attempt.  MPaymentID echoes the booking ID
// we supplied as m_payment_id when building the checkout URL.
type Notification struct {
	MPaymentID    string `form:"m_payment_id"`
	PaymentStatus string `form:"payment_status"`
	AmountGross   string `form:"amount_gross"`
	ItemName      string `form:"item_name"`
}

// StatusComplete is the PaymentStatus value PayFast sends for a
// successful payment.  Any other value leaves the booking untouched.
const StatusComplete = "COMPLETE"

// BookingID parses the m_payment_id field back into a booking ID.
func (n Notification) BookingID() (uint64, error) {
	id, err := strconv.ParseUint(n.MPaymentID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("payment: bad m_payment_id %q: %w", n.MPaymentID, err)
	}
	return id, nil
}

// Gateway builds checkout URLs for bookings.
type Gateway struct {
	cfg Config
}

// NewGateway returns a Gateway using the given merchant configuration.
func NewGateway(cfg Config) *Gateway { return &Gateway{cfg: cfg} }

// CheckoutURL returns the hosted payment page URL for a booking.
// Amounts are formatted as rand with two decimals from the cent value.
func (g *Gateway) CheckoutURL(bookingID uint64, amountCents int64, itemName string) string {
	v := url.Values{}
	v.Set("merchant_id", g.cfg.MerchantID)
	v.Set("merchant_key", g.cfg.MerchantKey)
	v.Set("return_url", g.cfg.ReturnURL)
	v.Set("cancel_url", g.cfg.CancelURL)
	v.Set("notify_url", g.cfg.NotifyURL)
	v.Set("m_payment_id", strconv.FormatUint(bookingID, 10))
	v.Set("amount", FormatAmount(amountCents))
	v.Set("item_name", itemName)
	return g.cfg.BaseURL + "?" + v.Encode()
}

// FormatAmount renders cents as a decimal string with two fractional
// digits, the format PayFast expects in the amount field.
func FormatAmount(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
