package payment

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGateway() *Gateway {
	return NewGateway(Config{
		BaseURL:     "https://sandbox.payfast.co.za/eng/process",
		MerchantID:  "10000100",
		MerchantKey: "46f0cd694581a",
		ReturnURL:   "https://example.com/return",
		CancelURL:   "https://example.com/cancel",
		NotifyURL:   "https://example.com/api/v1/payments/notify",
	})
}

func TestCheckoutURL_Fields(t *testing.T) {
	raw := testGateway().CheckoutURL(42, 123450, "Community Hall booking")
	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "10000100", q.Get("merchant_id"))
	assert.Equal(t, "42", q.Get("m_payment_id"))
	assert.Equal(t, "1234.50", q.Get("amount"))
	assert.Equal(t, "Community Hall booking", q.Get("item_name"))
	assert.Equal(t, "https://example.com/api/v1/payments/notify", q.Get("notify_url"))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0.00", FormatAmount(0))
	assert.Equal(t, "0.05", FormatAmount(5))
	assert.Equal(t, "1.00", FormatAmount(100))
	assert.Equal(t, "799.90", FormatAmount(79990))
}

func TestNotification_BookingID(t *testing.T) {
	n := Notification{MPaymentID: "17", PaymentStatus: StatusComplete, AmountGross: "100.00"}
	id, err := n.BookingID()
	require.NoError(t, err)
	assert.Equal(t, uint64(17), id)

	_, err = Notification{MPaymentID: "not-a-number"}.BookingID()
	assert.Error(t, err)
}
