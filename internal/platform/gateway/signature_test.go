package gateway

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPaymentSignature_KnownVector(t *testing.T) {
	// echo -n "order_1|pay_1" | openssl dgst -sha256 -hmac secret
	sig := PaymentSignature("secret", "order_1", "pay_1")
	require.Equal(t, "52115a0d3400de9e86aade1f1b6eba9e8974604f4e267a9e9a16633a4c8dd2cb", sig)
	require.True(t, VerifyPaymentSignature("secret", "order_1", "pay_1", sig))
}

func TestVerifyPaymentSignature_AnySingleCharMutationFails(t *testing.T) {
	sig := PaymentSignature("secret", "order_1", "pay_1")
	for i := range sig {
		b := []byte(sig)
		if b[i] == '0' {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
		require.False(t, VerifyPaymentSignature("secret", "order_1", "pay_1", string(b)), "mutation at %d", i)
	}
	require.False(t, VerifyPaymentSignature("secret", "order_1", "pay_2", sig))
	require.False(t, VerifyPaymentSignature("other", "order_1", "pay_1", sig))
	require.False(t, VerifyPaymentSignature("secret", "order_1", "pay_1", ""))
}

func TestVerifyWebhookSignature(t *testing.T) {
	body := []byte(`{"event":"order.paid"}`)
	sig := WebhookSignature("whsec", body)
	require.True(t, VerifyWebhookSignature("whsec", body, sig))
	require.False(t, VerifyWebhookSignature("whsec", []byte(`{"event":"order.paid" }`), sig))
	require.False(t, VerifyWebhookSignature("other", body, sig))
}

func TestParseWebhookEvent(t *testing.T) {
	ev, err := ParseWebhookEvent([]byte(`{
		"entity":"event",
		"event":"payment.captured",
		"payload":{"payment":{"entity":{"id":"pay_9","order_id":"order_9","amount":4900,"currency":"INR","status":"captured"}}}
	}`))
	require.NoError(t, err)
	require.True(t, ev.Activates())
	require.Equal(t, "order_9", ev.OrderID())
	require.Equal(t, "pay_9", ev.PaymentID())

	ev, err = ParseWebhookEvent([]byte(`{"event":"order.paid","payload":{"order":{"entity":{"id":"order_7"}}}}`))
	require.NoError(t, err)
	require.Equal(t, "order_7", ev.OrderID())
	require.Equal(t, "", ev.PaymentID())

	ev, err = ParseWebhookEvent([]byte(`{"event":"refund.created","payload":{}}`))
	require.NoError(t, err)
	require.False(t, ev.Activates())

	_, err = ParseWebhookEvent([]byte(`{}`))
	require.Error(t, err)
	_, err = ParseWebhookEvent([]byte(`not json`))
	require.Error(t, err)
}
