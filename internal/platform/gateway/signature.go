package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// PaymentSignature is hex(HMAC_SHA256(keySecret, orderID + "|" + paymentID)),
// the value the checkout widget returns after a successful payment.
func PaymentSignature(keySecret, orderID, paymentID string) string {
	return sign(keySecret, []byte(orderID+"|"+paymentID))
}

// VerifyPaymentSignature compares in constant time.
func VerifyPaymentSignature(keySecret, orderID, paymentID, signature string) bool {
	return hmac.Equal([]byte(PaymentSignature(keySecret, orderID, paymentID)), []byte(signature))
}

// WebhookSignature signs the raw request body with the webhook secret.
func WebhookSignature(webhookSecret string, body []byte) string {
	return sign(webhookSecret, body)
}

func VerifyWebhookSignature(webhookSecret string, body []byte, signature string) bool {
	return hmac.Equal([]byte(WebhookSignature(webhookSecret, body)), []byte(signature))
}

func sign(secret string, msg []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(msg)
	return hex.EncodeToString(mac.Sum(nil))
}
