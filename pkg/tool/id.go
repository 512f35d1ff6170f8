package tool

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const receiptUserPrefixLen = 8

func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// GenerateReceipt builds the gateway receipt tag for an order. The gateway
// caps receipts at 40 characters, so only a prefix of the user id is kept.
func GenerateReceipt(userID string, at time.Time) string {
	prefix := userID
	if len(prefix) > receiptUserPrefixLen {
		prefix = prefix[:receiptUserPrefixLen]
	}
	return fmt.Sprintf("rcpt_%s_%d", prefix, at.UnixMilli())
}
