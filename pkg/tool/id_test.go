package tool

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestGenerateUUIDV7(t *testing.T) {
	id, err := uuid.Parse(GenerateUUIDV7())
	require.NoError(t, err)
	require.Equal(t, uuid.Version(7), id.Version())
}

func TestGenerateReceipt(t *testing.T) {
	at := time.UnixMilli(1735689600123)
	r := GenerateReceipt("6f1c2a9e-1111-2222-3333-444455556666", at)
	require.Equal(t, "rcpt_6f1c2a9e_1735689600123", r)
	require.LessOrEqual(t, len(r), 40)

	require.Equal(t, "rcpt_u1_1735689600123", GenerateReceipt("u1", at))
}
