package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommonFilter_Validate(t *testing.T) {
	allowed := []string{"status", "plan"}

	require.NoError(t, (&CommonFilter{Field: "status", Operator: CommonFilterOperatorEq, Values: []any{"active"}}).Validate(allowed))
	require.Error(t, (&CommonFilter{Field: "status; drop table x", Operator: CommonFilterOperatorEq, Values: []any{"a"}}).Validate(allowed))
	require.Error(t, (&CommonFilter{Field: "plan", Operator: "like", Values: []any{"a"}}).Validate(allowed))
	require.Error(t, (&CommonFilter{Field: "plan", Operator: CommonFilterOperatorIn}).Validate(allowed))
	require.Error(t, (&CommonFilter{Field: "plan", Operator: CommonFilterOperatorRange, Values: []any{1}}).Validate(allowed))
}
