package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipping, false},
		{OrderStatusConfirmed, OrderStatusShipping, true},
		{OrderStatusConfirmed, OrderStatusCancelled, true},
		{OrderStatusShipping, OrderStatusDelivered, true},
		{OrderStatusShipping, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestPaymentMethod_Valid(t *testing.T) {
	assert.True(t, PaymentCashOnDelivery.Valid())
	assert.True(t, PaymentBankTransfer.Valid())
	assert.True(t, PaymentMobilePayment.Valid())
	assert.False(t, PaymentMethod("card").Valid())
	assert.False(t, PaymentMethod("").Valid())
}

func TestMoney_JSON(t *testing.T) {
	var m Money
	require.NoError(t, json.Unmarshal([]byte(`"19.999"`), &m))
	assert.Equal(t, "20.00", m.String())

	require.NoError(t, json.Unmarshal([]byte(`7.5`), &m))
	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `"7.50"`, string(out))
}

func TestMoney_MulAndAdd(t *testing.T) {
	price := NewMoneyFromFloat(12.25)
	total := price.Mul(3).Add(NewMoneyFromFloat(0.5))
	assert.Equal(t, "37.25", total.String())
}
