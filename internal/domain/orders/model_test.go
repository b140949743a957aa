package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerive(t *testing.T) {
	assert.Equal(t, StatusOpen, Derive(false, false))
	assert.Equal(t, StatusSent, Derive(true, false))
	assert.Equal(t, StatusReceived, Derive(true, true))
	// is_received без is_sent не встречается, но получение главнее
	assert.Equal(t, StatusReceived, Derive(false, true))
}

func TestOrderStatus(t *testing.T) {
	o := ReplenishmentOrder{IsSent: true}
	assert.Equal(t, StatusSent, o.Status())

	w := WithdrawOrder{IsSent: true, IsReceived: true}
	assert.Equal(t, StatusReceived, w.Status())
}
