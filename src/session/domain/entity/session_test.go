package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogEntity "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/catalog/domain/entity"
)

func simpleProduct() *catalogEntity.Product {
	return &catalogEntity.Product{
		ProductID: "prod-empanada",
		Name:      "Empanada de carne",
		BasePrice: decimal.RequireFromString("1.80"),
	}
}

func sessionWithItem(t *testing.T) *Session {
	t.Helper()
	sess := NewSession("tenant-1", "sess-1")
	require.NoError(t, sess.Browse())
	_, err := sess.Cart.AddItem(simpleProduct(), 2, "", nil, "")
	require.NoError(t, err)
	require.NoError(t, sess.ItemAdded(false))
	return sess
}

func TestSession_HappyPath(t *testing.T) {
	sess := sessionWithItem(t)

	require.NoError(t, sess.CheckoutRequested())
	assert.Equal(t, StageDeliveryMethod, sess.Stage)

	require.NoError(t, sess.DeliveryChosen(DeliveryMethodPickup, ""))
	assert.Equal(t, StagePaymentMethod, sess.Stage)

	require.NoError(t, sess.PaymentChosen(PaymentMethodCash))
	assert.Equal(t, StageConfirming, sess.Stage)

	require.NoError(t, sess.Confirmed())
	assert.Equal(t, StageSubmitted, sess.Stage)
	assert.True(t, sess.Cart.IsEmpty())
	assert.Empty(t, sess.Payment)
}

func TestSession_CheckoutWithEmptyCart(t *testing.T) {
	sess := NewSession("tenant-1", "sess-1")
	require.NoError(t, sess.Browse())

	err := sess.CheckoutRequested()

	assert.ErrorIs(t, err, ErrCartEmpty)
	assert.Equal(t, StageSelecting, sess.Stage, "con carrito vacío la sesión sigue en Selecting")
}

func TestSession_NoDoubleCheckout(t *testing.T) {
	sess := sessionWithItem(t)
	require.NoError(t, sess.CheckoutRequested())

	// Un segundo checkout en medio del checkout no reinicia el flujo
	err := sess.CheckoutRequested()
	assert.ErrorIs(t, err, ErrStageMismatch)
	assert.Equal(t, StageDeliveryMethod, sess.Stage)
}

func TestSession_OutOfStageEventLeavesStateUnchanged(t *testing.T) {
	sess := sessionWithItem(t)
	before := sess.Stage

	assert.ErrorIs(t, sess.PaymentChosen(PaymentMethodCard), ErrStageMismatch)
	assert.ErrorIs(t, sess.Confirmed(), ErrStageMismatch)
	assert.ErrorIs(t, sess.DeliveryChosen(DeliveryMethodPickup, ""), ErrStageMismatch)

	assert.Equal(t, before, sess.Stage)
	assert.False(t, sess.Cart.IsEmpty(), "el carrito no se toca ante eventos fuera de etapa")
}

func TestSession_DeliveryRequiresAddress(t *testing.T) {
	sess := sessionWithItem(t)
	require.NoError(t, sess.CheckoutRequested())

	err := sess.DeliveryChosen(DeliveryMethodDelivery, "")
	assert.ErrorIs(t, err, ErrAddressRequired)
	assert.Equal(t, StageDeliveryMethod, sess.Stage)
	assert.True(t, sess.AwaitingAddress)

	require.NoError(t, sess.AddressProvided("Av. Corrientes 1234"))
	assert.Equal(t, StagePaymentMethod, sess.Stage)
	assert.Equal(t, "Av. Corrientes 1234", sess.DeliveryAddress)
	assert.False(t, sess.AwaitingAddress)
}

func TestSession_DeliveryWithInlineAddress(t *testing.T) {
	sess := sessionWithItem(t)
	require.NoError(t, sess.CheckoutRequested())

	require.NoError(t, sess.DeliveryChosen(DeliveryMethodDelivery, "Calle Falsa 123"))
	assert.Equal(t, StagePaymentMethod, sess.Stage)
	assert.False(t, sess.AwaitingAddress)
}

func TestSession_PickupNeedsNoAddress(t *testing.T) {
	sess := sessionWithItem(t)
	require.NoError(t, sess.CheckoutRequested())

	require.NoError(t, sess.DeliveryChosen(DeliveryMethodPickup, ""))
	assert.Equal(t, StagePaymentMethod, sess.Stage)
}

func TestSession_CancelFromAnyStage(t *testing.T) {
	stages := []func(*testing.T) *Session{
		func(t *testing.T) *Session { return NewSession("tenant-1", "s") },
		sessionWithItem,
		func(t *testing.T) *Session {
			sess := sessionWithItem(t)
			require.NoError(t, sess.CheckoutRequested())
			return sess
		},
		func(t *testing.T) *Session {
			sess := sessionWithItem(t)
			require.NoError(t, sess.CheckoutRequested())
			require.NoError(t, sess.DeliveryChosen(DeliveryMethodPickup, ""))
			require.NoError(t, sess.PaymentChosen(PaymentMethodCash))
			return sess
		},
	}

	for _, build := range stages {
		sess := build(t)
		require.NoError(t, sess.Cancel())
		assert.Equal(t, StageCancelled, sess.Stage)
		assert.True(t, sess.Cart.IsEmpty())
	}
}

func TestSession_CancelTwice(t *testing.T) {
	sess := sessionWithItem(t)
	require.NoError(t, sess.Cancel())

	assert.ErrorIs(t, sess.Cancel(), ErrSessionCancelled)
}

func TestSession_BrowseAfterTerminalStartsFreshOrder(t *testing.T) {
	sess := sessionWithItem(t)
	require.NoError(t, sess.CheckoutRequested())
	require.NoError(t, sess.DeliveryChosen(DeliveryMethodPickup, ""))
	require.NoError(t, sess.PaymentChosen(PaymentMethodCash))
	require.NoError(t, sess.Confirmed())

	require.NoError(t, sess.Browse())
	assert.Equal(t, StageSelecting, sess.Stage)
	assert.True(t, sess.Cart.IsEmpty())
	assert.Empty(t, sess.DeliveryMethod)
}

func TestSession_ClearCartDuringCheckoutResetsStage(t *testing.T) {
	sess := sessionWithItem(t)
	require.NoError(t, sess.CheckoutRequested())
	require.NoError(t, sess.DeliveryChosen(DeliveryMethodPickup, ""))

	sess.ClearCart()

	assert.Equal(t, StageSelecting, sess.Stage, "ninguna etapa de checkout es válida con carrito vacío")
	assert.True(t, sess.Cart.IsEmpty())
}

func TestSession_Customizing(t *testing.T) {
	sess := NewSession("tenant-1", "sess-1")
	require.NoError(t, sess.Browse())

	require.NoError(t, sess.ItemAdded(true))
	assert.Equal(t, StageCustomizing, sess.Stage)

	require.NoError(t, sess.CustomizationComplete())
	assert.Equal(t, StageSelecting, sess.Stage)
}

func TestSession_ExpiredSince(t *testing.T) {
	sess := NewSession("tenant-1", "sess-1")
	sess.LastActivity = time.Now().Add(-31 * time.Minute)

	assert.True(t, sess.ExpiredSince(30*time.Minute))

	sess.Touch()
	assert.False(t, sess.ExpiredSince(30*time.Minute))
}

func TestParseDeliveryAndPaymentMethods(t *testing.T) {
	method, err := ParseDeliveryMethod("delivery")
	require.NoError(t, err)
	assert.Equal(t, DeliveryMethodDelivery, method)

	_, err = ParseDeliveryMethod("drone")
	assert.ErrorIs(t, err, ErrInvalidDeliveryMethod)

	payment, err := ParsePaymentMethod("transfer")
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodTransfer, payment)

	_, err = ParsePaymentMethod("bitcoin")
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}
