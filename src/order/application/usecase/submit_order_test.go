package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartEntity "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/cart/domain/entity"
	catalogEntity "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/catalog/domain/entity"
	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/order/domain/entity"
	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/order/infrastructure/client"
	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/order/infrastructure/persistence"
)

// fakeCatalog sirve un catálogo fijo para validar/repreciar items al enviar
type fakeCatalog struct {
	products map[string]*catalogEntity.Product
}

func (f *fakeCatalog) GetCategories(ctx context.Context, tenantID string) ([]catalogEntity.Category, catalogEntity.CatalogSource, error) {
	return nil, catalogEntity.SourceRemote, nil
}

func (f *fakeCatalog) GetProduct(ctx context.Context, tenantID, productID string) (*catalogEntity.Product, catalogEntity.CatalogSource, error) {
	product, ok := f.products[productID]
	if !ok {
		return nil, catalogEntity.SourceRemote, catalogEntity.ErrProductNotFound
	}
	return product, catalogEntity.SourceRemote, nil
}

func (f *fakeCatalog) Search(ctx context.Context, tenantID, term string) ([]catalogEntity.Product, catalogEntity.CatalogSource, error) {
	return nil, catalogEntity.SourceRemote, nil
}

func (f *fakeCatalog) ResolveLegacyID(categoryKey string, index int) (string, error) {
	return "", catalogEntity.ErrLegacyIDNotFound
}

// fakeCommerce simula el backend de comercio; registra las claves de
// idempotencia que recibió
type fakeCommerce struct {
	err          error
	calls        int
	localOrderID string
}

func (f *fakeCommerce) CreateOrder(ctx context.Context, tenantID string, order *entity.Order) (*client.CreateOrderResponse, error) {
	f.calls++
	f.localOrderID = order.OrderID
	if f.err != nil {
		return nil, f.err
	}
	return &client.CreateOrderResponse{RemoteOrderID: "remote-1", OrderNumber: "ORD-0001"}, nil
}

func catalogWithPizza() *fakeCatalog {
	return &fakeCatalog{products: map[string]*catalogEntity.Product{
		"prod-pizza-muzzarella": {
			ProductID: "prod-pizza-muzzarella",
			Name:      "Pizza Muzzarella",
			BasePrice: decimal.RequireFromString("12.99"),
			Presentations: []catalogEntity.Presentation{
				{PresentationID: "pres-pizza-grande", Name: "Grande", Price: decimal.RequireFromString("15.99")},
			},
			Modifiers: []catalogEntity.Modifier{
				{
					ModifierID:    "mod-pizza-extras",
					Name:          "Extras",
					MaxSelections: 3,
					Options: []catalogEntity.ModifierOption{
						{OptionID: "opt-queso-extra", Name: "Queso extra", PriceDelta: decimal.RequireFromString("2.00")},
					},
				},
			},
		},
	}}
}

func fullCart(t *testing.T, catalog *fakeCatalog) *cartEntity.Cart {
	t.Helper()
	cart := cartEntity.NewCart()
	_, err := cart.AddItem(catalog.products["prod-pizza-muzzarella"], 2, "pres-pizza-grande", map[string][]string{
		"mod-pizza-extras": {"opt-queso-extra"},
	}, "")
	require.NoError(t, err)
	return cart
}

func testInput() SubmitOrderInput {
	return SubmitOrderInput{
		TenantID:       "tenant-1",
		SessionID:      "sess-1",
		CustomerName:   "Ana",
		CustomerPhone:  "+5491100000000",
		DeliveryMethod: "pickup",
		PaymentMethod:  "cash",
	}
}

func fastRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2.0}
}

func newSubmitFixture(t *testing.T, commerce *fakeCommerce) (*SubmitOrderUseCase, *persistence.OrderSQLiteRepository, *fakeCatalog) {
	t.Helper()
	repo, err := persistence.NewOrderSQLiteRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	catalog := catalogWithPizza()
	uc := NewSubmitOrderUseCase(repo, commerce, catalog, fastRetry())
	return uc, repo, catalog
}

func TestSubmitOrder_RemoteAvailable(t *testing.T) {
	commerce := &fakeCommerce{}
	uc, repo, catalog := newSubmitFixture(t, commerce)
	cart := fullCart(t, catalog)

	order, err := uc.Execute(context.Background(), testInput(), cart)

	require.NoError(t, err)
	assert.Equal(t, entity.SyncStatusSynced, order.Status)
	assert.Equal(t, "remote-1", order.RemoteOrderID)
	assert.Equal(t, "ORD-0001", order.RemoteOrderNumber)
	// Precio autoritativo recalculado: (15.99 + 2.00) * 2
	assert.True(t, order.Total.Equal(decimal.RequireFromString("35.98")))

	persisted, err := repo.FindByID(context.Background(), order.OrderID, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, entity.SyncStatusSynced, persisted.Status)
}

func TestSubmitOrder_RemoteDownLeavesSyncPending(t *testing.T) {
	commerce := &fakeCommerce{err: errors.New("connection refused")}
	uc, repo, catalog := newSubmitFixture(t, commerce)
	cart := fullCart(t, catalog)

	order, err := uc.Execute(context.Background(), testInput(), cart)

	require.NoError(t, err, "el backend caído no hace fallar el envío")
	assert.Equal(t, entity.SyncStatusPending, order.Status)
	assert.NotEmpty(t, order.OrderID, "el ID local se asigna siempre")
	assert.Empty(t, order.RemoteOrderID)
	assert.Equal(t, 2, commerce.calls, "reintentos acotados por la configuración")

	persisted, err := repo.FindByID(context.Background(), order.OrderID, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, entity.SyncStatusPending, persisted.Status)
	assert.Len(t, persisted.Items, 1)
}

func TestSubmitOrder_EmptyCart(t *testing.T) {
	uc, repo, _ := newSubmitFixture(t, &fakeCommerce{})

	_, err := uc.Execute(context.Background(), testInput(), cartEntity.NewCart())

	assert.ErrorIs(t, err, entity.ErrOrderMustHaveItems)

	_, total, err := repo.List(context.Background(), "tenant-1", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, total, "un envío inválido no deja pedidos parciales")
}

func TestSubmitOrder_DeliveryWithoutAddress(t *testing.T) {
	commerce := &fakeCommerce{}
	uc, repo, catalog := newSubmitFixture(t, commerce)
	cart := fullCart(t, catalog)

	input := testInput()
	input.DeliveryMethod = "delivery"
	input.DeliveryAddress = ""

	_, err := uc.Execute(context.Background(), input, cart)

	assert.ErrorIs(t, err, entity.ErrAddressRequired)
	assert.Equal(t, 0, commerce.calls)

	_, total, err := repo.List(context.Background(), "tenant-1", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestSubmitOrder_IncompleteItemRejected(t *testing.T) {
	commerce := &fakeCommerce{}
	uc, repo, catalog := newSubmitFixture(t, commerce)

	// El catálogo cambió desde que el item entró al carrito: ahora el grupo
	// de extras es obligatorio y el item quedó incompleto
	catalog.products["prod-pizza-muzzarella"].Modifiers[0].MinSelections = 1

	cart := cartEntity.NewCart()
	_, err := cart.AddItem(&catalogEntity.Product{
		ProductID: "prod-pizza-muzzarella",
		Name:      "Pizza Muzzarella",
		BasePrice: decimal.RequireFromString("12.99"),
	}, 1, "", nil, "")
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), testInput(), cart)

	assert.ErrorIs(t, err, cartEntity.ErrRequiredModifierMissing)

	_, total, err := repo.List(context.Background(), "tenant-1", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestSubmitOrder_IdempotencyKeyIsLocalOrderID(t *testing.T) {
	commerce := &fakeCommerce{}
	uc, _, catalog := newSubmitFixture(t, commerce)
	cart := fullCart(t, catalog)

	order, err := uc.Execute(context.Background(), testInput(), cart)

	require.NoError(t, err)
	assert.Equal(t, order.OrderID, commerce.localOrderID)
}

func TestResync_PendingOrderGetsSynced(t *testing.T) {
	commerce := &fakeCommerce{err: errors.New("down")}
	uc, repo, catalog := newSubmitFixture(t, commerce)
	cart := fullCart(t, catalog)

	order, err := uc.Execute(context.Background(), testInput(), cart)
	require.NoError(t, err)
	require.Equal(t, entity.SyncStatusPending, order.Status)
	firstID := order.OrderID

	// El backend vuelve
	commerce.err = nil

	require.NoError(t, uc.Resync(context.Background(), order))

	assert.Equal(t, entity.SyncStatusSynced, order.Status)
	assert.Equal(t, firstID, commerce.localOrderID, "el reenvío usa el mismo ID local como clave de idempotencia")

	persisted, err := repo.FindByID(context.Background(), order.OrderID, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, entity.SyncStatusSynced, persisted.Status)
}

func TestResync_SyncedOrderIsNoOp(t *testing.T) {
	commerce := &fakeCommerce{}
	uc, _, catalog := newSubmitFixture(t, commerce)
	cart := fullCart(t, catalog)

	order, err := uc.Execute(context.Background(), testInput(), cart)
	require.NoError(t, err)
	require.Equal(t, entity.SyncStatusSynced, order.Status)
	callsAfterSubmit := commerce.calls

	require.NoError(t, uc.Resync(context.Background(), order))

	assert.Equal(t, callsAfterSubmit, commerce.calls, "un pedido synced no se reenvía")
}

func TestResyncOrdersUseCase_Execute(t *testing.T) {
	commerce := &fakeCommerce{err: errors.New("down")}
	uc, repo, catalog := newSubmitFixture(t, commerce)

	for i := 0; i < 3; i++ {
		cart := fullCart(t, catalog)
		_, err := uc.Execute(context.Background(), testInput(), cart)
		require.NoError(t, err)
	}

	commerce.err = nil
	resyncUC := NewResyncOrdersUseCase(repo, uc)

	synced, err := resyncUC.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, synced)

	pending, err := repo.FindPending(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Una segunda pasada no tiene nada para hacer
	synced, err = resyncUC.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, synced)
}
