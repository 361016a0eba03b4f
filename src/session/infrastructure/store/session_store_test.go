package store

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogEntity "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/catalog/domain/entity"
)

func simpleTestProduct() *catalogEntity.Product {
	return &catalogEntity.Product{
		ProductID: "prod-gaseosa-cola",
		Name:      "Gaseosa Cola",
		BasePrice: decimal.RequireFromString("2.50"),
	}
}

func TestSessionStore_GetOrCreate(t *testing.T) {
	s := NewSessionStore(30 * time.Minute)

	first := s.GetOrCreate("tenant-1", "sess-1")
	second := s.GetOrCreate("tenant-1", "sess-1")

	assert.Same(t, first, second, "la misma conversación devuelve la misma sesión")
	assert.Equal(t, 1, s.Count())
}

func TestSessionStore_TenantsDoNotShareSessions(t *testing.T) {
	s := NewSessionStore(30 * time.Minute)

	a := s.GetOrCreate("tenant-1", "sess-1")
	b := s.GetOrCreate("tenant-2", "sess-1")

	assert.NotSame(t, a, b)
	assert.Equal(t, 2, s.Count())
}

func TestSessionStore_ExpiredSessionIsReplaced(t *testing.T) {
	s := NewSessionStore(time.Millisecond)

	old := s.GetOrCreate("tenant-1", "sess-1")
	_, err := old.Cart.AddItem(simpleTestProduct(), 1, "", nil, "")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	fresh := s.GetOrCreate("tenant-1", "sess-1")
	assert.NotSame(t, old, fresh)
	assert.True(t, fresh.Cart.IsEmpty(), "el carrito abandonado se descarta con la sesión")
}

func TestSessionStore_PurgeExpired(t *testing.T) {
	s := NewSessionStore(time.Millisecond)
	s.GetOrCreate("tenant-1", "sess-1")
	s.GetOrCreate("tenant-1", "sess-2")

	time.Sleep(5 * time.Millisecond)
	s.GetOrCreate("tenant-1", "sess-3").Touch()

	purged := s.PurgeExpired()

	assert.Equal(t, 2, purged)
	assert.Equal(t, 1, s.Count())
}

func TestSessionStore_ConcurrentGetOrCreate(t *testing.T) {
	s := NewSessionStore(30 * time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.GetOrCreate("tenant-1", "sess-1")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, s.Count(), "accesos concurrentes no duplican la sesión")
}
