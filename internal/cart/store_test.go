package cart

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maryamhelal/yaqeen-storefront/internal/backend"
)

type memStorage struct {
	m       sync.Mutex
	lines   []Line
	saves   int
	loadErr error
	saveErr error
}

func (m *memStorage) Load(context.Context) ([]Line, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.lines, nil
}

func (m *memStorage) Save(_ context.Context, lines []Line) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.lines = lines
	m.saves++
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) (*Store, *memStorage) {
	t.Helper()
	storage := &memStorage{loadErr: ErrNotFound}
	return NewStore(storage, discardLogger()), storage
}

func saleProduct() backend.Product {
	return backend.Product{
		ID:             "p1",
		Name:           "Classic Abaya",
		Price:          500,
		SalePercentage: 20,
		Image:          "https://cdn.example.com/abaya.jpg",
		Colors: []backend.ProductColor{
			{
				Name:  "Black",
				Image: "https://cdn.example.com/abaya-black.jpg",
				Sizes: []backend.SizeStock{
					{Size: "M", Quantity: 3},
					{Size: "L", Quantity: 5},
					{Size: "XL", Quantity: 0},
				},
			},
		},
		CategoryID: "cat-abayas",
	}
}

func TestAdd_AppliesSalePriceAndClampsToStock(t *testing.T) {
	store, _ := newTestStore(t)

	store.Add(saleProduct(), 2, "Black", "M")

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 400.0, lines[0].UnitPrice) // 500 at 20% off
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 3, lines[0].MaxQuantity)
	assert.Equal(t, "https://cdn.example.com/abaya-black.jpg", lines[0].ImageURL)

	// Re-adding the same variant merges and clamps at stock, no duplicate row.
	store.Add(saleProduct(), 2, "Black", "M")

	lines = store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestAdd_PrefersBackendSalePrice(t *testing.T) {
	store, _ := newTestStore(t)

	p := saleProduct()
	p.SalePrice = 399
	store.Add(p, 1, "Black", "M")

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 399.0, lines[0].UnitPrice)
}

func TestAdd_NoSaleUsesListPrice(t *testing.T) {
	store, _ := newTestStore(t)

	p := saleProduct()
	p.SalePercentage = 0
	store.Add(p, 1, "Black", "M")

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 500.0, lines[0].UnitPrice)
}

func TestAdd_DistinctVariantsGetDistinctLines(t *testing.T) {
	store, _ := newTestStore(t)

	store.Add(saleProduct(), 1, "Black", "M")
	store.Add(saleProduct(), 1, "Black", "L")

	assert.Len(t, store.Lines(), 2)
}

func TestAdd_SoldOutVariantFallsBackToOne(t *testing.T) {
	store, _ := newTestStore(t)

	store.Add(saleProduct(), 4, "Black", "XL")

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, 1, lines[0].MaxQuantity)
}

func TestAdd_UnknownVariantDefaultsStockToOne(t *testing.T) {
	store, _ := newTestStore(t)

	store.Add(saleProduct(), 4, "Ivory", "M")

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].MaxQuantity)
	assert.Equal(t, 1, lines[0].Quantity)
	// Unknown color keeps the product-level image.
	assert.Equal(t, "https://cdn.example.com/abaya.jpg", lines[0].ImageURL)
}

func TestAddThenRemove_RoundTrips(t *testing.T) {
	store, _ := newTestStore(t)

	store.Add(saleProduct(), 1, "Black", "L")
	before := store.Lines()

	store.Add(saleProduct(), 2, "Black", "M")
	store.Remove("p1", "Black", "M")

	assert.Equal(t, before, store.Lines())
}

func TestRemove_AbsentLineIsNoop(t *testing.T) {
	store, storage := newTestStore(t)

	store.Add(saleProduct(), 1, "Black", "M")
	savesBefore := storage.saves

	store.Remove("p1", "Black", "S")

	assert.Len(t, store.Lines(), 1)
	assert.Equal(t, savesBefore, storage.saves)
}

func TestUpdateQuantity_OverwritesWithoutClamping(t *testing.T) {
	store, _ := newTestStore(t)

	store.Add(saleProduct(), 1, "Black", "M")
	store.UpdateQuantity("p1", "Black", "M", 99)

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 99, lines[0].Quantity)
}

func TestClear_AlwaysYieldsEmptyCart(t *testing.T) {
	store, _ := newTestStore(t)

	store.Add(saleProduct(), 2, "Black", "M")
	store.Add(saleProduct(), 1, "Black", "L")
	store.Clear()

	assert.Empty(t, store.Lines())
	assert.Equal(t, 0.0, store.Subtotal())
}

func TestSubtotal(t *testing.T) {
	store, _ := newTestStore(t)

	store.Add(saleProduct(), 2, "Black", "M") // 2 x 400

	assert.Equal(t, 800.0, store.Subtotal())
}

func TestMutationsPersistAndBumpRevision(t *testing.T) {
	store, storage := newTestStore(t)

	rev := store.Revision()
	store.Add(saleProduct(), 1, "Black", "M")

	assert.Greater(t, store.Revision(), rev)
	assert.Equal(t, 1, storage.saves)
	require.Len(t, storage.lines, 1)
	assert.Equal(t, "p1", storage.lines[0].ProductID)
}

func TestNewStore_RehydratesFromStorage(t *testing.T) {
	storage := &memStorage{lines: []Line{{ProductID: "p9", Quantity: 2, UnitPrice: 150}}}

	store := NewStore(storage, discardLogger())

	require.Len(t, store.Lines(), 1)
	assert.Equal(t, 300.0, store.Subtotal())
}

func TestNewStore_CorruptStorageYieldsEmptyCart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := NewStore(NewFileStorage(path), discardLogger())

	assert.Empty(t, store.Lines())
}

func TestSaveFailureDoesNotBlockMutations(t *testing.T) {
	storage := &memStorage{loadErr: ErrNotFound, saveErr: assert.AnError}
	store := NewStore(storage, discardLogger())

	store.Add(saleProduct(), 1, "Black", "M")

	assert.Len(t, store.Lines(), 1)
}
