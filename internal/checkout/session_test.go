package checkout

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maryamhelal/yaqeen-storefront/internal/backend"
	"github.com/maryamhelal/yaqeen-storefront/internal/cart"
	"github.com/maryamhelal/yaqeen-storefront/internal/refdata"
)

// fakeBackend is an httptest stand-in for the shop backend: fixed cities and
// tags, scriptable promocode preview and order creation.
type fakeBackend struct {
	srv *httptest.Server

	preview       backend.PreviewResult
	previewStatus int
	orderStatus   int
	orderCalls    atomic.Int64
	lastDraft     backend.OrderDraft
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{
		preview:       backend.PreviewResult{Valid: false, Error: "Invalid promocode"},
		previewStatus: http.StatusOK,
		orderStatus:   http.StatusCreated,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/cities", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": []backend.City{
			{ID: "c1", Name: "Cairo", Price: 50, Areas: []string{"Maadi", "Nasr City"}},
			{ID: "c2", Name: "Alexandria", Price: 70, Areas: []string{"Gleem"}},
		}})
	})
	mux.HandleFunc("/api/tags/categories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []backend.Tag{{ID: "t1", Name: "Abayas", Kind: "category"}})
	})
	mux.HandleFunc("/api/tags/collections", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []backend.Tag{})
	})
	mux.HandleFunc("/api/promocodes/preview", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, fb.previewStatus, fb.preview)
	})
	mux.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		fb.orderCalls.Add(1)
		var draft backend.OrderDraft
		_ = json.NewDecoder(r.Body).Decode(&draft)
		fb.lastDraft = draft
		if fb.orderStatus != http.StatusCreated {
			writeJSON(w, fb.orderStatus, map[string]string{"error": "order rejected"})
			return
		}
		writeJSON(w, http.StatusCreated, backend.OrderResult{Order: &backend.Order{
			ID:          "o1",
			OrderNumber: 1042,
			TotalPrice:  draft.TotalPrice,
			Status:      "pending",
		}})
	})
	mux.HandleFunc("/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, backend.AuthResponse{
			User:  &backend.User{MongoID: "u-mongo", UserID: "u-1", Email: "guest@example.com"},
			Token: "fresh-token",
		})
	})
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, backend.AuthResponse{
			User:  &backend.User{MongoID: "u-mongo", UserID: "u-1", Email: "guest@example.com"},
			Token: "session-token",
		})
	})

	fb.srv = httptest.NewServer(mux)
	t.Cleanup(fb.srv.Close)
	return fb
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func newTestSession(t *testing.T, fb *fakeBackend) (*Session, *cart.Store) {
	t.Helper()
	api := backend.New(fb.srv.URL)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := cart.NewStore(cart.NewFileStorage(filepath.Join(t.TempDir(), "cart.json")), log)
	ref := refdata.NewCache(api, time.Minute)
	return NewSession(store, api, ref, log), store
}

func hijabProduct() backend.Product {
	return backend.Product{
		ID:    "p1",
		Name:  "Chiffon Hijab",
		Price: 400,
		Colors: []backend.ProductColor{
			{Name: "Black", Sizes: []backend.SizeStock{{Size: "M", Quantity: 5}}},
		},
	}
}

func validForm() OrderForm {
	return OrderForm{
		Name:          "Sara",
		Phone:         "01000000000",
		Email:         "sara@example.com",
		Area:          "Maadi",
		Street:        "Road 9",
		Building:      "12",
		ResidenceType: "private_house",
		PaymentMethod: "Cash",
	}
}

func TestLoadReference(t *testing.T) {
	session, _ := newTestSession(t, newFakeBackend(t))

	ref, err := session.LoadReference(context.Background())
	require.NoError(t, err)
	assert.Len(t, ref.Cities, 2)
	assert.Len(t, ref.Categories, 1)
	assert.Empty(t, ref.Collections)
}

func TestSelectCity_SetsShippingFee(t *testing.T) {
	session, store := newTestSession(t, newFakeBackend(t))
	store.Add(hijabProduct(), 2, "Black", "M") // subtotal 800

	require.NoError(t, session.SelectCity(context.Background(), "c1"))

	q := session.Quote()
	assert.Equal(t, 800.0, q.Subtotal)
	assert.Equal(t, 50.0, q.Shipping)
	assert.Equal(t, 850.0, q.Total)
}

func TestSelectCity_UnknownID(t *testing.T) {
	session, _ := newTestSession(t, newFakeBackend(t))

	err := session.SelectCity(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUnknownCity)
}

func TestApplyPromocode_Valid(t *testing.T) {
	fb := newFakeBackend(t)
	fb.preview = backend.PreviewResult{
		Valid:          true,
		DiscountAmount: 100,
		Promocode:      &backend.Promocode{Code: "SALE10"},
	}
	session, store := newTestSession(t, fb)
	store.Add(hijabProduct(), 2, "Black", "M")
	require.NoError(t, session.SelectCity(context.Background(), "c1"))

	state := session.ApplyPromocode(context.Background(), "SALE10")

	assert.Equal(t, PromoApplied, state.Status)
	assert.Equal(t, 100.0, state.Discount)

	q := session.Quote()
	assert.Equal(t, 750.0, q.Total) // 800 + 50 - 100
}

func TestApplyPromocode_InvalidKeepsCheckoutSubmittable(t *testing.T) {
	fb := newFakeBackend(t)
	session, store := newTestSession(t, fb)
	store.Add(hijabProduct(), 2, "Black", "M")
	require.NoError(t, session.SelectCity(context.Background(), "c1"))

	state := session.ApplyPromocode(context.Background(), "SALE10")

	assert.Equal(t, PromoInvalid, state.Status)
	assert.Equal(t, 0.0, state.Discount)
	assert.Equal(t, "Invalid promocode", state.Message)

	// Discount stays zero and the order still goes through.
	q := session.Quote()
	assert.Equal(t, 850.0, q.Total)

	order, err := session.PlaceOrder(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, 1042, order.OrderNumber)
	assert.Nil(t, fb.lastDraft.Promocode)
}

func TestApplyPromocode_BackendErrorSurfacesMessage(t *testing.T) {
	fb := newFakeBackend(t)
	fb.previewStatus = http.StatusBadRequest
	fb.preview = backend.PreviewResult{Error: "promocode expired"}
	session, store := newTestSession(t, fb)
	store.Add(hijabProduct(), 1, "Black", "M")

	state := session.ApplyPromocode(context.Background(), "OLD")

	assert.Equal(t, PromoInvalid, state.Status)
	assert.Equal(t, "promocode expired", state.Message)
}

func TestAppliedPromoRevertsWhenCartChanges(t *testing.T) {
	fb := newFakeBackend(t)
	fb.preview = backend.PreviewResult{Valid: true, DiscountAmount: 100}
	session, store := newTestSession(t, fb)
	store.Add(hijabProduct(), 2, "Black", "M")

	session.ApplyPromocode(context.Background(), "SALE10")
	require.Equal(t, PromoApplied, session.Promo().Status)

	store.Add(hijabProduct(), 1, "Black", "M")

	// Cart changed: no automatic re-validation, the state drops to empty.
	assert.Equal(t, PromoEmpty, session.Promo().Status)
	assert.Equal(t, 0.0, session.Quote().Discount)
}

func TestPlaceOrder_SubmitsDraftAndClearsCart(t *testing.T) {
	fb := newFakeBackend(t)
	session, store := newTestSession(t, fb)
	store.Add(hijabProduct(), 2, "Black", "M")
	require.NoError(t, session.SelectCity(context.Background(), "c1"))

	order, err := session.PlaceOrder(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, "o1", order.ID)

	assert.Empty(t, store.Lines())
	assert.Equal(t, 850.0, fb.lastDraft.TotalPrice)
	require.Len(t, fb.lastDraft.Items, 1)
	assert.Equal(t, 2, fb.lastDraft.Items[0].Quantity)
	assert.Equal(t, "Cairo", fb.lastDraft.ShippingAddress.City)
	assert.Equal(t, "Maadi", fb.lastDraft.ShippingAddress.Area)
}

func TestPlaceOrder_FailureLeavesCartUntouched(t *testing.T) {
	fb := newFakeBackend(t)
	fb.orderStatus = http.StatusBadRequest
	session, store := newTestSession(t, fb)
	store.Add(hijabProduct(), 2, "Black", "M")
	require.NoError(t, session.SelectCity(context.Background(), "c1"))

	_, err := session.PlaceOrder(context.Background(), validForm())

	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "order rejected", apiErr.Message)
	assert.Len(t, store.Lines(), 1)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	session, _ := newTestSession(t, newFakeBackend(t))

	_, err := session.PlaceOrder(context.Background(), validForm())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrder_RequiresContact(t *testing.T) {
	session, store := newTestSession(t, newFakeBackend(t))
	store.Add(hijabProduct(), 1, "Black", "M")

	form := validForm()
	form.Phone = ""

	_, err := session.PlaceOrder(context.Background(), form)
	assert.ErrorIs(t, err, ErrMissingContact)
}

func TestPlaceOrder_RequiresCity(t *testing.T) {
	session, store := newTestSession(t, newFakeBackend(t))
	store.Add(hijabProduct(), 1, "Black", "M")

	_, err := session.PlaceOrder(context.Background(), validForm())
	assert.ErrorIs(t, err, ErrUnknownCity)
}

func TestPlaceOrder_GuestSaveInfoValidation(t *testing.T) {
	fb := newFakeBackend(t)
	session, store := newTestSession(t, fb)
	store.Add(hijabProduct(), 1, "Black", "M")
	require.NoError(t, session.SelectCity(context.Background(), "c1"))

	form := validForm()
	form.SaveInfo = true

	_, err := session.PlaceOrder(context.Background(), form)
	assert.ErrorIs(t, err, ErrMissingPassword)

	form.Password, form.ConfirmPassword = "abc", "abc"
	_, err = session.PlaceOrder(context.Background(), form)
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	form.Password, form.ConfirmPassword = "abcde", "fghij"
	_, err = session.PlaceOrder(context.Background(), form)
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	assert.Zero(t, fb.orderCalls.Load())
}

func TestPlaceOrder_GuestSaveInfoRegistersAndOrders(t *testing.T) {
	fb := newFakeBackend(t)
	session, store := newTestSession(t, fb)
	store.Add(hijabProduct(), 1, "Black", "M")
	require.NoError(t, session.SelectCity(context.Background(), "c1"))

	form := validForm()
	form.SaveInfo = true
	form.Password, form.ConfirmPassword = "abcde", "abcde"

	order, err := session.PlaceOrder(context.Background(), form)
	require.NoError(t, err)
	assert.NotNil(t, order)

	assert.Equal(t, "u-1", fb.lastDraft.Orderer.UserID)
	assert.Equal(t, "u-mongo", fb.lastDraft.Orderer.UserMongoID)
	assert.Empty(t, store.Lines())
}

func TestPlaceOrder_InstapayCarriesUsername(t *testing.T) {
	fb := newFakeBackend(t)
	session, store := newTestSession(t, fb)
	store.Add(hijabProduct(), 1, "Black", "M")
	require.NoError(t, session.SelectCity(context.Background(), "c1"))

	form := validForm()
	form.PaymentMethod = "Instapay"
	form.InstapayUsername = "sara.pay"

	_, err := session.PlaceOrder(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, "sara.pay", fb.lastDraft.InstapayUsername)
}
