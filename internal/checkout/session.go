package checkout

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/maryamhelal/yaqeen-storefront/internal/backend"
	"github.com/maryamhelal/yaqeen-storefront/internal/cart"
	"github.com/maryamhelal/yaqeen-storefront/internal/refdata"
)

var (
	ErrEmptyCart          = errors.New("cart is empty, nothing to check out")
	ErrMissingContact     = errors.New("phone and email are required")
	ErrMissingPassword    = errors.New("password and confirm password are required")
	ErrPasswordTooShort   = errors.New("password must be at least 5 characters")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrNoOrderInResponse  = errors.New("order was placed but no confirmation was received")
	ErrUnknownCity        = errors.New("unknown shipping city")
	ErrRegistrationFailed = errors.New("registration failed")
)

// Reference bundles the lookup data a checkout page needs.
type Reference struct {
	Cities      []backend.City
	Categories  []backend.Tag
	Collections []backend.Tag
}

// OrderForm is the shopper's checkout input. Token is the bearer token of a
// logged-in shopper; guests leave it empty and may opt into account creation
// with SaveInfo.
type OrderForm struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`

	Area          string `json:"area"`
	Street        string `json:"street"`
	Landmarks     string `json:"landmarks"`
	Building      string `json:"building"`
	ResidenceType string `json:"residenceType"`
	Floor         string `json:"floor"`
	Apartment     string `json:"apartment"`
	CompanyName   string `json:"companyName"`

	PaymentMethod    string `json:"paymentMethod"`
	InstapayUsername string `json:"instapayUsername"`

	Token           string `json:"-"`
	SaveInfo        bool   `json:"saveInfo"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Session orchestrates one checkout: selected city, promocode state, quote
// derivation and order placement. It owns no pricing rules beyond the
// subtotal/shipping/discount arithmetic; discounts come from the backend
// preview only.
type Session struct {
	store *cart.Store
	api   *backend.Client
	ref   *refdata.Cache
	log   *slog.Logger

	mu    sync.Mutex
	city  *backend.City
	promo PromoState
}

func NewSession(store *cart.Store, api *backend.Client, ref *refdata.Cache, log *slog.Logger) *Session {
	return &Session{store: store, api: api, ref: ref, log: log}
}

// LoadReference fetches cities, categories and collections concurrently.
func (s *Session) LoadReference(ctx context.Context) (*Reference, error) {
	var ref Reference
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ref.Cities, err = s.ref.Cities(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		ref.Categories, err = s.ref.Categories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		ref.Collections, err = s.ref.Collections(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ref, nil
}

// SelectCity picks the shipping city by id from the reference cache.
func (s *Session) SelectCity(ctx context.Context, cityID string) error {
	city, err := s.ref.CityByID(ctx, cityID)
	if err != nil {
		return err
	}
	if city == nil {
		return ErrUnknownCity
	}

	s.mu.Lock()
	s.city = city
	s.mu.Unlock()
	return nil
}

// City returns the currently selected shipping city, nil when none.
func (s *Session) City() *backend.City {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.city
}

// ApplyPromocode validates the code against the current cart snapshot via the
// backend preview endpoint. The result is authoritative; an invalid code
// leaves the discount at zero without blocking checkout.
func (s *Session) ApplyPromocode(ctx context.Context, code string) PromoState {
	if code == "" {
		s.setPromo(PromoState{Status: PromoEmpty})
		return s.Promo()
	}

	rev := s.store.Revision()
	lines := s.store.Lines()
	s.setPromo(PromoState{Status: PromoValidating, Code: code})

	req := backend.PreviewRequest{
		Items:      previewItems(lines),
		TotalPrice: subtotal(lines),
		Promocode:  backend.PromocodeRef{Code: code},
	}

	res, err := s.api.PreviewPromocode(ctx, req)
	if err != nil {
		s.setPromo(PromoState{Status: PromoInvalid, Code: code, Message: userMessage(err)})
		return s.Promo()
	}
	if !res.Valid {
		msg := res.Error
		if msg == "" {
			msg = "Invalid promocode"
		}
		s.setPromo(PromoState{Status: PromoInvalid, Code: code, Message: msg})
		return s.Promo()
	}

	s.setPromo(PromoState{
		Status:   PromoApplied,
		Code:     code,
		Discount: res.DiscountAmount,
		Promo:    res.Promocode,
		cartRev:  rev,
	})
	return s.Promo()
}

// Promo returns the promocode state, reverting a stale Applied state (cart
// changed since validation) to Empty. The shopper must press apply again.
func (s *Session) Promo() PromoState {
	rev := s.store.Revision()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.promo.staleFor(rev) {
		s.promo = PromoState{Status: PromoEmpty}
	}
	return s.promo
}

// Quote prices the current cart against the selected city and any applied
// discount.
func (s *Session) Quote() Quote {
	promo := s.Promo()

	s.mu.Lock()
	city := s.city
	s.mu.Unlock()

	return BuildQuote(s.store.Lines(), city, promo.Discount)
}

// PlaceOrder validates the form, optionally registers a guest who asked to
// save their info, submits the order and clears the cart on success. Any
// failure leaves the cart untouched so the shopper can correct and resubmit.
func (s *Session) PlaceOrder(ctx context.Context, form OrderForm) (*backend.Order, error) {
	lines := s.store.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	if form.Phone == "" || form.Email == "" {
		return nil, ErrMissingContact
	}

	s.mu.Lock()
	city := s.city
	s.mu.Unlock()
	if city == nil {
		return nil, ErrUnknownCity
	}

	token := form.Token
	orderer := backend.Orderer{Name: form.Name, Email: form.Email, Phone: form.Phone}

	if token == "" && form.SaveInfo {
		auth, err := s.registerGuest(ctx, form, city)
		if err != nil {
			return nil, err
		}
		token = auth.Token
		if auth.User != nil {
			orderer.UserID = auth.User.UserID
			orderer.UserMongoID = auth.User.MongoID
		}
	}

	quote := s.Quote()
	promo := s.Promo()

	draft := backend.OrderDraft{
		Items:           orderItems(lines),
		TotalPrice:      quote.Total,
		ShippingAddress: s.shippingAddress(form, city),
		Orderer:         orderer,
		PaymentMethod:   form.PaymentMethod,
	}
	if promo.Status == PromoApplied {
		draft.Promocode = &backend.PromocodeRef{Code: promo.Code}
	}
	if form.PaymentMethod == "Instapay" {
		draft.InstapayUsername = form.InstapayUsername
	}

	res, err := s.api.CreateOrder(ctx, token, draft)
	if err != nil {
		return nil, err
	}
	if res.Order == nil {
		return nil, ErrNoOrderInResponse
	}

	s.store.Clear()
	return res.Order, nil
}

func (s *Session) registerGuest(ctx context.Context, form OrderForm, city *backend.City) (*backend.AuthResponse, error) {
	if form.Password == "" || form.ConfirmPassword == "" {
		return nil, ErrMissingPassword
	}
	if len(form.Password) < 5 {
		return nil, ErrPasswordTooShort
	}
	if form.Password != form.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	addr := s.address(form, city)
	reg, err := s.api.Register(ctx, backend.RegisterRequest{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
		Phone:    form.Phone,
		Address:  &addr,
	})
	if err != nil {
		return nil, err
	}
	if reg.User == nil || reg.Token == "" {
		return nil, ErrRegistrationFailed
	}

	return s.api.Login(ctx, backend.Credentials{Email: form.Email, Password: form.Password})
}

func (s *Session) address(form OrderForm, city *backend.City) backend.Address {
	addr := backend.Address{
		CityID:        city.ID,
		City:          city.Name,
		Area:          form.Area,
		Street:        form.Street,
		Landmarks:     form.Landmarks,
		Building:      form.Building,
		ResidenceType: form.ResidenceType,
	}
	switch form.ResidenceType {
	case "apartment":
		addr.Floor = form.Floor
		addr.Apartment = form.Apartment
	case "work":
		addr.CompanyName = form.CompanyName
	}
	return addr
}

func (s *Session) shippingAddress(form OrderForm, city *backend.City) backend.ShippingAddress {
	addr := s.address(form, city)
	return backend.ShippingAddress{
		Name:          form.Name,
		CityID:        addr.CityID,
		City:          addr.City,
		Area:          addr.Area,
		Street:        addr.Street,
		Landmarks:     addr.Landmarks,
		Building:      addr.Building,
		ResidenceType: addr.ResidenceType,
		Floor:         addr.Floor,
		Apartment:     addr.Apartment,
		CompanyName:   addr.CompanyName,
		Phone:         form.Phone,
	}
}

func (s *Session) setPromo(p PromoState) {
	s.mu.Lock()
	s.promo = p
	s.mu.Unlock()
}

func subtotal(lines []cart.Line) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.UnitPrice * float64(l.Quantity)
	}
	return sum
}

func previewItems(lines []cart.Line) []backend.PreviewItem {
	items := make([]backend.PreviewItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, backend.PreviewItem{
			ID:           l.ProductID,
			Name:         l.Name,
			Price:        l.UnitPrice,
			Color:        l.Color,
			Size:         l.Size,
			Quantity:     l.Quantity,
			CategoryID:   l.CategoryID,
			CollectionID: l.CollectionID,
		})
	}
	return items
}

func orderItems(lines []cart.Line) []backend.OrderItem {
	items := make([]backend.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, backend.OrderItem{
			ID:           l.ProductID,
			Name:         l.Name,
			Price:        l.UnitPrice,
			Image:        l.ImageURL,
			Color:        l.Color,
			Size:         l.Size,
			Quantity:     l.Quantity,
			CategoryID:   l.CategoryID,
			CollectionID: l.CollectionID,
		})
	}
	return items
}

func userMessage(err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "Error validating promocode"
}
