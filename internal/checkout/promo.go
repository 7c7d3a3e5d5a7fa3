package checkout

import "github.com/maryamhelal/yaqeen-storefront/internal/backend"

type PromoStatus string

const (
	PromoEmpty      PromoStatus = "EMPTY"
	PromoValidating PromoStatus = "VALIDATING"
	PromoApplied    PromoStatus = "APPLIED"
	PromoInvalid    PromoStatus = "INVALID"
)

func (s PromoStatus) IsSettled() bool {
	return s == PromoApplied || s == PromoInvalid
}

// String representation (for logging)
func (s PromoStatus) String() string {
	return string(s)
}

// PromoState tracks the promocode application lifecycle:
// Empty → Validating → {Applied | Invalid}. An Applied state is pinned to the
// cart revision it was validated against and reverts to Empty when the cart
// or the code text changes; re-validation is never automatic.
type PromoState struct {
	Status   PromoStatus        `json:"status"`
	Code     string             `json:"code,omitempty"`
	Discount float64            `json:"discount"`
	Promo    *backend.Promocode `json:"promocode,omitempty"`
	Message  string             `json:"message,omitempty"`

	cartRev uint64
}

// staleFor reports whether an applied state no longer matches the cart.
func (p PromoState) staleFor(rev uint64) bool {
	return p.Status == PromoApplied && p.cartRev != rev
}
