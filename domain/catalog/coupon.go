package catalog

import (
	"strings"
	"time"

	"github.com/blackforge/storefront/pkg/fault"
)

// CouponType is how a coupon's value is interpreted.
type CouponType string

const (
	// CouponPercent discounts a percentage of the subtotal.
	CouponPercent CouponType = "percent"
	// CouponFixed discounts a fixed amount in major currency units.
	CouponFixed CouponType = "fixed"
)

// Coupon represents a discount code. Codes are stored uppercase and
// matched case-insensitively. Value is percent points for percent
// coupons and major currency units for fixed coupons.
type Coupon struct {
	Code        string     `json:"code"`
	Type        CouponType `json:"type"`
	Value       float64    `json:"value"`
	Description string     `json:"description"`
	Active      bool       `json:"active"`
	Visible     bool       `json:"visible"`
	Expires     string     `json:"expires,omitempty"` // YYYY-MM-DD, empty = never
}

// Expired reports whether the coupon's expiry date has passed at now.
// Expiry is inclusive of the whole final day (UTC end-of-day). A blank
// or unparseable date never expires.
func (c Coupon) Expired(now time.Time) bool {
	if c.Expires == "" {
		return false
	}
	day, err := time.Parse("2006-01-02", c.Expires)
	if err != nil {
		return false
	}
	endOfDay := day.Add(24*time.Hour - time.Millisecond)
	return now.After(endOfDay)
}

// ResolveCoupon validates a raw coupon code against a catalog snapshot.
// A blank code means no coupon and returns (nil, nil). A non-blank code
// must exist, be active, and be unexpired.
func ResolveCoupon(c Catalog, rawCode string, now time.Time) (*Coupon, error) {
	code := strings.ToUpper(strings.TrimSpace(rawCode))
	if code == "" {
		return nil, nil
	}

	for i := range c.Coupons {
		if strings.ToUpper(c.Coupons[i].Code) != code {
			continue
		}
		coupon := c.Coupons[i]
		if !coupon.Active {
			return nil, fault.New(fault.Validation, "coupon inactive")
		}
		if coupon.Expired(now) {
			return nil, fault.New(fault.Validation, "coupon expired")
		}
		return &coupon, nil
	}
	return nil, fault.New(fault.NotFound, "coupon not found")
}

// FindCoupon finds a coupon by its uppercase code.
func FindCoupon(coupons []Coupon, code string) (Coupon, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	for _, c := range coupons {
		if strings.ToUpper(c.Code) == normalized {
			return c, true
		}
	}
	return Coupon{}, false
}

// NormalizeCoupon validates and canonicalizes a coupon record.
func NormalizeCoupon(in Coupon) (Coupon, error) {
	out := Coupon{
		Code:        strings.ToUpper(strings.TrimSpace(in.Code)),
		Type:        CouponType(strings.ToLower(strings.TrimSpace(string(in.Type)))),
		Value:       in.Value,
		Description: strings.TrimSpace(in.Description),
		Active:      in.Active,
		Visible:     in.Visible,
		Expires:     strings.TrimSpace(in.Expires),
	}

	if out.Code == "" {
		return Coupon{}, fault.New(fault.Validation, "coupon code is required")
	}
	if out.Type != CouponPercent && out.Type != CouponFixed {
		return Coupon{}, fault.New(fault.Validation, "coupon type must be percent or fixed")
	}
	if out.Value <= 0 {
		return Coupon{}, fault.New(fault.Validation, "coupon value must be positive")
	}
	return out, nil
}
