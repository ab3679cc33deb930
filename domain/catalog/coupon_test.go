package catalog_test

import (
	"testing"
	"time"

	"github.com/blackforge/storefront/domain/catalog"
	"github.com/blackforge/storefront/pkg/fault"
)

func testCatalog() catalog.Catalog {
	return catalog.Catalog{
		Coupons: []catalog.Coupon{
			{Code: "FORJA10", Type: catalog.CouponPercent, Value: 10, Active: true, Visible: true, Expires: "2026-12-31"},
			{Code: "VIEJO", Type: catalog.CouponFixed, Value: 5, Active: true, Expires: "2026-01-01"},
			{Code: "PAUSADO", Type: catalog.CouponPercent, Value: 20, Active: false},
		},
	}
}

func TestResolveCoupon_BlankCodeMeansNoCoupon(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	for _, code := range []string{"", "   ", "\t"} {
		coupon, err := catalog.ResolveCoupon(testCatalog(), code, now)
		if coupon != nil || err != nil {
			t.Errorf("code %q: got (%v, %v), want (nil, nil)", code, coupon, err)
		}
	}
}

func TestResolveCoupon_CaseInsensitive(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	coupon, err := catalog.ResolveCoupon(testCatalog(), "  forja10 ", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coupon == nil || coupon.Code != "FORJA10" {
		t.Errorf("got %+v, want FORJA10", coupon)
	}
}

func TestResolveCoupon_Unknown(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	_, err := catalog.ResolveCoupon(testCatalog(), "NADA", now)
	if !fault.IsKind(err, fault.NotFound) {
		t.Errorf("got %v, want NotFound", err)
	}
}

func TestResolveCoupon_Inactive(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	_, err := catalog.ResolveCoupon(testCatalog(), "PAUSADO", now)
	if !fault.IsKind(err, fault.Validation) {
		t.Errorf("got %v, want Validation", err)
	}
}

func TestResolveCoupon_Expired(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	_, err := catalog.ResolveCoupon(testCatalog(), "VIEJO", now)
	if !fault.IsKind(err, fault.Validation) {
		t.Errorf("got %v, want Validation", err)
	}
}

func TestCouponExpired_EndOfDayInclusive(t *testing.T) {
	coupon := catalog.Coupon{Code: "C", Expires: "2026-08-31"}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"morning of expiry day", time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC), false},
		{"last moment of expiry day", time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC), false},
		{"first moment after", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), true},
		{"well after", time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := coupon.Expired(tt.now); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCouponExpired_UnparseableNeverExpires(t *testing.T) {
	far := time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, expires := range []string{"", "soon", "31/12/2026"} {
		coupon := catalog.Coupon{Code: "C", Expires: expires}
		if coupon.Expired(far) {
			t.Errorf("expires=%q: expired, want not expired", expires)
		}
	}
}

func TestNormalizeCoupon(t *testing.T) {
	got, err := catalog.NormalizeCoupon(catalog.Coupon{
		Code:  " forja10 ",
		Type:  "Percent",
		Value: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Code != "FORJA10" || got.Type != catalog.CouponPercent {
		t.Errorf("got %+v", got)
	}
}

func TestNormalizeCoupon_Rejects(t *testing.T) {
	tests := []struct {
		name string
		in   catalog.Coupon
	}{
		{"missing code", catalog.Coupon{Type: catalog.CouponPercent, Value: 10}},
		{"bad type", catalog.Coupon{Code: "X", Type: "bogo", Value: 10}},
		{"non-positive value", catalog.Coupon{Code: "X", Type: catalog.CouponFixed, Value: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := catalog.NormalizeCoupon(tt.in); !fault.IsKind(err, fault.Validation) {
				t.Errorf("got %v, want Validation", err)
			}
		})
	}
}
