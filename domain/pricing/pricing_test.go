package pricing_test

import (
	"testing"

	"github.com/blackforge/storefront/domain/catalog"
	"github.com/blackforge/storefront/domain/pricing"
)

func TestDiscountCents_Percent(t *testing.T) {
	coupon := &catalog.Coupon{Code: "FORJA10", Type: catalog.CouponPercent, Value: 10}

	tests := []struct {
		name     string
		subtotal int64
		want     int64
	}{
		{"rounds up", 5498, 550}, // 549.8 rounds to 550
		{"rounds down", 2499, 250},
		{"exact", 3000, 300},
		{"zero subtotal", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pricing.DiscountCents(tt.subtotal, coupon); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDiscountCents_Fixed(t *testing.T) {
	coupon := &catalog.Coupon{Code: "NUEVO5", Type: catalog.CouponFixed, Value: 5}
	if got := pricing.DiscountCents(3499, coupon); got != 500 {
		t.Errorf("got %d, want 500", got)
	}
}

func TestDiscountCents_NilCoupon(t *testing.T) {
	if got := pricing.DiscountCents(3499, nil); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}

func TestDiscountCents_ClampedBelowSubtotal(t *testing.T) {
	// A 100% coupon may never reduce a purchase to zero.
	coupon := &catalog.Coupon{Code: "FREE", Type: catalog.CouponPercent, Value: 100}
	if got := pricing.DiscountCents(100, coupon); got != 99 {
		t.Errorf("got %d, want 99", got)
	}

	// A fixed coupon larger than the subtotal clamps the same way.
	big := &catalog.Coupon{Code: "BIG", Type: catalog.CouponFixed, Value: 50}
	if got := pricing.DiscountCents(300, big); got != 299 {
		t.Errorf("got %d, want 299", got)
	}
}

func TestDistribute_ProportionalWithRemainder(t *testing.T) {
	// 10% off a 2999 + 2499 cart: 550 off, floors take 300 and 249,
	// the leftover cent goes to the first line.
	got := pricing.Distribute([]int64{2999, 2499}, 550)
	want := []int64{2698, 2250}
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d", len(got), len(want))
	}
	var total int64
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: got %d, want %d", i, got[i], want[i])
		}
		total += got[i]
	}
	if total != 5498-550 {
		t.Errorf("total %d, want %d", total, 5498-550)
	}
}

func TestDistribute_SingleLine(t *testing.T) {
	got := pricing.Distribute([]int64{3499}, 500)
	if len(got) != 1 || got[0] != 2999 {
		t.Errorf("got %v, want [2999]", got)
	}
}

func TestDistribute_ZeroDiscount(t *testing.T) {
	got := pricing.Distribute([]int64{2999, 2499}, 0)
	if got[0] != 2999 || got[1] != 2499 {
		t.Errorf("got %v, want unchanged lines", got)
	}
}

func TestDistribute_EveryLineStaysAboveZero(t *testing.T) {
	got := pricing.Distribute([]int64{100, 100}, 199)
	var total int64
	for i, line := range got {
		if line < 1 {
			t.Errorf("line %d dropped to %d cents", i, line)
		}
		total += line
	}
	// 199 is more than the lines can absorb while staying >= 1 each;
	// the undistributable cent stays on the total.
	if total != 2 {
		t.Errorf("total %d, want 2", total)
	}
}

func TestDistribute_TerminatesWhenNothingCanAbsorb(t *testing.T) {
	// One-cent lines cannot absorb anything; the pass must stop
	// instead of looping.
	got := pricing.Distribute([]int64{1, 1}, 5)
	if got[0] != 1 || got[1] != 1 {
		t.Errorf("got %v, want [1 1]", got)
	}
}

func TestDistribute_Deterministic(t *testing.T) {
	first := pricing.Distribute([]int64{2999, 2499, 3499}, 899)
	for i := 0; i < 10; i++ {
		again := pricing.Distribute([]int64{2999, 2499, 3499}, 899)
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d line %d: got %d, want %d", i, j, again[j], first[j])
			}
		}
	}
}

func TestQuoteLines(t *testing.T) {
	coupon := &catalog.Coupon{Code: "FORJA10", Type: catalog.CouponPercent, Value: 10}
	quote := pricing.QuoteLines([]int64{2999, 2499}, coupon)

	if quote.SubtotalCents != 5498 {
		t.Errorf("subtotal %d, want 5498", quote.SubtotalCents)
	}
	if quote.DiscountCents != 550 {
		t.Errorf("discount %d, want 550", quote.DiscountCents)
	}
	var total int64
	for _, line := range quote.LineCents {
		total += line
	}
	if total != quote.SubtotalCents-quote.DiscountCents {
		t.Errorf("lines sum to %d, want %d", total, quote.SubtotalCents-quote.DiscountCents)
	}
}
