// Package pricing provides the discount computation and per-line
// proration algorithm. All arithmetic is in integer minor currency
// units (cents); the proration is deterministic and must stay
// bit-for-bit stable, it is covered by exact-value tests.
package pricing

import (
	"math"

	"github.com/blackforge/storefront/domain/catalog"
)

// Quote is the ephemeral pricing of a checkout attempt.
type Quote struct {
	SubtotalCents int64
	DiscountCents int64
	// LineCents holds the post-discount unit amount per line, in the
	// order the lines were given. Every line stays >= 1 cent.
	LineCents []int64
}

// DiscountCents computes a coupon's discount against a subtotal.
// Percent coupons discount round(subtotal*value/100); fixed coupons
// discount round(value*100). The result is clamped to [0, subtotal-1]:
// a coupon may never reduce a purchase to zero.
func DiscountCents(subtotalCents int64, coupon *catalog.Coupon) int64 {
	if coupon == nil || subtotalCents <= 0 {
		return 0
	}

	var raw int64
	switch coupon.Type {
	case catalog.CouponPercent:
		raw = int64(math.Round(float64(subtotalCents) * coupon.Value / 100))
	case catalog.CouponFixed:
		raw = int64(math.Round(coupon.Value * 100))
	default:
		return 0
	}

	if raw < 0 {
		return 0
	}
	if limit := subtotalCents - 1; raw > limit {
		return limit
	}
	return raw
}

// Distribute prorates a total discount across line unit amounts.
// Each line first takes floor(discount*line/subtotal), capped so the
// line keeps at least 1 cent. The flooring remainder is then spread one
// cent at a time over lines still above 1 cent, pass after pass, until
// the remainder is exhausted or a full pass absorbs nothing.
// This is a PURE function; the input slice is not modified.
func Distribute(unitAmounts []int64, discountCents int64) []int64 {
	discounted := make([]int64, len(unitAmounts))
	copy(discounted, unitAmounts)
	if discountCents <= 0 || len(unitAmounts) == 0 {
		return discounted
	}

	var subtotal int64
	for _, amount := range unitAmounts {
		subtotal += amount
	}
	if subtotal <= 0 {
		return discounted
	}

	remaining := discountCents
	for i, amount := range unitAmounts {
		share := discountCents * amount / subtotal
		if keep := amount - 1; share > keep {
			share = keep
		}
		discounted[i] -= share
		remaining -= share
	}

	for remaining > 0 {
		changed := false
		for i := 0; i < len(discounted) && remaining > 0; i++ {
			if discounted[i] > 1 {
				discounted[i]--
				remaining--
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	return discounted
}

// QuoteLines prices a set of line unit amounts under an optional coupon.
func QuoteLines(unitAmounts []int64, coupon *catalog.Coupon) Quote {
	var subtotal int64
	for _, amount := range unitAmounts {
		subtotal += amount
	}

	discount := DiscountCents(subtotal, coupon)
	return Quote{
		SubtotalCents: subtotal,
		DiscountCents: discount,
		LineCents:     Distribute(unitAmounts, discount),
	}
}
