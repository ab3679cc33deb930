// Package checkout provides checkout value types and pure functions:
// purchase classification, the session metadata codec, and the paid
// confirmation rules. Talking to the payment provider happens in
// adapters/payment; orchestrating it happens in app.
package checkout

import (
	"strconv"
	"strings"
)

// PurchaseType classifies what a checkout session sells.
type PurchaseType string

const (
	PurchaseGame       PurchaseType = "game"
	PurchaseCart       PurchaseType = "cart"
	PurchaseMembership PurchaseType = "membership"
)

// Metadata keys on the external checkout session. These names are part
// of the persisted session contract and must not change.
const (
	MetaPurchaseType  = "purchaseType"
	MetaGameIDs       = "gameIds"
	MetaCouponCode    = "couponCode"
	MetaDiscountCents = "discountCents"
	MetaPlanID        = "planId"
)

// Metadata is the decoded session metadata bag.
type Metadata struct {
	PurchaseType  PurchaseType
	GameIDs       []string
	CouponCode    string
	DiscountCents int64
	PlanID        string
}

// Encode renders the metadata as the flat string map the external
// session carries.
func (m Metadata) Encode() map[string]string {
	if m.PurchaseType == PurchaseMembership {
		return map[string]string{
			MetaPurchaseType: string(PurchaseMembership),
			MetaPlanID:       m.PlanID,
		}
	}
	return map[string]string{
		MetaPurchaseType:  string(m.PurchaseType),
		MetaGameIDs:       strings.Join(m.GameIDs, ","),
		MetaCouponCode:    m.CouponCode,
		MetaDiscountCents: strconv.FormatInt(m.DiscountCents, 10),
	}
}

// DecodeMetadata parses a session's metadata bag. Unknown or missing
// fields decode to zero values; the comma-joined id list is split with
// empty entries filtered.
func DecodeMetadata(raw map[string]string) Metadata {
	m := Metadata{
		PurchaseType: PurchaseType(raw[MetaPurchaseType]),
		CouponCode:   raw[MetaCouponCode],
		PlanID:       raw[MetaPlanID],
		GameIDs:      SplitIDs(raw[MetaGameIDs]),
	}
	if cents, err := strconv.ParseInt(raw[MetaDiscountCents], 10, 64); err == nil {
		m.DiscountCents = cents
	}
	return m
}

// SplitIDs splits a comma-joined id list, dropping empty entries.
func SplitIDs(joined string) []string {
	var ids []string
	for _, part := range strings.Split(joined, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// IsPaid is the single definition of "paid" for an external session.
func IsPaid(paymentStatus, status string) bool {
	return paymentStatus == "paid" || status == "complete"
}

// Confirmation is the result of resolving an external session into an
// entitled item set. A non-paid session yields Paid=false, not an error.
type Confirmation struct {
	Paid    bool
	Type    PurchaseType
	ItemIDs []string
}

// Confirm resolves a retrieved session. Membership purchases entitle
// every item in the catalog by default; the plan's access list narrows
// this later at download time. Anything else entitles exactly the ids
// recorded in the session metadata.
func Confirm(paymentStatus, status string, metadata map[string]string, catalogGameIDs []string) Confirmation {
	if !IsPaid(paymentStatus, status) {
		return Confirmation{}
	}

	meta := DecodeMetadata(metadata)
	if meta.PurchaseType == PurchaseMembership {
		return Confirmation{
			Paid:    true,
			Type:    PurchaseMembership,
			ItemIDs: catalogGameIDs,
		}
	}

	purchaseType := meta.PurchaseType
	if purchaseType != PurchaseCart {
		purchaseType = PurchaseGame
	}
	return Confirmation{
		Paid:    true,
		Type:    purchaseType,
		ItemIDs: meta.GameIDs,
	}
}
