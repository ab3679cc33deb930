// Package catalog provides catalog value types and pure functions.
// The catalog is the sellable surface of the store: games, membership
// plans, and coupons. All mutation happens through normalization
// functions that validate and canonicalize input; persistence lives
// behind ports.CatalogStore.
package catalog

import (
	"strings"

	"github.com/blackforge/storefront/pkg/fault"
)

// Item represents a single purchasable game.
type Item struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	PriceRef    string `json:"price_ref"` // pre-registered provider price id
	Image       string `json:"image"`
}

// Catalog is a full snapshot of the sellable surface.
type Catalog struct {
	Games   []Item   `json:"games"`
	Plans   []Plan   `json:"memberships"`
	Coupons []Coupon `json:"coupons"`
}

// GameIDs returns the ids of every game in catalog order.
func GameIDs(c Catalog) []string {
	ids := make([]string, 0, len(c.Games))
	for _, g := range c.Games {
		ids = append(ids, g.ID)
	}
	return ids
}

// FindGame finds a game by id.
// This is a PURE function.
func FindGame(games []Item, id string) (Item, bool) {
	for _, g := range games {
		if g.ID == id {
			return g, true
		}
	}
	return Item{}, false
}

// PlaceholderGamePriceRef is the prefix of auto-assigned game price refs.
// Refs with this prefix are not registered with the payment provider and
// always price through ad-hoc amounts.
const PlaceholderGamePriceRef = "price_game_"

// PlaceholderPlanPriceRef is the prefix of auto-assigned plan price refs.
const PlaceholderPlanPriceRef = "price_pass_"

// NormalizeGame validates and canonicalizes a game record.
// Missing price ref and image fall back to id-derived defaults.
func NormalizeGame(in Item) (Item, error) {
	out := Item{
		ID:          strings.TrimSpace(in.ID),
		Title:       strings.TrimSpace(in.Title),
		Genre:       strings.TrimSpace(in.Genre),
		Description: strings.TrimSpace(in.Description),
		PriceCents:  in.PriceCents,
		PriceRef:    strings.TrimSpace(in.PriceRef),
		Image:       strings.TrimSpace(in.Image),
	}

	switch {
	case out.ID == "":
		return Item{}, fault.New(fault.Validation, "id is required")
	case out.Title == "":
		return Item{}, fault.New(fault.Validation, "title is required")
	case out.Genre == "":
		return Item{}, fault.New(fault.Validation, "genre is required")
	case out.Description == "":
		return Item{}, fault.New(fault.Validation, "description is required")
	case out.PriceCents <= 0:
		return Item{}, fault.New(fault.Validation, "price must be a positive amount")
	}

	if out.PriceRef == "" {
		out.PriceRef = PlaceholderGamePriceRef + out.ID
	}
	if out.Image == "" {
		out.Image = "./imagenes/" + out.ID + ".jpg"
	}
	return out, nil
}
