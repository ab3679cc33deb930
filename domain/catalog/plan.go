package catalog

import (
	"encoding/json"
	"strings"

	"github.com/blackforge/storefront/pkg/fault"
)

// Interval is a recurring billing interval.
type Interval string

const (
	IntervalMonth Interval = "month"
	IntervalYear  Interval = "year"
)

// ParseInterval accepts the interval vocabulary seen in admin input
// (Spanish and English synonyms) and canonicalizes it.
func ParseInterval(raw string) (Interval, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "mes", "month", "monthly":
		return IntervalMonth, nil
	case "ano", "año", "year", "yearly", "annual":
		return IntervalYear, nil
	}
	return "", fault.New(fault.Validation, "membership interval must be month or year")
}

// Access describes which games a plan unlocks for download. It is either
// unrestricted (the whole catalog) or restricted to an explicit id set.
type Access struct {
	all bool
	ids []string
}

// Unrestricted grants the whole catalog.
func Unrestricted() Access {
	return Access{all: true}
}

// RestrictedTo grants exactly the given game ids.
func RestrictedTo(ids ...string) Access {
	return Access{ids: ids}
}

// IsUnrestricted reports whether the access covers the whole catalog.
func (a Access) IsUnrestricted() bool {
	return a.all
}

// IDs returns the restricted id set, nil when unrestricted.
func (a Access) IDs() []string {
	if a.all {
		return nil
	}
	return a.ids
}

// ParseAccess normalizes a raw access list. An empty list, or any entry
// equal to "all" or "*" (case-insensitive), collapses to unrestricted.
// Entries are trimmed and de-duplicated preserving first occurrence.
func ParseAccess(raw []string) Access {
	seen := make(map[string]bool)
	var ids []string
	for _, entry := range raw {
		id := strings.TrimSpace(entry)
		if id == "" {
			continue
		}
		if strings.EqualFold(id, "all") || id == "*" {
			return Unrestricted()
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return Unrestricted()
	}
	return Access{ids: ids}
}

// MarshalJSON encodes unrestricted access as ["all"], matching the
// stored document format.
func (a Access) MarshalJSON() ([]byte, error) {
	if a.all {
		return json.Marshal([]string{"all"})
	}
	return json.Marshal(a.ids)
}

// UnmarshalJSON decodes and re-normalizes a stored access list.
func (a *Access) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = ParseAccess(raw)
	return nil
}

// Plan represents a recurring membership tier.
type Plan struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Interval   Interval `json:"interval"`
	PriceCents int64    `json:"price_cents"`
	PriceRef   string   `json:"price_ref"`
	Tier       string   `json:"tier"`
	Highlight  string   `json:"highlight"`
	Perks      []string `json:"perks"`
	Access     Access   `json:"download_access_game_ids"`
}

// FindPlan finds a plan by id.
// This is a PURE function.
func FindPlan(plans []Plan, id string) (Plan, bool) {
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// SplitPerks splits free-form perks input on newlines, commas, and pipes.
func SplitPerks(raw string) []string {
	var perks []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ',' || r == '|'
	}) {
		if p := strings.TrimSpace(part); p != "" {
			perks = append(perks, p)
		}
	}
	return perks
}

// NormalizePlan validates and canonicalizes a membership plan record.
func NormalizePlan(in Plan) (Plan, error) {
	out := Plan{
		ID:         strings.TrimSpace(in.ID),
		Name:       strings.TrimSpace(in.Name),
		PriceCents: in.PriceCents,
		PriceRef:   strings.TrimSpace(in.PriceRef),
		Tier:       strings.TrimSpace(in.Tier),
		Highlight:  strings.TrimSpace(in.Highlight),
		Access:     in.Access,
	}

	if out.ID == "" {
		return Plan{}, fault.New(fault.Validation, "membership id is required")
	}
	if out.Name == "" {
		return Plan{}, fault.New(fault.Validation, "membership name is required")
	}
	if out.PriceCents <= 0 {
		return Plan{}, fault.New(fault.Validation, "membership price must be a positive amount")
	}

	interval, err := ParseInterval(string(in.Interval))
	if err != nil {
		return Plan{}, err
	}
	out.Interval = interval

	for _, perk := range in.Perks {
		if p := strings.TrimSpace(perk); p != "" {
			out.Perks = append(out.Perks, p)
		}
	}

	if out.PriceRef == "" {
		out.PriceRef = PlaceholderPlanPriceRef + out.ID
	}
	if out.Tier == "" {
		out.Tier = "Base"
	}
	return out, nil
}
