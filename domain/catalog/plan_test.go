package catalog_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/blackforge/storefront/domain/catalog"
	"github.com/blackforge/storefront/pkg/fault"
)

func TestParseInterval(t *testing.T) {
	tests := []struct {
		raw  string
		want catalog.Interval
	}{
		{"month", catalog.IntervalMonth},
		{"Monthly", catalog.IntervalMonth},
		{"mes", catalog.IntervalMonth},
		{"year", catalog.IntervalYear},
		{"annual", catalog.IntervalYear},
		{"año", catalog.IntervalYear},
		{" ANO ", catalog.IntervalYear},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := catalog.ParseInterval(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := catalog.ParseInterval("fortnight"); !fault.IsKind(err, fault.Validation) {
		t.Errorf("got %v, want Validation", err)
	}
}

func TestParseAccess_CollapsesToUnrestricted(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
	}{
		{"empty", nil},
		{"all keyword", []string{"all"}},
		{"all mixed case", []string{"ALL"}},
		{"star", []string{"*"}},
		{"all among ids", []string{"iron-horizon", "all"}},
		{"only blanks", []string{"", "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := catalog.ParseAccess(tt.raw); !got.IsUnrestricted() {
				t.Errorf("got restricted %v, want unrestricted", got.IDs())
			}
		})
	}
}

func TestParseAccess_DedupesAndTrims(t *testing.T) {
	got := catalog.ParseAccess([]string{" iron-horizon ", "neon-rush-2088", "iron-horizon", ""})
	want := []string{"iron-horizon", "neon-rush-2088"}
	if got.IsUnrestricted() || !reflect.DeepEqual(got.IDs(), want) {
		t.Errorf("got %v, want %v", got.IDs(), want)
	}
}

func TestAccessJSON_RoundTrip(t *testing.T) {
	data, err := json.Marshal(catalog.Unrestricted())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `["all"]` {
		t.Errorf("got %s, want [\"all\"]", data)
	}

	var back catalog.Access
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.IsUnrestricted() {
		t.Error("round-trip lost unrestricted access")
	}

	restricted := catalog.RestrictedTo("iron-horizon")
	data, err = json.Marshal(restricted)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.IsUnrestricted() || len(back.IDs()) != 1 || back.IDs()[0] != "iron-horizon" {
		t.Errorf("round-trip got %v", back.IDs())
	}
}

func TestSplitPerks(t *testing.T) {
	got := catalog.SplitPerks("Acceso total\nDescuentos, Soporte | Beta ")
	want := []string{"Acceso total", "Descuentos", "Soporte", "Beta"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestNormalizePlan_Defaults(t *testing.T) {
	got, err := catalog.NormalizePlan(catalog.Plan{
		ID:         "bf-golden",
		Name:       "Pase Dorado",
		Interval:   "mes",
		PriceCents: 799,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Interval != catalog.IntervalMonth {
		t.Errorf("interval %q, want month", got.Interval)
	}
	if got.PriceRef != "price_pass_bf-golden" {
		t.Errorf("price ref %q", got.PriceRef)
	}
	if got.Tier != "Base" {
		t.Errorf("tier %q, want Base", got.Tier)
	}
}

func TestNormalizePlan_Rejects(t *testing.T) {
	tests := []struct {
		name string
		in   catalog.Plan
	}{
		{"missing id", catalog.Plan{Name: "X", Interval: "month", PriceCents: 1}},
		{"missing name", catalog.Plan{ID: "x", Interval: "month", PriceCents: 1}},
		{"bad interval", catalog.Plan{ID: "x", Name: "X", Interval: "decade", PriceCents: 1}},
		{"non-positive price", catalog.Plan{ID: "x", Name: "X", Interval: "month"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := catalog.NormalizePlan(tt.in); !fault.IsKind(err, fault.Validation) {
				t.Errorf("got %v, want Validation", err)
			}
		})
	}
}
