package idgen_test

import (
	"regexp"
	"testing"

	"github.com/blackforge/storefront/adapters/idgen"
)

var uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

func TestUUID_New(t *testing.T) {
	g := idgen.UUID{}

	a := g.New()
	b := g.New()

	if !uuidPattern.MatchString(a) {
		t.Errorf("New() = %q, not a uuid", a)
	}
	if a == b {
		t.Error("consecutive ids are equal")
	}
}

func TestSequential_New(t *testing.T) {
	g := idgen.NewSequential("log_")

	if got := g.New(); got != "log_1" {
		t.Errorf("first id = %q, want log_1", got)
	}
	if got := g.New(); got != "log_2" {
		t.Errorf("second id = %q, want log_2", got)
	}
}
