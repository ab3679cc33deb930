package clock_test

import (
	"testing"
	"time"

	"github.com/blackforge/storefront/adapters/clock"
)

func TestReal_Now(t *testing.T) {
	c := clock.Real{}
	before := time.Now()
	got := c.Now()
	after := time.Now()

	if got.Before(before) || got.After(after) {
		t.Errorf("Now() = %v, outside [%v, %v]", got, before, after)
	}
}

func TestFake(t *testing.T) {
	start := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	c := clock.NewFake(start)

	if !c.Now().Equal(start) {
		t.Errorf("Now() = %v, want %v", c.Now(), start)
	}

	c.Advance(90 * time.Minute)
	if want := start.Add(90 * time.Minute); !c.Now().Equal(want) {
		t.Errorf("after Advance: Now() = %v, want %v", c.Now(), want)
	}

	reset := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	c.Set(reset)
	if !c.Now().Equal(reset) {
		t.Errorf("after Set: Now() = %v, want %v", c.Now(), reset)
	}
}
