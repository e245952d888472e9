package risk

import "testing"

func TestAllow(t *testing.T) {
	limits := Limits{MaxNotionalPerTrade: 0.05}
	if !limits.Allow(0.049) {
		t.Fatalf("expected notional under limit to pass")
	}
	if limits.Allow(0.051) {
		t.Fatalf("expected notional above limit to fail")
	}
}

func TestAllowUnlimitedWhenZero(t *testing.T) {
	limits := Limits{}
	if !limits.Allow(1e9) {
		t.Fatalf("expected zero limit to mean no cap")
	}
}
