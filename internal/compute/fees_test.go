package compute

import "testing"

func TestMedian(t *testing.T) {
	cases := []struct {
		name    string
		samples []uint64
		want    uint64
	}{
		{"empty", nil, 0},
		{"single", []uint64{9}, 9},
		{"odd", []uint64{5, 1, 3}, 3},
		{"even", []uint64{7, 1, 5, 3}, 4},
		{"even duplicates", []uint64{10, 10, 20, 20}, 15},
	}
	for _, c := range cases {
		if got := Median(c.samples); got != c.want {
			t.Errorf("%s: Median(%v) = %d, want %d", c.name, c.samples, got, c.want)
		}
	}
}

func TestMedianDoesNotMutateInput(t *testing.T) {
	samples := []uint64{3, 1, 2}
	Median(samples)
	if samples[0] != 3 || samples[1] != 1 || samples[2] != 2 {
		t.Fatalf("input reordered: %v", samples)
	}
}

func TestClampUnitPrice(t *testing.T) {
	cases := []struct {
		fee  uint64
		want uint64
	}{
		{0, DefaultUnitPrice},
		{DefaultUnitPrice - 1, DefaultUnitPrice},
		{DefaultUnitPrice, DefaultUnitPrice},
		{55_555, 55_555},
		{MaxUnitPrice, MaxUnitPrice},
		{MaxUnitPrice + 1, MaxUnitPrice},
		{10 * MaxUnitPrice, MaxUnitPrice},
	}
	for _, c := range cases {
		if got := ClampUnitPrice(c.fee); got != c.want {
			t.Errorf("ClampUnitPrice(%d) = %d, want %d", c.fee, got, c.want)
		}
	}
}

func TestUnitLimitWithMargin(t *testing.T) {
	cases := []struct {
		consumed uint64
		want     uint32
	}{
		{0, 0},
		{1, 2},
		{100, 110},
		{999, 1099},
		{150_000, 165_000},
		{200_000, 220_000},
	}
	for _, c := range cases {
		got := UnitLimitWithMargin(c.consumed)
		if got != c.want {
			t.Errorf("UnitLimitWithMargin(%d) = %d, want %d", c.consumed, got, c.want)
		}
		if uint64(got) < c.consumed {
			t.Errorf("UnitLimitWithMargin(%d) = %d is below consumption", c.consumed, got)
		}
	}
}
