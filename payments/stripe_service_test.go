package payments

import "testing"

func TestToMinorUnits(t *testing.T) {
	cases := []struct {
		price float64
		want  int64
	}{
		{0, 0},
		{10, 1000},
		{19.99, 1999},
		{0.5, 50},
		{249.95, 24995},
	}

	for _, tc := range cases {
		got := ToMinorUnits(tc.price)
		if got != tc.want {
			t.Errorf("ToMinorUnits(%v) = %d, want %d", tc.price, got, tc.want)
		}
	}
}
