package engine

import "testing"

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		ms   int64
		want string
	}{
		{0, "0 seconds"},
		{999, "0 seconds"},
		{1000, "1 second"},
		{1999, "1 second"},
		{45000, "45 seconds"},
		{60000, "1 minute"},
		{61000, "1 minute and 1 second"},
		{90000, "1 minute and 30 seconds"},
		{120000, "2 minutes"},
		{3599000, "59 minutes and 59 seconds"},
		// Hours stay expressed as minutes.
		{3600000, "60 minutes"},
		{5430000, "90 minutes and 30 seconds"},
		{-5, "0 seconds"},
	}
	for _, c := range cases {
		if got := FormatDuration(c.ms); got != c.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", c.ms, got, c.want)
		}
	}
}
