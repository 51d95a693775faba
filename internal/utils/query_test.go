package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		s    string
		def  int
		want int
	}{
		{"", 0, 0},        // absent query param
		{"25", 0, 25},     // typical limit
		{"-5", 0, -5},     // negative passes through, callers treat as "all"
		{"007", 1, 7},     // leading zeros
		{"abc", 0, 0},     // garbage -> default
		{" 25", 3, 3},     // no trimming
		{"99999999999999999999", -1, -1}, // overflow -> default
	}

	for _, tc := range cases {
		if got := AtoiDefault(tc.s, tc.def); got != tc.want {
			t.Fatalf("AtoiDefault(%q, %d) = %d; want %d", tc.s, tc.def, got, tc.want)
		}
	}
}
