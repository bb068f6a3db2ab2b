package main

import "testing"

func TestDescriptionFromFilename(t *testing.T) {
	cases := []struct{ in, want string }{
		{"2026-10-18-001-create-migrations-and-profile.sql", "create migrations and profile"},
		{"2026-10-18-002-energy-ledger.sql", "energy ledger"},
		{"adhoc-fix.sql", "adhoc fix"},
	}
	for _, tc := range cases {
		if got := descriptionFromFilename(tc.in); got != tc.want {
			t.Errorf("descriptionFromFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
