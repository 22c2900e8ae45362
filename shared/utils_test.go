package shared

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateIDLengthAndUniqueness(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := GenerateID(8)
		if len(id) != 16 {
			t.Fatalf("GenerateID(8) length %d, want 16 hex chars", len(id))
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate ID %s", id)
		}
		seen[id] = struct{}{}
	}
}

func TestIDPrefixes(t *testing.T) {
	if !strings.HasPrefix(GenerateSessionID(), "sess_") {
		t.Errorf("session ID missing prefix")
	}
	if !strings.HasPrefix(GenerateBuildID(), "bld_") {
		t.Errorf("build ID missing prefix")
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{5 * time.Minute, "5m"},
		{3 * time.Hour, "3h"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.d); got != tc.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestGenerateCodename(t *testing.T) {
	for i := 0; i < 20; i++ {
		name := GenerateCodename()
		if name == "" {
			t.Fatalf("empty codename")
		}
	}
}
