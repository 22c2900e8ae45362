package datastore

import (
	"reflect"
	"testing"
)

func TestCaseInsensitiveKeys(t *testing.T) {
	s := New()
	s.Set("lhost", "10.0.0.5")

	for _, key := range []string{"LHOST", "lhost", "LHost"} {
		v, ok := s.Value(key)
		if !ok || v != "10.0.0.5" {
			t.Errorf("Value(%q) = (%q, %v), want (10.0.0.5, true)", key, v, ok)
		}
	}
}

func TestGetMissingReturnsEmpty(t *testing.T) {
	s := New()
	if got := s.Get("NOPE"); got != "" {
		t.Fatalf("Get(NOPE) = %q, want empty", got)
	}
	if _, ok := s.Value("NOPE"); ok {
		t.Fatalf("Value(NOPE) reported present")
	}
}

func TestUnset(t *testing.T) {
	s := New()
	s.Set("LPORT", "4444")
	s.Unset("lport")
	if _, ok := s.Value("LPORT"); ok {
		t.Fatalf("LPORT survived Unset")
	}
}

func TestImportOptions(t *testing.T) {
	s := New()
	err := s.ImportOptions(`LHOST=10.0.0.5 lport=4444 CMD="id > /tmp/out"`)
	if err != nil {
		t.Fatalf("ImportOptions: %v", err)
	}
	if got := s.Get("LHOST"); got != "10.0.0.5" {
		t.Errorf("LHOST = %q", got)
	}
	if got := s.Get("LPORT"); got != "4444" {
		t.Errorf("LPORT = %q", got)
	}
	if got := s.Get("CMD"); got != "id > /tmp/out" {
		t.Errorf("CMD = %q, quoting not honored", got)
	}
}

func TestImportOptionsRejectsMalformed(t *testing.T) {
	cases := []string{
		"justakey",
		"=value",
		`LHOST=10.0.0.5 "unterminated`,
	}
	for _, line := range cases {
		t.Run(line, func(t *testing.T) {
			if err := New().ImportOptions(line); err == nil {
				t.Errorf("ImportOptions(%q) accepted malformed input", line)
			}
		})
	}
}

func TestImportOptionsEmptyLine(t *testing.T) {
	s := New()
	if err := s.ImportOptions("   "); err != nil {
		t.Fatalf("ImportOptions(blank): %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("blank import stored %d options", s.Len())
	}
}

func TestKeysSorted(t *testing.T) {
	s := New()
	s.Import(map[string]string{"zeta": "1", "Alpha": "2", "mid": "3"})
	want := []string{"ALPHA", "MID", "ZETA"}
	if got := s.Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
}
