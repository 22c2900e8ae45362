package modules

import "testing"

func TestX86SledDefault(t *testing.T) {
	sled, err := X86Sled{}.Sled(16, nil)
	if err != nil {
		t.Fatalf("Sled: %v", err)
	}
	if len(sled) != 16 {
		t.Fatalf("sled length %d, want 16", len(sled))
	}
	for i, b := range sled {
		if b != 0x90 {
			t.Fatalf("byte %d = %#02x, want 0x90", i, b)
		}
	}
}

func TestX86SledAvoidsBadChars(t *testing.T) {
	sled, err := X86Sled{}.Sled(8, []byte{0x90})
	if err != nil {
		t.Fatalf("Sled: %v", err)
	}
	for i, b := range sled {
		if b == 0x90 {
			t.Fatalf("byte %d is the banned 0x90", i)
		}
	}
}

func TestX86SledEdgeLengths(t *testing.T) {
	sled, err := X86Sled{}.Sled(0, nil)
	if err != nil {
		t.Fatalf("Sled(0): %v", err)
	}
	if len(sled) != 0 {
		t.Fatalf("Sled(0) length %d, want 0", len(sled))
	}
	if _, err := (X86Sled{}).Sled(-1, nil); err == nil {
		t.Fatalf("Sled(-1) accepted a negative length")
	}
}

func TestX86SledAllCandidatesBanned(t *testing.T) {
	if _, err := (X86Sled{}).Sled(4, x86NopBytes); err == nil {
		t.Fatalf("Sled succeeded with every candidate banned")
	}
}
