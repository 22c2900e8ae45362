package payload

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

// testSubstitutor returns a substitutor wired to a capture hook so
// tests can count warnings.
func testSubstitutor(t *testing.T) (*Substitutor, *logtest.Hook) {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	return &Substitutor{Log: logrus.NewEntry(logger)}, hook
}

func TestSubstituteRaw(t *testing.T) {
	sub, _ := testSubstitutor(t)
	buf := []byte{1, 2, 3, 4, 5, 6}
	offsets := OffsetTable{{Name: "TAG", Offset: 2, Pack: PackRaw}}

	err := sub.Substitute(buf, offsets, staticResolver{"TAG": "AB"})
	if err != nil {
		t.Fatalf("Substitute: %v", err)
	}
	want := []byte{1, 2, 'A', 'B', 5, 6}
	if !bytes.Equal(buf, want) {
		t.Fatalf("buf = % x, want % x", buf, want)
	}
}

func TestSubstituteAddr(t *testing.T) {
	sub, _ := testSubstitutor(t)
	buf := make([]byte, 8)
	offsets := OffsetTable{{Name: "LHOST", Offset: 3, Pack: PackAddr}}

	err := sub.Substitute(buf, offsets, staticResolver{"LHOST": "127.0.0.1"})
	if err != nil {
		t.Fatalf("Substitute: %v", err)
	}
	want := []byte{0, 0, 0, 0x7f, 0x00, 0x00, 0x01, 0}
	if !bytes.Equal(buf, want) {
		t.Fatalf("buf = % x, want % x", buf, want)
	}
}

func TestSubstituteIntegerPacks(t *testing.T) {
	cases := []struct {
		name   string
		pack   string
		value  string
		offset int
		want   []byte
	}{
		{"be16 decimal", PackBE16, "4444", 2,
			[]byte{0, 0, 0x11, 0x5c, 0, 0, 0, 0}},
		{"le16 decimal", PackLE16, "4444", 2,
			[]byte{0, 0, 0x5c, 0x11, 0, 0, 0, 0}},
		{"be32 hex literal", PackBE32, "0xdeadbeef", 0,
			[]byte{0xde, 0xad, 0xbe, 0xef, 0, 0, 0, 0}},
		{"le32 hex literal", PackLE32, "0xdeadbeef", 4,
			[]byte{0, 0, 0, 0, 0xef, 0xbe, 0xad, 0xde}},
		{"byte", PackByte, "144", 7,
			[]byte{0, 0, 0, 0, 0, 0, 0, 0x90}},
		{"be16 hex escapes", PackBE16, `\x11\x5c`, 0,
			[]byte{0x11, 0x5c, 0, 0, 0, 0, 0, 0}},
		{"le32 hex escapes keep byte order", PackLE32, `\xef\xbe\xad\xde`, 0,
			[]byte{0xef, 0xbe, 0xad, 0xde, 0, 0, 0, 0}},
		{"be64", PackBE64, "1", 0,
			[]byte{0, 0, 0, 0, 0, 0, 0, 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub, _ := testSubstitutor(t)
			buf := make([]byte, 8)
			offsets := OffsetTable{{Name: "V", Offset: tc.offset, Pack: tc.pack}}
			err := sub.Substitute(buf, offsets, staticResolver{"V": tc.value})
			if err != nil {
				t.Fatalf("Substitute: %v", err)
			}
			if !bytes.Equal(buf, tc.want) {
				t.Fatalf("buf = % x, want % x", buf, tc.want)
			}
		})
	}
}

func TestSubstituteMissingValueWarnsAndSkips(t *testing.T) {
	sub, hook := testSubstitutor(t)
	buf := []byte{0xaa, 0xbb, 0xcc, 0xdd}
	offsets := OffsetTable{{Name: "GONE", Offset: 1, Pack: PackBE16}}

	err := sub.Substitute(buf, offsets, staticResolver{})
	if err != nil {
		t.Fatalf("missing value must not be fatal, got %v", err)
	}
	want := []byte{0xaa, 0xbb, 0xcc, 0xdd}
	if !bytes.Equal(buf, want) {
		t.Fatalf("buf = % x, want untouched % x", buf, want)
	}

	warnings := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warnings++
		}
	}
	if warnings != 1 {
		t.Fatalf("emitted %d warnings, want exactly 1", warnings)
	}
}

func TestSubstituteNilResolverWarnsAndSkips(t *testing.T) {
	sub, hook := testSubstitutor(t)
	buf := []byte{1, 2, 3, 4}
	offsets := OffsetTable{{Name: "X", Offset: 0, Pack: PackBE16}}

	if err := sub.Substitute(buf, offsets, nil); err != nil {
		t.Fatalf("Substitute: %v", err)
	}
	if len(hook.AllEntries()) != 1 {
		t.Fatalf("emitted %d log entries, want 1", len(hook.AllEntries()))
	}
}

func TestSubstituteFailFast(t *testing.T) {
	cases := []struct {
		name    string
		entry   OffsetEntry
		value   string
		wantErr error
	}{
		{"unknown pack", OffsetEntry{Name: "V", Offset: 0, Pack: "w32"}, "1", ErrInvalidPack},
		{"write past end", OffsetEntry{Name: "V", Offset: 6, Pack: PackBE32}, "1", ErrOutOfBounds},
		{"raw past end", OffsetEntry{Name: "V", Offset: 5, Pack: PackRaw}, "ABCD", ErrOutOfBounds},
		{"garbage integer", OffsetEntry{Name: "V", Offset: 0, Pack: PackBE16}, "teapot", ErrBadValue},
		{"short hex escapes", OffsetEntry{Name: "V", Offset: 0, Pack: PackBE32}, `\x41`, ErrBadValue},
		{"unresolvable address", OffsetEntry{Name: "V", Offset: 0, Pack: PackAddr}, "...", ErrBadValue},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub, _ := testSubstitutor(t)
			buf := make([]byte, 8)
			orig := make([]byte, 8)
			err := sub.Substitute(buf, OffsetTable{tc.entry}, staticResolver{"V": tc.value})
			if err == nil {
				t.Fatalf("Substitute accepted %s", tc.name)
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if !bytes.Equal(buf, orig) {
				t.Fatalf("buffer modified on failed substitution: % x", buf)
			}
		})
	}
}

// fixedSub handles a single name by stamping 0xEE.
type fixedSub struct {
	handles string
	calls   int
}

func (f *fixedSub) TrySubstitute(buf []byte, name string, offset int, pack string) (bool, error) {
	f.calls++
	if name != f.handles {
		return false, nil
	}
	buf[offset] = 0xee
	return true, nil
}

func TestCustomSubstituterRunsFirst(t *testing.T) {
	sub, hook := testSubstitutor(t)
	custom := &fixedSub{handles: "SPECIAL"}
	sub.Custom = custom

	buf := make([]byte, 4)
	offsets := OffsetTable{
		{Name: "SPECIAL", Offset: 0, Pack: PackByte},
		{Name: "PLAIN", Offset: 2, Pack: PackByte},
	}
	err := sub.Substitute(buf, offsets, staticResolver{"SPECIAL": "1", "PLAIN": "7"})
	if err != nil {
		t.Fatalf("Substitute: %v", err)
	}
	if custom.calls != 2 {
		t.Fatalf("hook consulted %d times, want 2", custom.calls)
	}
	if buf[0] != 0xee {
		t.Fatalf("handled entry overwritten by standard path: %#02x", buf[0])
	}
	if buf[2] != 7 {
		t.Fatalf("unhandled entry not substituted: %#02x", buf[2])
	}
	if len(hook.AllEntries()) != 0 {
		t.Fatalf("unexpected diagnostics: %v", hook.AllEntries())
	}
}

func TestGenerateAppliesSubstitutions(t *testing.T) {
	p := mustNew(t, Definition{
		Name: "t",
		Raw:  []byte{0x68, 0, 0, 0, 0, 0x66, 0x68, 0, 0},
		Offsets: OffsetTable{
			{Name: "LHOST", Offset: 1, Pack: PackAddr},
			{Name: "LPORT", Offset: 7, Pack: PackBE16},
		},
	}, nil, staticResolver{"LHOST": "10.1.2.3", "LPORT": "4444"})

	buf, err := p.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	want := []byte{0x68, 10, 1, 2, 3, 0x66, 0x68, 0x11, 0x5c}
	if !bytes.Equal(buf, want) {
		t.Fatalf("buf = % x, want % x", buf, want)
	}
}
