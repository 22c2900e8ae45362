package payload

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Substitution failure modes. A missing value is deliberately not an
// error — it is logged and skipped — but a malformed pack spec or a
// write that would land outside the buffer fails fast. Silently
// corrupting an executable buffer is worse than aborting generation.
var (
	ErrInvalidPack = errors.New("invalid pack format")
	ErrOutOfBounds = errors.New("substitution outside buffer bounds")
	ErrBadValue    = errors.New("unusable substitution value")
)

// ValueResolver looks up substitution values by variable name. The
// datastore package provides the standard implementation.
type ValueResolver interface {
	Value(name string) (string, bool)
}

// Substituter is the extension hook for payload variants that need
// non-standard encodings (architecture-specific widths and the like).
// TrySubstitute reports whether it handled the entry; unhandled
// entries fall through to the standard encoding.
type Substituter interface {
	TrySubstitute(buf []byte, name string, offset int, pack string) (bool, error)
}

// Substitutor patches named variables into raw byte buffers per an
// offset table.
type Substitutor struct {
	Custom Substituter   // optional variant hook, consulted first
	Log    *logrus.Entry // diagnostic sink for missing-value warnings
}

func (s *Substitutor) logger() *logrus.Entry {
	if s.Log != nil {
		return s.Log
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

// Substitute walks the offset table in order and overwrites
// buf[offset:offset+width] with each entry's encoded value. Entries
// whose name has no value resolve to a warning and are skipped,
// leaving the original bytes in place.
func (s *Substitutor) Substitute(buf []byte, offsets OffsetTable, values ValueResolver) error {
	for _, ent := range offsets {
		if s.Custom != nil {
			handled, err := s.Custom.TrySubstitute(buf, ent.Name, ent.Offset, ent.Pack)
			if err != nil {
				return fmt.Errorf("substitute %s: %w", ent.Name, err)
			}
			if handled {
				continue
			}
		}

		var val string
		var ok bool
		if values != nil {
			val, ok = values.Value(ent.Name)
		}
		if !ok {
			s.logger().Warnf("no value for %s, bytes at offset %d left unchanged", ent.Name, ent.Offset)
			continue
		}

		enc, err := encodeValue(val, ent.Pack)
		if err != nil {
			return fmt.Errorf("substitute %s: %w", ent.Name, err)
		}
		if ent.Offset < 0 || ent.Offset+len(enc) > len(buf) {
			return fmt.Errorf("substitute %s: %w: offset %d, width %d, buffer %d",
				ent.Name, ErrOutOfBounds, ent.Offset, len(enc), len(buf))
		}
		copy(buf[ent.Offset:], enc)
	}
	return nil
}

var hexEscapeRE = regexp.MustCompile(`^(\\x[0-9a-fA-F]{2})+$`)

// encodeValue turns a resolved value into the bytes written at an
// offset, according to the entry's pack format.
func encodeValue(val, pack string) ([]byte, error) {
	switch pack {
	case PackAddr:
		return encodeAddr(val)
	case PackRaw:
		return []byte(val), nil
	}

	width, order, err := parsePack(pack)
	if err != nil {
		return nil, err
	}

	// Hex-escape strings ("\x11\x5c") carry explicit bytes: decode
	// them, then reinterpret per the pack's element type so the
	// round trip preserves the author's byte order.
	if hexEscapeRE.MatchString(val) {
		raw, err := hex.DecodeString(strings.ReplaceAll(val, `\x`, ""))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrBadValue, val, err)
		}
		if len(raw) < width {
			return nil, fmt.Errorf("%w: %q provides %d bytes, pack %s needs %d",
				ErrBadValue, val, len(raw), pack, width)
		}
		return putInt(getInt(raw, width, order), width, order), nil
	}

	n, err := parseInt(val)
	if err != nil {
		return nil, err
	}
	return putInt(n, width, order), nil
}

// encodeAddr resolves val as a network address and returns its
// network-order bytes: 4 for IPv4, 16 for IPv6.
func encodeAddr(val string) ([]byte, error) {
	ip := net.ParseIP(val)
	if ip == nil {
		addr, err := net.ResolveIPAddr("ip", val)
		if err != nil {
			return nil, fmt.Errorf("%w: cannot resolve address %q: %v", ErrBadValue, val, err)
		}
		ip = addr.IP
	}
	if v4 := ip.To4(); v4 != nil {
		return []byte(v4), nil
	}
	return []byte(ip.To16()), nil
}

// parseInt coerces a textual value to an integer. "0x"-prefixed
// values parse as hexadecimal; everything else as decimal, with
// negative values taken two's-complement.
func parseInt(val string) (uint64, error) {
	if strings.HasPrefix(val, "0x") || strings.HasPrefix(val, "0X") {
		n, err := strconv.ParseUint(val[2:], 16, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a hex literal", ErrBadValue, val)
		}
		return n, nil
	}
	if n, err := strconv.ParseUint(val, 10, 64); err == nil {
		return n, nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrBadValue, val)
	}
	return uint64(n), nil
}
