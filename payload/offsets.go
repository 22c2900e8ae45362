package payload

import (
	"encoding/binary"
	"fmt"
)

// Pack formats understood by the substitutor. ADDR and RAW are
// special-cased; everything else is an integer pack spec naming
// endianness and width, e.g. "be16" or "le32". "byte" is a single
// octet with no endianness.
const (
	PackAddr = "ADDR"
	PackRaw  = "RAW"
	PackByte = "byte"
	PackBE16 = "be16"
	PackLE16 = "le16"
	PackBE32 = "be32"
	PackLE32 = "le32"
	PackBE64 = "be64"
	PackLE64 = "le64"
)

// OffsetEntry binds a substitution-variable name to a byte position
// and pack format within a raw payload buffer.
type OffsetEntry struct {
	Name   string
	Offset int
	Pack   string
}

// OffsetTable is an ordered set of offset entries. Substitution walks
// it in table order; names are unique within a table.
type OffsetTable []OffsetEntry

// validate checks structural invariants against the raw buffer length.
// Width-dependent bounds are rechecked at substitution time, once the
// encoded value width is known.
func (t OffsetTable) validate(rawLen int) error {
	seen := make(map[string]struct{}, len(t))
	for _, ent := range t {
		if ent.Name == "" {
			return fmt.Errorf("offset table: entry with empty name")
		}
		if _, dup := seen[ent.Name]; dup {
			return fmt.Errorf("offset table: duplicate entry %q", ent.Name)
		}
		seen[ent.Name] = struct{}{}
		if ent.Offset < 0 {
			return fmt.Errorf("offset table: %s has negative offset %d", ent.Name, ent.Offset)
		}
		if ent.Offset >= rawLen {
			return fmt.Errorf("offset table: %s offset %d beyond %d byte buffer", ent.Name, ent.Offset, rawLen)
		}
		if ent.Pack != PackAddr && ent.Pack != PackRaw {
			if _, _, err := parsePack(ent.Pack); err != nil {
				return fmt.Errorf("offset table: %s: %w", ent.Name, err)
			}
		}
	}
	return nil
}

// parsePack resolves an integer pack spec to its width in bytes and
// byte order. The order is nil for width 1.
func parsePack(spec string) (int, binary.ByteOrder, error) {
	switch spec {
	case PackByte:
		return 1, nil, nil
	case PackBE16:
		return 2, binary.BigEndian, nil
	case PackLE16:
		return 2, binary.LittleEndian, nil
	case PackBE32:
		return 4, binary.BigEndian, nil
	case PackLE32:
		return 4, binary.LittleEndian, nil
	case PackBE64:
		return 8, binary.BigEndian, nil
	case PackLE64:
		return 8, binary.LittleEndian, nil
	default:
		return 0, nil, fmt.Errorf("%w: %q", ErrInvalidPack, spec)
	}
}

// putInt encodes v into width bytes using order.
func putInt(v uint64, width int, order binary.ByteOrder) []byte {
	out := make([]byte, width)
	switch width {
	case 1:
		out[0] = byte(v)
	case 2:
		order.PutUint16(out, uint16(v))
	case 4:
		order.PutUint32(out, uint32(v))
	case 8:
		order.PutUint64(out, v)
	}
	return out
}

// getInt decodes the first width bytes of b using order.
func getInt(b []byte, width int, order binary.ByteOrder) uint64 {
	switch width {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(order.Uint16(b))
	case 4:
		return uint64(order.Uint32(b))
	default:
		return order.Uint64(b)
	}
}
