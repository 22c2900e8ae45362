package modules

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// XorByte is a single-byte XOR encoder. It searches for a key byte
// such that neither the key nor any output byte lands in the bad
// character set. The key is emitted as the first byte of the output so
// a decoder stub can recover it.
type XorByte struct{}

func (XorByte) Name() string { return "generic/xor_byte" }

func (XorByte) Arch() []string { return nil }

// Encode tries every candidate key and returns key+ciphertext for the
// first one that keeps the whole output clean of badchars.
func (XorByte) Encode(raw, badchars []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("xor_byte: empty input buffer")
	}
key:
	for k := 1; k < 256; k++ {
		key := byte(k)
		if contains(badchars, key) {
			continue
		}
		for _, b := range raw {
			if contains(badchars, b^key) {
				continue key
			}
		}
		out := make([]byte, 0, len(raw)+1)
		out = append(out, key)
		for _, b := range raw {
			out = append(out, b^key)
		}
		logrus.Debugf("xor_byte: selected key 0x%02x for %d byte buffer", key, len(raw))
		return out, nil
	}
	return nil, fmt.Errorf("xor_byte: no key avoids the %d bad characters", len(badchars))
}

func init() {
	Default.AddEncoder(100, XorByte{})
}
