// Package modules models the auxiliary modules a payload may be
// combined with — encoders that rewrite a buffer to dodge bad
// characters and NOP generators that pad it — plus the in-memory
// registry that indexes them by architecture and rank.
package modules

// Encoder rewrites a raw buffer so that none of the given bad
// characters appear in the output. Implementations must return an
// error rather than emit a buffer that still contains bad characters.
type Encoder interface {
	Name() string
	Arch() []string
	Encode(raw, badchars []byte) ([]byte, error)
}

// Nop produces a sled of the requested length whose bytes avoid the
// given bad characters.
type Nop interface {
	Name() string
	Arch() []string
	Sled(length int, badchars []byte) ([]byte, error)
}

// EncoderEntry pairs an encoder with its registered name.
type EncoderEntry struct {
	Name    string
	Encoder Encoder
}

// NopEntry pairs a NOP generator with its registered name.
type NopEntry struct {
	Name string
	Nop  Nop
}

// archMatches reports whether a module declaring archs can serve the
// given architecture. An empty arch list means the module is
// architecture-independent.
func archMatches(archs []string, arch string) bool {
	if len(archs) == 0 {
		return true
	}
	for _, a := range archs {
		if a == arch {
			return true
		}
	}
	return false
}

// contains reports whether b appears in set.
func contains(set []byte, b byte) bool {
	for _, c := range set {
		if c == b {
			return true
		}
	}
	return false
}
