// Package compose is the composition layer that turns a payload into
// a deliverable buffer: it generates the payload, runs an encoder when
// bad characters demand one, applies the prepend/append buffers, and
// pads with a NOP sled. Compatibility gating consults the payload's
// registry queries; compose never ranks modules itself.
package compose

import (
	"bytes"
	"fmt"

	"github.com/sirupsen/logrus"

	"stagecraft/payload"
)

// indexBadChar returns the offset of the first bad character in buf,
// or -1.
func indexBadChar(buf, badchars []byte) int {
	if len(badchars) == 0 {
		return -1
	}
	for i, b := range buf {
		if bytes.IndexByte(badchars, b) >= 0 {
			return i
		}
	}
	return -1
}

// Options steer a single composition.
type Options struct {
	// Encoder forces a specific encoder by name. Empty selects the
	// first compatible encoder when the payload declares bad
	// characters, and no encoder otherwise.
	Encoder string
	// Nop forces a specific NOP generator by name. Empty selects the
	// first compatible one when SledSize > 0.
	Nop string
	// SledSize is the NOP sled length prepended to the final buffer.
	SledSize int
}

// Result is a composed, deliverable buffer plus the modules that
// shaped it.
type Result struct {
	Buf     []byte
	Encoder string // "" when no encoder ran
	Nop     string // "" when no sled was prepended
}

// Encoded composes the deliverable buffer for p. Layout, front to
// back: sled, Prepend, encoded(PrependEncoder + generated), Append.
// The encoder sees PrependEncoder so stager-fixup bytes are protected
// by the same bad-character guarantees as the payload body.
func Encoded(p *payload.Payload, opts Options) (*Result, error) {
	gen, err := p.Generate()
	if err != nil {
		return nil, fmt.Errorf("compose %s: %w", p.Name(), err)
	}

	body := make([]byte, 0, len(p.PrependEncoder)+len(gen))
	body = append(body, p.PrependEncoder...)
	body = append(body, gen...)

	res := &Result{}
	badchars := p.BadChars()

	if opts.Encoder != "" || len(badchars) > 0 {
		encoded, name, err := encode(p, body, badchars, opts.Encoder)
		if err != nil {
			return nil, fmt.Errorf("compose %s: %w", p.Name(), err)
		}
		body = encoded
		res.Encoder = name
	}

	out := make([]byte, 0, opts.SledSize+len(p.Prepend)+len(body)+len(p.Append))
	if opts.SledSize > 0 {
		sled, name, err := sled(p, opts.SledSize, badchars, opts.Nop)
		if err != nil {
			return nil, fmt.Errorf("compose %s: %w", p.Name(), err)
		}
		out = append(out, sled...)
		res.Nop = name
	}
	out = append(out, p.Prepend...)
	out = append(out, body...)
	out = append(out, p.Append...)
	res.Buf = out

	logrus.Debugf("composed %s: %d bytes (encoder=%q nop=%q)",
		p.Name(), len(out), res.Encoder, res.Nop)
	return res, nil
}

// encode runs the buffer through a compatible encoder. With a forced
// name only that encoder is tried; otherwise compatible encoders are
// tried in registry order until one produces a clean buffer.
func encode(p *payload.Payload, buf, badchars []byte, forced string) ([]byte, string, error) {
	entries := p.CompatibleEncoders()
	if len(entries) == 0 {
		return nil, "", fmt.Errorf("no compatible encoders for arch %s", p.Arch())
	}
	var lastErr error
	for _, ent := range entries {
		if forced != "" && ent.Name != forced {
			continue
		}
		enc, err := ent.Encoder.Encode(buf, badchars)
		if err != nil {
			lastErr = err
			continue
		}
		if i := indexBadChar(enc, badchars); i >= 0 {
			lastErr = fmt.Errorf("%s left bad character at offset %d", ent.Name, i)
			continue
		}
		return enc, ent.Name, nil
	}
	if forced != "" && lastErr == nil {
		return nil, "", fmt.Errorf("encoder %q is not compatible with %s", forced, p.Name())
	}
	return nil, "", fmt.Errorf("no encoder succeeded: %w", lastErr)
}

// sled builds the NOP sled through a compatible generator.
func sled(p *payload.Payload, size int, badchars []byte, forced string) ([]byte, string, error) {
	entries := p.CompatibleNops()
	if len(entries) == 0 {
		return nil, "", fmt.Errorf("no compatible NOP generators for arch %s", p.Arch())
	}
	var lastErr error
	for _, ent := range entries {
		if forced != "" && ent.Name != forced {
			continue
		}
		out, err := ent.Nop.Sled(size, badchars)
		if err != nil {
			lastErr = err
			continue
		}
		return out, ent.Name, nil
	}
	if forced != "" && lastErr == nil {
		return nil, "", fmt.Errorf("NOP generator %q is not compatible with %s", forced, p.Name())
	}
	return nil, "", fmt.Errorf("no NOP generator succeeded: %w", lastErr)
}
