package payload

import "stagecraft/modules"

// ModuleRegistry is the view of the encoder/NOP registry the payload
// consumes. Enumeration is pre-ranked by the registry; the payload
// only contributes the architecture filter key.
type ModuleRegistry interface {
	Encoders(arch string) []modules.EncoderEntry
	Nops(arch string) []modules.NopEntry
}

// CompatibleEncoders returns the encoders usable with this payload's
// architecture, in the registry's own rank order. Nil when no
// registry is installed.
func (p *Payload) CompatibleEncoders() []modules.EncoderEntry {
	if p.registry == nil {
		return nil
	}
	return p.registry.Encoders(p.arch)
}

// CompatibleNops returns the NOP generators usable with this
// payload's architecture, in the registry's own rank order. Nil when
// no registry is installed.
func (p *Payload) CompatibleNops() []modules.NopEntry {
	if p.registry == nil {
		return nil
	}
	return p.registry.Nops(p.arch)
}
