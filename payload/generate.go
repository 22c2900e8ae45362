package payload

// Generate returns a copy of the stored raw bytes with offset-table
// substitutions applied. A payload with no raw buffer generates an
// empty buffer. Generate has no side effects beyond the substitutor's
// diagnostic logging and may be called any number of times.
func (p *Payload) Generate() ([]byte, error) {
	if len(p.raw) == 0 {
		return []byte{}, nil
	}
	buf := make([]byte, len(p.raw))
	copy(buf, p.raw)
	if len(p.offsets) > 0 {
		sub := &Substitutor{Custom: p.custom, Log: p.log}
		if err := sub.Substitute(buf, p.offsets, p.resolver); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// Size returns the length of the generated buffer. For staged
// payloads this is the first-stage size only. A payload whose
// generation fails reports size 0.
func (p *Payload) Size() int {
	buf, err := p.Generate()
	if err != nil {
		return 0
	}
	return len(buf)
}
