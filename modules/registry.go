package modules

import (
	"sort"
	"sync"
)

type rankedEncoder struct {
	rank int
	seq  int
	enc  Encoder
}

type rankedNop struct {
	rank int
	seq  int
	nop  Nop
}

// Registry is an in-memory index of encoder and NOP modules. Queries
// return entries ordered by descending rank, then registration order,
// filtered to the requested architecture. Consumers treat the returned
// order as authoritative and do not re-rank.
type Registry struct {
	mu       sync.RWMutex
	seq      int
	encoders []rankedEncoder
	nops     []rankedNop
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// AddEncoder registers an encoder at the given rank.
func (r *Registry) AddEncoder(rank int, e Encoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.encoders = append(r.encoders, rankedEncoder{rank: rank, seq: r.seq, enc: e})
	sort.SliceStable(r.encoders, func(i, j int) bool {
		if r.encoders[i].rank != r.encoders[j].rank {
			return r.encoders[i].rank > r.encoders[j].rank
		}
		return r.encoders[i].seq < r.encoders[j].seq
	})
}

// AddNop registers a NOP generator at the given rank.
func (r *Registry) AddNop(rank int, n Nop) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.nops = append(r.nops, rankedNop{rank: rank, seq: r.seq, nop: n})
	sort.SliceStable(r.nops, func(i, j int) bool {
		if r.nops[i].rank != r.nops[j].rank {
			return r.nops[i].rank > r.nops[j].rank
		}
		return r.nops[i].seq < r.nops[j].seq
	})
}

// Encoders returns the encoders usable on the given architecture, in
// rank order.
func (r *Registry) Encoders(arch string) []EncoderEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []EncoderEntry
	for _, re := range r.encoders {
		if archMatches(re.enc.Arch(), arch) {
			out = append(out, EncoderEntry{Name: re.enc.Name(), Encoder: re.enc})
		}
	}
	return out
}

// Nops returns the NOP generators usable on the given architecture, in
// rank order.
func (r *Registry) Nops(arch string) []NopEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []NopEntry
	for _, rn := range r.nops {
		if archMatches(rn.nop.Arch(), arch) {
			out = append(out, NopEntry{Name: rn.nop.Name(), Nop: rn.nop})
		}
	}
	return out
}

// Default is the process-wide registry the built-in modules register
// into. Library consumers can build their own Registry instead.
var Default = NewRegistry()
