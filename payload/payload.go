// Package payload implements the payload module core: staging-role
// classification, offset-based variable substitution into raw
// shellcode buffers, compatibility queries against the module
// registry, and session binding back to the originating exploit.
package payload

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"stagecraft/exploit"
	"stagecraft/handler"
	"stagecraft/session"
)

// Kind classifies a payload's staging role.
type Kind int

const (
	// KindStage is a second-stage payload executed in state left
	// behind by its stager. It is the default for the zero value.
	KindStage Kind = iota
	// KindSingle is a self-contained payload with no staging handoff.
	KindSingle
	// KindStager is a first-stage payload that receives and executes
	// a second stage.
	KindStager
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindStager:
		return "stager"
	case KindStage:
		return "stage"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Definition is the build-time metadata a concrete payload is
// constructed from. Raw and Offsets are copied at construction and
// immutable afterwards.
type Definition struct {
	Name          string
	Kind          Kind
	Arch          string
	Platform      string
	Raw           []byte
	Offsets       OffsetTable
	Convention    string // calling convention a stage assumes, "" = agnostic
	BadChars      []byte
	SaveRegisters []string
	Custom        Substituter // optional variant-specific substitution hook
}

// Payload is a concrete payload module instance.
type Payload struct {
	name          string
	kind          Kind
	arch          string
	platform      string
	raw           []byte
	offsets       OffsetTable
	convention    string
	badChars      []byte
	saveRegisters []string
	custom        Substituter

	connType handler.ConnType // cached at construction
	h        handler.Handler
	resolver ValueResolver
	registry ModuleRegistry
	exp      exploit.Exploit
	sess     *session.Session

	// Mutable composition buffers, set by the composition layer
	// before generation. Not safe for mutation concurrent with an
	// in-flight Generate on the same instance.
	Prepend        []byte
	Append         []byte
	PrependEncoder []byte

	log *logrus.Entry
}

// New constructs a payload from its definition. The handler supplies
// the connection-type classification, computed once here and cached; a
// nil handler degrades to the neutral "none" classification. resolver
// backs variable substitution and may be nil when the definition has
// no offset table.
func New(def Definition, h handler.Handler, resolver ValueResolver) (*Payload, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("payload: definition has no name")
	}
	if err := def.Offsets.validate(len(def.Raw)); err != nil {
		return nil, fmt.Errorf("payload %s: %w", def.Name, err)
	}
	if h == nil {
		h = handler.None{}
	}
	p := &Payload{
		name:          def.Name,
		kind:          def.Kind,
		arch:          def.Arch,
		platform:      def.Platform,
		raw:           append([]byte(nil), def.Raw...),
		offsets:       append(OffsetTable(nil), def.Offsets...),
		convention:    def.Convention,
		badChars:      append([]byte(nil), def.BadChars...),
		saveRegisters: append([]string(nil), def.SaveRegisters...),
		custom:        def.Custom,
		h:             h,
		connType:      h.ConnectionType(),
		resolver:      resolver,
		log:           logrus.WithField("payload", def.Name),
	}
	return p, nil
}

// Name returns the payload's identity.
func (p *Payload) Name() string { return p.name }

// Kind returns the payload's staging role.
func (p *Payload) Kind() Kind { return p.kind }

// Arch returns the payload's target architecture.
func (p *Payload) Arch() string { return p.arch }

// Platform returns the payload's target platform.
func (p *Payload) Platform() string { return p.platform }

// Convention returns the stager/stage calling convention, or "" when
// the payload is convention-agnostic.
func (p *Payload) Convention() string { return p.convention }

// BadChars returns the characters the delivered buffer must avoid.
func (p *Payload) BadChars() []byte { return append([]byte(nil), p.badChars...) }

// SaveRegisters returns the registers a stager must preserve across
// handoff.
func (p *Payload) SaveRegisters() []string {
	return append([]string(nil), p.saveRegisters...)
}

// Staged reports whether the payload takes part in a staging handoff.
func (p *Payload) Staged() bool {
	return p.kind == KindStager || p.kind == KindStage
}

// ConnectionType returns the handler classification cached at
// construction.
func (p *Payload) ConnectionType() handler.ConnType { return p.connType }

// Handler returns the handler capability.
func (p *Payload) Handler() handler.Handler { return p.h }

// CompatibleConvention reports whether this payload can be combined
// with a peer declaring the given convention. A payload with no
// convention of its own matches anything. A stager additionally
// accepts a peer that declares no convention, so convention-agnostic
// stagers pair liberally while stages enforce an exact match.
func (p *Payload) CompatibleConvention(peer string) bool {
	if p.convention == "" || p.convention == peer {
		return true
	}
	if p.kind == KindStager && peer == "" {
		return true
	}
	return false
}

// SetExploit associates the originating exploit. The reference is
// non-owning; the payload never manages the exploit's lifetime.
func (p *Payload) SetExploit(e exploit.Exploit) { p.exp = e }

// Exploit returns the associated exploit, or nil.
func (p *Payload) Exploit() exploit.Exploit { return p.exp }

// SetRegistry installs the module registry consulted by the
// compatibility queries.
func (p *Payload) SetRegistry(r ModuleRegistry) { p.registry = r }

// SetLogger overrides the diagnostic sink. Substitution warnings go
// through this entry.
func (p *Payload) SetLogger(log *logrus.Entry) {
	if log != nil {
		p.log = log
	}
}

// Session returns the most recently bound session, or nil.
func (p *Payload) Session() *session.Session { return p.sess }
