// Package exploit defines the capability surface a payload consumes
// from its originating exploit, and a Remote base that supplies the
// guarded one-shot socket-abort required when racing delivery attempts
// produce a winning session.
package exploit

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"stagecraft/session"
)

// Kind classifies an exploit module.
type Kind string

const (
	KindRemote Kind = "remote"
	KindLocal  Kind = "local"
)

// Exploit is the capability a payload holds a non-owning reference to.
// The payload never manages the exploit's lifetime.
type Exploit interface {
	// OnNewSession is invoked once a session has been established
	// from this exploit's payload.
	OnNewSession(sess *session.Session)
	// Kind classifies the exploit.
	Kind() Kind
	// Passive reports whether the exploit waits for the target to
	// come to it rather than initiating delivery.
	Passive() bool
	// AbortSockets tears down any other in-flight listening or
	// connecting sockets. Must be exactly-once even when sibling
	// delivery attempts race to session creation.
	AbortSockets()
}

// Remote is a base for remote exploits. It tracks sockets opened
// during delivery and guarantees AbortSockets closes them exactly
// once.
type Remote struct {
	Name        string
	PassiveMode bool
	Log         *logrus.Entry

	mu        sync.Mutex
	sockets   []io.Closer
	abortOnce sync.Once

	sessMu   sync.Mutex
	sessions []*session.Session
}

// NewRemote returns a Remote exploit base.
func NewRemote(name string) *Remote {
	return &Remote{
		Name: name,
		Log:  logrus.WithField("exploit", name),
	}
}

func (r *Remote) Kind() Kind { return KindRemote }

func (r *Remote) Passive() bool { return r.PassiveMode }

// RegisterSocket adds a socket to the set AbortSockets will close.
func (r *Remote) RegisterSocket(c io.Closer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sockets = append(r.sockets, c)
}

// OnNewSession records the session. Concrete exploits may wrap this to
// add their own bookkeeping.
func (r *Remote) OnNewSession(sess *session.Session) {
	r.sessMu.Lock()
	r.sessions = append(r.sessions, sess)
	r.sessMu.Unlock()
	r.Log.Infof("session %s (%s) opened via %s", sess.ID, sess.Codename, sess.Payload)
}

// Sessions returns the sessions recorded so far.
func (r *Remote) Sessions() []*session.Session {
	r.sessMu.Lock()
	defer r.sessMu.Unlock()
	out := make([]*session.Session, len(r.sessions))
	copy(out, r.sessions)
	return out
}

// AbortSockets closes every registered socket. The close pass runs at
// most once; later calls, including concurrent ones, are no-ops.
func (r *Remote) AbortSockets() {
	r.abortOnce.Do(func() {
		r.mu.Lock()
		sockets := r.sockets
		r.sockets = nil
		r.mu.Unlock()
		for _, c := range sockets {
			if err := c.Close(); err != nil {
				r.Log.Debugf("abort socket: %v", err)
			}
		}
		if len(sockets) > 0 {
			r.Log.Infof("aborted %d in-flight sockets", len(sockets))
		}
	})
}
