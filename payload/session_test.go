package payload

import (
	"testing"

	"stagecraft/exploit"
	"stagecraft/handler"
	"stagecraft/session"
)

// fakeExploit counts capability invocations.
type fakeExploit struct {
	kind     exploit.Kind
	passive  bool
	notified int
	aborted  int
	last     *session.Session
}

func (f *fakeExploit) OnNewSession(sess *session.Session) {
	f.notified++
	f.last = sess
}

func (f *fakeExploit) Kind() exploit.Kind { return f.kind }
func (f *fakeExploit) Passive() bool      { return f.passive }
func (f *fakeExploit) AbortSockets()      { f.aborted++ }

func TestOnSessionNotifiesAndAborts(t *testing.T) {
	exp := &fakeExploit{kind: exploit.KindRemote}
	p := mustNew(t, Definition{Name: "t", Raw: []byte{0x90}}, handler.ReverseTCP{}, nil)
	p.SetExploit(exp)

	sess := session.New("t", "10.0.0.9:4444")
	p.OnSession(sess)

	if exp.notified != 1 {
		t.Fatalf("notified %d times, want 1", exp.notified)
	}
	if exp.last != sess {
		t.Fatalf("exploit saw wrong session")
	}
	if exp.aborted != 1 {
		t.Fatalf("aborted %d times, want 1", exp.aborted)
	}
	if p.Session() != sess {
		t.Fatalf("payload did not retain the bound session")
	}
}

func TestOnSessionAbortPredicate(t *testing.T) {
	cases := []struct {
		name      string
		kind      exploit.Kind
		passive   bool
		h         handler.Handler
		wantAbort bool
	}{
		{"remote active reverse", exploit.KindRemote, false, handler.ReverseTCP{}, true},
		{"remote active bind", exploit.KindRemote, false, handler.BindTCP{}, true},
		{"find connection never aborts", exploit.KindRemote, false, handler.FindPort{}, false},
		{"passive never aborts", exploit.KindRemote, true, handler.ReverseTCP{}, false},
		{"local never aborts", exploit.KindLocal, false, handler.ReverseTCP{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			exp := &fakeExploit{kind: tc.kind, passive: tc.passive}
			p := mustNew(t, Definition{Name: "t", Raw: []byte{0x90}}, tc.h, nil)
			p.SetExploit(exp)

			p.OnSession(session.New("t", "10.0.0.9:4444"))

			if exp.notified != 1 {
				t.Errorf("notified %d times, want 1", exp.notified)
			}
			wantAborts := 0
			if tc.wantAbort {
				wantAborts = 1
			}
			if exp.aborted != wantAborts {
				t.Errorf("aborted %d times, want %d", exp.aborted, wantAborts)
			}
		})
	}
}

func TestOnSessionWithoutExploit(t *testing.T) {
	p := mustNew(t, Definition{Name: "t", Raw: []byte{0x90}}, handler.ReverseTCP{}, nil)
	sess := session.New("t", "10.0.0.9:4444")
	p.OnSession(sess) // must not panic
	if p.Session() != sess {
		t.Fatalf("session not retained")
	}
}
