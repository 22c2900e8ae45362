package payload

import (
	"stagecraft/exploit"
	"stagecraft/handler"
	"stagecraft/session"
)

// OnSession is invoked by the delivery layer exactly once per session
// established from this payload's execution. If an exploit is
// associated it is notified, and — for an active remote exploit whose
// payload is not of the find-connection variety — told to abort its
// other in-flight sockets, so the winning delivery attempt shuts down
// its racing siblings. The exploit's AbortSockets contract makes the
// abort itself exactly-once even when sibling sessions race here.
func (p *Payload) OnSession(sess *session.Session) {
	p.sess = sess
	if p.exp == nil {
		return
	}
	p.exp.OnNewSession(sess)
	if p.exp.Kind() == exploit.KindRemote && !p.exp.Passive() && p.connType != handler.ConnFind {
		p.exp.AbortSockets()
	}
}
