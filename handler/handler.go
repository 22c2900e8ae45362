// Package handler defines the handler capability a payload consults to
// classify how its network transport is established. Only the
// classification lives here; listener and dialer mechanics belong to
// the delivery layer.
package handler

// ConnType classifies how a payload's transport comes up.
type ConnType string

const (
	// ConnBind means the target listens and the operator connects in.
	ConnBind ConnType = "bind"
	// ConnReverse means the target connects back to the operator.
	ConnReverse ConnType = "reverse"
	// ConnFind means the payload reuses an existing connection.
	ConnFind ConnType = "find"
	// ConnNone means the payload needs no network transport.
	ConnNone ConnType = "none"
	// ConnTunnel means the transport rides an application-layer tunnel.
	ConnTunnel ConnType = "tunnel"
)

// Handler exposes the connection-type classification for a payload.
type Handler interface {
	ConnectionType() ConnType
}

// None is the neutral handler used when a payload has no handler
// associated. It classifies as ConnNone and is always compatible.
type None struct{}

func (None) ConnectionType() ConnType { return ConnNone }

// BindTCP classifies payloads that open a listening port on the target.
type BindTCP struct{}

func (BindTCP) ConnectionType() ConnType { return ConnBind }

// ReverseTCP classifies payloads that connect back to the operator.
type ReverseTCP struct{}

func (ReverseTCP) ConnectionType() ConnType { return ConnReverse }

// FindPort classifies payloads that search for and reuse the socket
// the exploit came in on.
type FindPort struct{}

func (FindPort) ConnectionType() ConnType { return ConnFind }
