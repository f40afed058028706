package dbconn

import (
	"fmt"
	"time"
)

// Defaults the constructors fill in when a params field is zero.
const (
	DefaultConnectTimeout = 10 * time.Second
	DefaultWaitTimeout    = 60 * time.Second
	DefaultPort           = 3306
)

// SocketParams configures one session over a Unix domain socket.
type SocketParams struct {
	Uname      string
	Pass       string
	UnixSocket string
	DbName     string
	Charset    string

	// ConnectTimeout bounds the dial. Zero means DefaultConnectTimeout
	// when going through NewSocketConn.
	ConnectTimeout time.Duration
	// WaitTimeout is set on the session right after connecting. Zero
	// means DefaultWaitTimeout when going through NewSocketConn; a
	// factory called directly with zero skips the SET.
	WaitTimeout time.Duration

	// QueryHeader is the attribution comment prepended to every
	// statement. Empty means DefaultQueryHeader().
	QueryHeader string
}

// SocketConn is one MySQL session over a Unix domain socket.
type SocketConn struct {
	Conn

	params  *SocketParams
	factory SocketFactory
}

var _ Connection = (*SocketConn)(nil)

// NewSocketConn builds an unconnected session. A nil factory selects
// OpenSocket; a nil stats disables metrics. The params record is copied, so
// later changes to it do not reach the session.
func NewSocketConn(params *SocketParams, factory SocketFactory, stats *Stats) *SocketConn {
	p := *params
	if p.ConnectTimeout == 0 {
		p.ConnectTimeout = DefaultConnectTimeout
	}
	if p.WaitTimeout == 0 {
		p.WaitTimeout = DefaultWaitTimeout
	}
	if p.QueryHeader == "" {
		p.QueryHeader = DefaultQueryHeader()
	}
	if factory == nil {
		factory = OpenSocket
	}
	c := &SocketConn{params: &p, factory: factory}
	c.init(p.QueryHeader, p.UnixSocket, stats)
	return c
}

// Connect opens the session through the factory. On a session that is
// already open it dials first, then swaps the old handle out.
func (c *SocketConn) Connect() error {
	defer c.stats.Timings.Record([]string{OpConnect, c.addr}, time.Now())

	h, err := c.factory(c.params)
	if err != nil {
		c.stats.ErrorCounts.Add([]string{OpConnect}, 1)
		return fmt.Errorf("error in connecting to mysql db on socket %s, err %v", c.params.UnixSocket, err)
	}
	c.attach(h)
	return nil
}
