package dbconn

import (
	"fmt"
	"time"
)

// TCPParams configures one session over TCP.
type TCPParams struct {
	Uname   string
	Pass    string
	Host    string
	Port    int
	DbName  string
	Charset string

	// ConnectTimeout bounds the dial. Zero means DefaultConnectTimeout
	// when going through NewTCPConn.
	ConnectTimeout time.Duration
	// WaitTimeout is set on the session right after connecting. Zero
	// means DefaultWaitTimeout when going through NewTCPConn; a factory
	// called directly with zero skips the SET.
	WaitTimeout time.Duration

	// QueryHeader is the attribution comment prepended to every
	// statement. Empty means DefaultQueryHeader().
	QueryHeader string
}

// Addr is the host:port the params point at.
func (p *TCPParams) Addr() string {
	return fmt.Sprintf("%s:%d", p.Host, p.Port)
}

// TCPConn is one MySQL session over TCP.
type TCPConn struct {
	Conn

	params  *TCPParams
	factory TCPFactory
}

var _ Connection = (*TCPConn)(nil)

// NewTCPConn builds an unconnected session. A nil factory selects OpenTCP;
// a nil stats disables metrics. The params record is copied, so later
// changes to it do not reach the session.
func NewTCPConn(params *TCPParams, factory TCPFactory, stats *Stats) *TCPConn {
	p := *params
	if p.Port == 0 {
		p.Port = DefaultPort
	}
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
		factory = OpenTCP
	}
	c := &TCPConn{params: &p, factory: factory}
	c.init(p.QueryHeader, p.Addr(), stats)
	return c
}

// Connect opens the session through the factory. On a session that is
// already open it dials first, then swaps the old handle out.
func (c *TCPConn) Connect() error {
	defer c.stats.Timings.Record([]string{OpConnect, c.addr}, time.Now())

	h, err := c.factory(c.params)
	if err != nil {
		c.stats.ErrorCounts.Add([]string{OpConnect}, 1)
		return fmt.Errorf("error in connecting to mysql db on %s, err %v", c.params.Addr(), err)
	}
	c.attach(h)
	return nil
}
