// Package dbconn wraps exactly one MySQL session behind a small operation
// surface: attributed queries, side-effect statements with warning capture,
// and the session chores an online schema change leans on (USE, binlog
// muting, processlist, KILL).
//
// There is no pooling and no retry. One value, one server thread; session
// state set through it stays where it was put.
package dbconn

import (
	"fmt"
	"time"

	"git.100tal.com/wangxiao_jichujiagou_common/dbconn/log"
	"git.100tal.com/wangxiao_jichujiagou_common/dbconn/sqltext"
)

// Operation labels used on Stats.
const (
	OpConnect = "Connect"
	OpQuery   = "Query"
	OpExecute = "Execute"
	OpSession = "Session"
	OpPing    = "Ping"
)

// Row is one result row keyed by column name.
type Row map[string]interface{}

// Connection is the capability consumers hold: one session, its lifecycle
// and operations. SocketConn and TCPConn both satisfy it.
type Connection interface {
	Connect() error
	Disconnect() error
	Close() error

	Query(query string, args ...interface{}) ([]Row, error)
	QueryArray(query string, args ...interface{}) ([][]interface{}, error)
	Execute(query string, args ...interface{}) (int64, error)
	AffectedRows() int64

	Use(dbName string) error
	SetNoBinlog() error
	RunningQueries() ([]Row, error)
	KillQueryByID(id uint64) error
	Ping() error
}

// Conn is the session core shared by the socket and TCP variants. It holds
// the open handle, the attribution header and the counters; the variants
// own dialing. Not safe for concurrent use, same as the single server
// thread it drives.
type Conn struct {
	handle Handle

	queryHeader string
	addr        string

	lastAffected int64

	stats *Stats
}

func (c *Conn) init(queryHeader, addr string, stats *Stats) {
	c.queryHeader = queryHeader
	c.addr = addr
	if stats == nil {
		stats = &Stats{}
	}
	c.stats = stats
}

// attach installs a freshly opened handle, closing any previous one so a
// repeated Connect cannot leak the old session.
func (c *Conn) attach(h Handle) {
	if c.handle != nil {
		c.handle.Close()
	}
	c.handle = h
	c.lastAffected = 0
}

// Connected reports whether the session is open.
func (c *Conn) Connected() bool {
	return c.handle != nil
}

// QueryHeader returns the attribution comment this session prepends to
// every statement.
func (c *Conn) QueryHeader() string {
	return c.queryHeader
}

func (c *Conn) headered(query string) string {
	if c.queryHeader == "" {
		return query
	}
	return c.queryHeader + " " + query
}

// Query runs a row-returning statement and maps every row by column name.
func (c *Conn) Query(query string, args ...interface{}) ([]Row, error) {
	cols, rows, err := c.fetch(query, args...)
	if err != nil {
		return nil, err
	}
	out := make([]Row, 0, len(rows))
	for _, values := range rows {
		row := make(Row, len(cols))
		for i, col := range cols {
			row[col] = values[i]
		}
		out = append(out, row)
	}
	return out, nil
}

// QueryArray is Query with positional rows instead of maps, for result
// sets where column order matters or names collide.
func (c *Conn) QueryArray(query string, args ...interface{}) ([][]interface{}, error) {
	_, rows, err := c.fetch(query, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Conn) fetch(query string, args ...interface{}) ([]string, [][]interface{}, error) {
	if c.handle == nil {
		return nil, nil, ErrNotConnected
	}
	defer c.stats.Timings.Record([]string{OpQuery, c.addr}, time.Now())

	cols, rows, err := c.handle.Query(c.headered(query), args...)
	if err != nil {
		c.stats.ErrorCounts.Add([]string{OpQuery}, 1)
		return nil, nil, err
	}
	c.lastAffected = int64(len(rows))
	return cols, rows, nil
}

// Execute runs a statement for its side effects and returns the affected
// row count. Warnings the statement raises are promoted to an error value,
// logged in one record, counted, and swallowed: the statement did succeed,
// but the anomaly must not vanish silently.
func (c *Conn) Execute(query string, args ...interface{}) (int64, error) {
	if c.handle == nil {
		return 0, ErrNotConnected
	}
	defer c.stats.Timings.Record([]string{OpExecute, c.addr}, time.Now())

	affected, err := c.handle.Exec(c.headered(query), args...)
	if err != nil {
		c.stats.ErrorCounts.Add([]string{OpExecute}, 1)
		return 0, err
	}
	c.lastAffected = affected

	warnings, err := c.handle.Warnings()
	if err != nil {
		log.Warn("fetch warnings failed w/ error %v, sql: %s", err, query)
		return affected, nil
	}
	if len(warnings) > 0 {
		c.stats.WarningCounts.Add(int64(len(warnings)))
		log.Warn("MySQL warning: %v, when executing sql: %s, args: %v",
			StatementWarnings(warnings), query, args)
	}
	return affected, nil
}

// exec runs a session statement without the warning capture Execute does.
func (c *Conn) exec(query string) error {
	if c.handle == nil {
		return ErrNotConnected
	}
	defer c.stats.Timings.Record([]string{OpSession, c.addr}, time.Now())

	if _, err := c.handle.Exec(c.headered(query)); err != nil {
		c.stats.ErrorCounts.Add([]string{OpSession}, 1)
		return err
	}
	return nil
}

// AffectedRows reports the row count of the session's last statement: rows
// changed for Execute, rows returned for Query and QueryArray. Zero before
// any statement has run.
func (c *Conn) AffectedRows() int64 {
	return c.lastAffected
}

// Use switches the session's default database.
func (c *Conn) Use(dbName string) error {
	return c.exec(fmt.Sprintf(sqltext.UseDatabase, sqltext.QuoteIdentifier(dbName)))
}

// SetNoBinlog keeps this session's changes out of the binary log. The
// schema change runs per instance, so its statements must not replicate.
func (c *Conn) SetNoBinlog() error {
	return c.exec(sqltext.DisableBinlog)
}

// RunningQueries lists the server's threads, one Row per processlist entry.
func (c *Conn) RunningQueries() ([]Row, error) {
	return c.Query(sqltext.ShowProcessList)
}

// KillQueryByID terminates the server thread with the given processlist id.
// Best effort: no existence check is performed, and whether an unknown id
// reports an error is up to the server.
func (c *Conn) KillQueryByID(id uint64) error {
	_, err := c.Execute(fmt.Sprintf(sqltext.KillQuery, id))
	return err
}

// Ping checks the server side of the session is alive.
func (c *Conn) Ping() error {
	if c.handle == nil {
		return ErrNotConnected
	}
	defer c.stats.Timings.Record([]string{OpPing, c.addr}, time.Now())

	if err := c.handle.Ping(); err != nil {
		c.stats.ErrorCounts.Add([]string{OpPing}, 1)
		return err
	}
	return nil
}

// Disconnect closes the session. Calling it again, or before Connect, is a
// no-op.
func (c *Conn) Disconnect() error {
	if c.handle == nil {
		return nil
	}
	err := c.handle.Close()
	c.handle = nil
	return err
}

// Close is Disconnect under the name lifecycle-managing callers expect.
func (c *Conn) Close() error {
	return c.Disconnect()
}
