// Package sqltext holds the fixed statements and statement templates the
// connection layer issues on its own behalf.
//
// Templates carry fmt verbs. KILL and session-level SET cannot be prepared
// server side, so their arguments are formatted client side; every slot is
// an integer or a backtick-quoted identifier, never free text.
package sqltext

import "strings"

const (
	// ShowProcessList lists every thread running on the server.
	ShowProcessList = "SHOW FULL PROCESSLIST"

	// ShowWarnings returns the warnings raised by the session's previous
	// statement. Must run on the same connection as that statement.
	ShowWarnings = "SHOW WARNINGS"

	// KillQuery terminates the server thread with the given id.
	KillQuery = "KILL %d"

	// EnableAutocommit makes every statement commit on its own.
	EnableAutocommit = "SET autocommit = 1"

	// SetWaitTimeout caps, in seconds, how long the server keeps this
	// session around while it sits idle.
	SetWaitTimeout = "SET SESSION WAIT_TIMEOUT = %d"

	// DisableBinlog keeps the session's changes out of the binary log, so
	// they are not replayed by replication.
	DisableBinlog = "SET SESSION SQL_LOG_BIN = 0"

	// UseDatabase switches the session's default database. The slot takes
	// an identifier already quoted with QuoteIdentifier.
	UseDatabase = "USE %s"
)

// QuoteIdentifier wraps name in backticks, doubling any backtick inside it.
func QuoteIdentifier(name string) string {
	return "`" + strings.Replace(name, "`", "``", -1) + "`"
}
