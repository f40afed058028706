package dbconn

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotConnected is returned when a session operation runs before Connect
// or after Disconnect.
var ErrNotConnected = errors.New("no open session, Connect first")

// SQLWarning is one row of SHOW WARNINGS.
type SQLWarning struct {
	Level   string
	Code    int64
	Message string
}

// StatementWarnings is the error form warnings are promoted to before they
// are logged. Execute never returns it; the statement itself succeeded.
type StatementWarnings []SQLWarning

func (ws StatementWarnings) Error() string {
	parts := make([]string, 0, len(ws))
	for _, w := range ws {
		parts = append(parts, fmt.Sprintf("%s (%d): %s", w.Level, w.Code, w.Message))
	}
	return strings.Join(parts, "; ")
}
