package dbconn

import (
	"fmt"
	"os"
)

// DefaultQueryHeader builds the attribution comment prepended to every
// statement a session sends: the invoking program and this library,
// colon-joined, so the originator shows up in processlist output and
// slow-query logs.
func DefaultQueryHeader() string {
	prog := "unknown"
	if len(os.Args) > 0 && os.Args[0] != "" {
		prog = os.Args[0]
	}
	return fmt.Sprintf("/* %s:dbconn */", prog)
}
