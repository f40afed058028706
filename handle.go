package dbconn

import (
	"context"
	"database/sql"
	"strconv"
	"time"
)

// Handle is one open database session. Implementations must pin every
// statement to a single server connection: session state set through the
// handle (default database, session variables) has to stick until Close.
type Handle interface {
	// Exec runs a statement and returns its affected-row count, or -1
	// when the driver does not report one.
	Exec(query string, args ...interface{}) (int64, error)
	// Query runs a statement and returns the column names plus every row.
	Query(query string, args ...interface{}) (cols []string, rows [][]interface{}, err error)
	// Warnings returns the warnings raised by the session's previous
	// statement.
	Warnings() ([]SQLWarning, error)
	// Ping checks the server end of the session is still there.
	Ping() error
	// Close tears the session down.
	Close() error
}

// sqlHandle is a Handle over database/sql, pinned to one connection of a
// single-connection pool.
type sqlHandle struct {
	db        *sql.DB
	conn      *sql.Conn
	warnQuery string
}

// NewSQLHandle pins a session from db and takes ownership of it. The pool
// is clamped to that one connection, so a session the server drops fails
// loudly instead of being swapped for a fresh one with clean state.
// warnQuery is what Warnings runs; empty disables the probe for backends
// without one.
func NewSQLHandle(db *sql.DB, connectTimeout time.Duration, warnQuery string) (Handle, error) {
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx := context.Background()
	if connectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, connectTimeout)
		defer cancel()
	}
	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &sqlHandle{db: db, conn: conn, warnQuery: warnQuery}, nil
}

func (h *sqlHandle) Exec(query string, args ...interface{}) (int64, error) {
	res, err := h.conn.ExecContext(context.Background(), query, args...)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return -1, nil
	}
	return affected, nil
}

func (h *sqlHandle) Query(query string, args ...interface{}) ([]string, [][]interface{}, error) {
	rows, err := h.conn.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]interface{}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		scanArgs := make([]interface{}, len(cols))
		for i := range values {
			scanArgs[i] = &values[i]
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, nil, err
		}
		// The text protocol hands most values back as []byte; callers
		// want strings.
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		out = append(out, values)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return cols, out, nil
}

func (h *sqlHandle) Warnings() ([]SQLWarning, error) {
	if h.warnQuery == "" {
		return nil, nil
	}
	_, rows, err := h.Query(h.warnQuery)
	if err != nil {
		return nil, err
	}
	warnings := make([]SQLWarning, 0, len(rows))
	for _, row := range rows {
		// SHOW WARNINGS rows are Level, Code, Message.
		if len(row) < 3 {
			continue
		}
		w := SQLWarning{
			Level:   toString(row[0]),
			Message: toString(row[2]),
		}
		switch code := row[1].(type) {
		case int64:
			w.Code = code
		case uint64:
			w.Code = int64(code)
		case string:
			w.Code, _ = strconv.ParseInt(code, 10, 64)
		}
		warnings = append(warnings, w)
	}
	return warnings, nil
}

func (h *sqlHandle) Ping() error {
	return h.conn.PingContext(context.Background())
}

func (h *sqlHandle) Close() error {
	connErr := h.conn.Close()
	if err := h.db.Close(); err != nil {
		return err
	}
	return connErr
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return ""
}
