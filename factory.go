package dbconn

import (
	"database/sql"
	"fmt"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"

	"git.100tal.com/wangxiao_jichujiagou_common/dbconn/sqltext"
)

// SocketFactory opens a session over a Unix domain socket. Supplying one to
// NewSocketConn swaps the dialing strategy; everything above the Handle
// stays the same.
type SocketFactory func(params *SocketParams) (Handle, error)

// TCPFactory opens a session over TCP.
type TCPFactory func(params *TCPParams) (Handle, error)

// OpenSocket is the default SocketFactory.
func OpenSocket(params *SocketParams) (Handle, error) {
	return openHandle(socketDriverConfig(params), params.ConnectTimeout, params.WaitTimeout)
}

// OpenTCP is the default TCPFactory.
func OpenTCP(params *TCPParams) (Handle, error) {
	return openHandle(tcpDriverConfig(params), params.ConnectTimeout, params.WaitTimeout)
}

func socketDriverConfig(params *SocketParams) *mysqldriver.Config {
	cfg := mysqldriver.NewConfig()
	cfg.User = params.Uname
	cfg.Passwd = params.Pass
	cfg.Net = "unix"
	cfg.Addr = params.UnixSocket
	cfg.DBName = params.DbName
	cfg.Timeout = params.ConnectTimeout
	cfg.AllowNativePasswords = true
	if params.Charset != "" {
		cfg.Params = map[string]string{"charset": params.Charset}
	}
	return cfg
}

func tcpDriverConfig(params *TCPParams) *mysqldriver.Config {
	cfg := mysqldriver.NewConfig()
	cfg.User = params.Uname
	cfg.Passwd = params.Pass
	cfg.Net = "tcp"
	cfg.Addr = params.Addr()
	cfg.DBName = params.DbName
	cfg.Timeout = params.ConnectTimeout
	cfg.AllowNativePasswords = true
	if params.Charset != "" {
		cfg.Params = map[string]string{"charset": params.Charset}
	}
	return cfg
}

// openHandle dials, pins the session, and applies the setup every fresh
// session gets: autocommit on, plus the wait timeout when one is set.
func openHandle(cfg *mysqldriver.Config, connectTimeout, waitTimeout time.Duration) (Handle, error) {
	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, err
	}
	h, err := NewSQLHandle(db, connectTimeout, sqltext.ShowWarnings)
	if err != nil {
		return nil, err
	}
	if _, err := h.Exec(sqltext.EnableAutocommit); err != nil {
		h.Close()
		return nil, err
	}
	if waitTimeout > 0 {
		stmt := fmt.Sprintf(sqltext.SetWaitTimeout, int64(waitTimeout/time.Second))
		if _, err := h.Exec(stmt); err != nil {
			h.Close()
			return nil, err
		}
	}
	return h, nil
}
