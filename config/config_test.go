package config

import (
	"io/ioutil"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"git.100tal.com/wangxiao_jichujiagou_common/dbconn"
)

func writeConfig(t *testing.T, content string) (string, func()) {
	t.Helper()
	f, err := ioutil.TempFile("", "dbconn-*.ini")
	require.NoError(t, err)
	_, err = f.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name(), func() { os.Remove(f.Name()) }
}

func TestLoadConfig(t *testing.T) {
	path, cleanup := writeConfig(t, `
[log]
output = file
dir = /data/logs
service = osc
v = 2

[mysql]
host = db1.internal
port = 3307
username = osc
password = secret
db = prod
charset = utf8mb4
connect_timeout_ms = 5000
wait_timeout_ms = 120000
query_header = /* osc_cli:dbconn */
`)
	defer cleanup()

	c, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, "file", c.Log.Output)
	require.Equal(t, "/data/logs", c.Log.Dir)
	require.Equal(t, "osc", c.Log.Service)
	require.Equal(t, int32(2), c.Log.V)

	require.Equal(t, "db1.internal", c.Mysql.Host)
	require.Equal(t, 3307, c.Mysql.Port)
	require.Equal(t, "osc", c.Mysql.Username)
	require.Equal(t, "secret", c.Mysql.Password)
	require.Equal(t, "prod", c.Mysql.DB)
	require.Equal(t, "utf8mb4", c.Mysql.Charset)
	require.Equal(t, uint64(5000), c.Mysql.ConnectTimeoutMs)
	require.Equal(t, uint64(120000), c.Mysql.WaitTimeoutMs)
	require.Equal(t, "/* osc_cli:dbconn */", c.Mysql.QueryHeader)
}

func TestLoadConfigDefaults(t *testing.T) {
	path, cleanup := writeConfig(t, `
[mysql]
socket = /tmp/mysql.sock
username = osc
`)
	defer cleanup()

	c, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "stdout", c.Log.Output)
	require.Equal(t, "dbconn", c.Log.Service)
	require.Equal(t, "", c.Log.Dir)
}

func TestLoadConfigFileOutputDefaultsDir(t *testing.T) {
	path, cleanup := writeConfig(t, `
[log]
output = file

[mysql]
socket = /tmp/mysql.sock
username = osc
`)
	defer cleanup()

	c, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "./logs", c.Log.Dir)
}

func TestLoadConfigRejectsMissingEndpoint(t *testing.T) {
	path, cleanup := writeConfig(t, `
[mysql]
username = osc
`)
	defer cleanup()

	_, err := LoadConfig(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no socket and no host")
}

func TestLoadConfigRejectsMissingUsername(t *testing.T) {
	path, cleanup := writeConfig(t, `
[mysql]
socket = /tmp/mysql.sock
`)
	defer cleanup()

	_, err := LoadConfig(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no username")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/dbconn.ini")
	require.Error(t, err)
}

func TestMysqlConfigToSocketParams(t *testing.T) {
	cfg := &Mysql{
		Socket:           "/tmp/mysql.sock",
		Username:         "osc",
		Password:         "secret",
		DB:               "prod",
		Charset:          "utf8mb4",
		ConnectTimeoutMs: 5000,
		WaitTimeoutMs:    120000,
		QueryHeader:      "/* osc_cli:dbconn */",
	}

	want := &dbconn.SocketParams{
		Uname:          "osc",
		Pass:           "secret",
		UnixSocket:     "/tmp/mysql.sock",
		DbName:         "prod",
		Charset:        "utf8mb4",
		ConnectTimeout: 5 * time.Second,
		WaitTimeout:    2 * time.Minute,
		QueryHeader:    "/* osc_cli:dbconn */",
	}
	if diff := cmp.Diff(want, MysqlConfigToSocketParams(cfg)); diff != "" {
		t.Errorf("socket params mismatch (-want +got):\n%s", diff)
	}
}

func TestMysqlConfigToTCPParams(t *testing.T) {
	cfg := &Mysql{
		Host:             "db1.internal",
		Port:             3307,
		Username:         "osc",
		Password:         "secret",
		DB:               "prod",
		ConnectTimeoutMs: 5000,
	}

	want := &dbconn.TCPParams{
		Uname:          "osc",
		Pass:           "secret",
		Host:           "db1.internal",
		Port:           3307,
		DbName:         "prod",
		ConnectTimeout: 5 * time.Second,
	}
	if diff := cmp.Diff(want, MysqlConfigToTCPParams(cfg)); diff != "" {
		t.Errorf("tcp params mismatch (-want +got):\n%s", diff)
	}
}

func TestLogConfigToLog(t *testing.T) {
	stdout := LogConfigToLog(&Log{Output: "stdout", Service: "osc"})
	require.True(t, stdout.Stdout)
	require.Equal(t, "osc", stdout.Service)

	file := LogConfigToLog(&Log{Output: "file", Dir: "/data/logs", V: 1})
	require.False(t, file.Stdout)
	require.Equal(t, "/data/logs", file.Dir)
	require.Equal(t, int32(1), file.V)
}

func TestSampleConfigParses(t *testing.T) {
	c, err := LoadConfig("../etc/dbconn.ini")
	require.NoError(t, err)
	require.Equal(t, "/var/lib/mysql/mysql.sock", c.Mysql.Socket)
	require.Equal(t, "osc", c.Mysql.Username)
	require.Equal(t, uint64(10000), c.Mysql.ConnectTimeoutMs)
}
