// Package config maps an ini file onto connection and logging settings.
package config

import (
	"fmt"
	"time"

	"github.com/go-ini/ini"

	"git.100tal.com/wangxiao_jichujiagou_common/dbconn"
	"git.100tal.com/wangxiao_jichujiagou_common/dbconn/log"
)

type Log struct {
	// Output is "stdout" or "file".
	Output  string `ini:"output"`
	Dir     string `ini:"dir"`
	Service string `ini:"service"`
	V       int32  `ini:"v"`
}

type Mysql struct {
	Host             string `ini:"host"`
	Port             int    `ini:"port"`
	Socket           string `ini:"socket"`
	Username         string `ini:"username"`
	Password         string `ini:"password"`
	DB               string `ini:"db"`
	Charset          string `ini:"charset"`
	ConnectTimeoutMs uint64 `ini:"connect_timeout_ms"`
	WaitTimeoutMs    uint64 `ini:"wait_timeout_ms"`
	QueryHeader      string `ini:"query_header"`
}

type Config struct {
	Log   `ini:"log"`
	Mysql `ini:"mysql"`
}

func LoadConfig(configPath string) (*Config, error) {
	cfg, err := ini.Load(configPath)
	if err != nil {
		return nil, err
	}
	c := Config{}
	err = cfg.MapTo(&c)
	if err != nil {
		return nil, err
	}

	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Log.Output == "file" && c.Log.Dir == "" {
		c.Log.Dir = "./logs"
	}
	if c.Log.Service == "" {
		c.Log.Service = "dbconn"
	}

	if err := validateMysqlConfig(&c.Mysql); err != nil {
		return nil, err
	}

	return &c, nil
}

func validateMysqlConfig(cfg *Mysql) error {
	if cfg.Socket == "" && cfg.Host == "" {
		return fmt.Errorf("invalid mysql config, no socket and no host: %+v", cfg)
	}
	if cfg.Username == "" {
		return fmt.Errorf("invalid mysql config, no username: %+v", cfg)
	}

	return nil
}

func LogConfigToLog(cfg *Log) *log.Config {
	return &log.Config{
		Service: cfg.Service,
		Dir:     cfg.Dir,
		Stdout:  cfg.Output != "file",
		V:       cfg.V,
	}
}

func MysqlConfigToSocketParams(cfg *Mysql) *dbconn.SocketParams {
	return &dbconn.SocketParams{
		Uname:          cfg.Username,
		Pass:           cfg.Password,
		UnixSocket:     cfg.Socket,
		DbName:         cfg.DB,
		Charset:        cfg.Charset,
		ConnectTimeout: time.Duration(cfg.ConnectTimeoutMs) * time.Millisecond,
		WaitTimeout:    time.Duration(cfg.WaitTimeoutMs) * time.Millisecond,
		QueryHeader:    cfg.QueryHeader,
	}
}

func MysqlConfigToTCPParams(cfg *Mysql) *dbconn.TCPParams {
	return &dbconn.TCPParams{
		Uname:          cfg.Username,
		Pass:           cfg.Password,
		Host:           cfg.Host,
		Port:           cfg.Port,
		DbName:         cfg.DB,
		Charset:        cfg.Charset,
		ConnectTimeout: time.Duration(cfg.ConnectTimeoutMs) * time.Millisecond,
		WaitTimeout:    time.Duration(cfg.WaitTimeoutMs) * time.Millisecond,
		QueryHeader:    cfg.QueryHeader,
	}
}
