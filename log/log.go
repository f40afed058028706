// Package log carries the process-wide logger used across the library.
//
// The default backend forwards to kratos' log package. Programs that keep
// their own logging stack swap it out with SetGlobalLogger before opening
// any connection.
package log

import (
	klog "github.com/go-kratos/kratos/pkg/log"
)

// Logger is the sink behind the package-level helpers. All format strings
// are fmt-style.
type Logger interface {
	Trace(format string, args ...interface{})
	Debug(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Fatal(format string, args ...interface{})
	Close() error
}

// Config selects where and how much the default backend writes.
type Config struct {
	// Service is the logical name stamped on every record.
	Service string
	// Dir, when set, sends records to rotated files under it.
	Dir string
	// Stdout mirrors records to standard output.
	Stdout bool
	// V is the verbosity Debug records are gated on.
	V int32
}

var global Logger = kratosLogger{}

// SetGlobalLogger replaces the process-wide logger. Call it once during
// startup; it is not synchronized against in-flight logging.
func SetGlobalLogger(l Logger) {
	if l != nil {
		global = l
	}
}

// GlobalLogger returns the logger currently backing the package helpers.
func GlobalLogger() Logger {
	return global
}

// Init configures the default kratos backend. Without it records go to
// stdout with kratos' own defaults, which is fine for tests and tools.
func Init(conf *Config) {
	if conf == nil {
		klog.Init(nil)
		return
	}
	klog.Init(&klog.Config{
		Family: conf.Service,
		Dir:    conf.Dir,
		Stdout: conf.Stdout || conf.Dir == "",
		V:      conf.V,
	})
}

func Trace(format string, args ...interface{}) {
	global.Trace(format, args...)
}

func Debug(format string, args ...interface{}) {
	global.Debug(format, args...)
}

func Warn(format string, args ...interface{}) {
	global.Warn(format, args...)
}

func Fatal(format string, args ...interface{}) {
	global.Fatal(format, args...)
}

// Close flushes and closes the global logger.
func Close() error {
	return global.Close()
}

// kratosLogger maps the four levels onto kratos' three plus its V-gating.
type kratosLogger struct{}

func (kratosLogger) Trace(format string, args ...interface{}) {
	klog.Info(format, args...)
}

func (kratosLogger) Debug(format string, args ...interface{}) {
	klog.V(1).Info(format, args...)
}

func (kratosLogger) Warn(format string, args ...interface{}) {
	klog.Warn(format, args...)
}

func (kratosLogger) Fatal(format string, args ...interface{}) {
	klog.Error(format, args...)
}

func (kratosLogger) Close() error {
	return klog.Close()
}
