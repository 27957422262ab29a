package gologger

import (
	"context"
	"fmt"
	"io"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/sirupsen/logrus"
)

// Resolve uses deterministic precedence provider > logger > nop.
func Resolve(name string, provider glog.LoggerProvider, logger glog.Logger) (glog.LoggerProvider, glog.Logger) {
	return glog.Resolve(name, provider, logger)
}

// Logrus adapts a logrus entry to the glog contract. Trailing args are read
// as key/value pairs and become logrus fields.
type Logrus struct {
	entry *logrus.Entry
}

var _ glog.Logger = (*Logrus)(nil)

func NewLogrus(base *logrus.Logger) *Logrus {
	if base == nil {
		base = logrus.New()
	}
	return &Logrus{entry: logrus.NewEntry(base)}
}

// NewLogrusWriter builds a logger writing text records at level to out.
func NewLogrusWriter(out io.Writer, level string, jsonFormat bool) (*Logrus, error) {
	base := logrus.New()
	if out != nil {
		base.SetOutput(out)
	}
	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		base.SetLevel(parsed)
	}
	if jsonFormat {
		base.SetFormatter(&logrus.JSONFormatter{})
	} else {
		base.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}
	return NewLogrus(base), nil
}

func (l *Logrus) Trace(msg string, args ...any) { l.log(logrus.TraceLevel, msg, args) }
func (l *Logrus) Debug(msg string, args ...any) { l.log(logrus.DebugLevel, msg, args) }
func (l *Logrus) Info(msg string, args ...any)  { l.log(logrus.InfoLevel, msg, args) }
func (l *Logrus) Warn(msg string, args ...any)  { l.log(logrus.WarnLevel, msg, args) }
func (l *Logrus) Error(msg string, args ...any) { l.log(logrus.ErrorLevel, msg, args) }

// Fatal logs at fatal level without exiting the process.
func (l *Logrus) Fatal(msg string, args ...any) { l.log(logrus.FatalLevel, msg, args) }

func (l *Logrus) WithContext(ctx context.Context) glog.Logger {
	if l == nil {
		return l
	}
	return &Logrus{entry: l.entry.WithContext(ctx)}
}

// Named returns a child logger tagged with name.
func (l *Logrus) Named(name string) *Logrus {
	return &Logrus{entry: l.entry.WithField("logger", name)}
}

func (l *Logrus) log(level logrus.Level, msg string, args []any) {
	if l == nil || l.entry == nil {
		return
	}
	if !l.entry.Logger.IsLevelEnabled(level) {
		return
	}
	entry := l.entry
	if fields := pairs(args); len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Log(level, msg)
}

func pairs(args []any) logrus.Fields {
	if len(args) == 0 {
		return nil
	}
	fields := logrus.Fields{}
	for i := 0; i < len(args); i += 2 {
		key := fmt.Sprint(args[i])
		if i+1 >= len(args) {
			fields["extra"] = args[i]
			break
		}
		fields[key] = args[i+1]
	}
	return fields
}

// Provider hands out named children of one root logger.
type Provider struct {
	root *Logrus
}

var _ glog.LoggerProvider = (*Provider)(nil)

func NewProvider(root *Logrus) *Provider {
	if root == nil {
		root = NewLogrus(nil)
	}
	return &Provider{root: root}
}

func (p *Provider) GetLogger(name string) glog.Logger {
	if p == nil || p.root == nil {
		return nil
	}
	return p.root.Named(name)
}
