package logsvc

import (
	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"
	"go.uber.org/zap"

	"github.com/mrxclay666777/speakyz/core"
)

type RollbarLogger struct {
	sugar *zap.SugaredLogger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(zl *zap.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{sugar: zl.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

// NewZap builds the local sink: human readable in debug, JSON otherwise.
func NewZap(conf *core.Config) (*zap.Logger, error) {
	if conf.Debug || conf.TestMode {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

func (l RollbarLogger) Sync() error {
	rollbar.Wait()
	return l.sugar.Sync()
}

// expected fmt: msg | error, map[string]interface{}, core.Actor
func (l RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	var actorSet bool
	newArgs := make([]interface{}, 0, len(args)+1)
	newArgs = append(newArgs, msg)
	for _, arg := range args {
		if actor, ok := arg.(core.Actor); ok {
			if !actorSet { // only set one Actor
				rollbar.SetPerson(actor.ID, actor.Username, actor.Email)
				actorSet = true
			}
		} else {
			newArgs = append(newArgs, arg)
		}
	}
	if !actorSet {
		rollbar.ClearPerson()
	}
	return newArgs
}

func fields(args []interface{}) []interface{} {
	kvs := make([]interface{}, 0, len(args)*2)
	for _, arg := range args {
		switch v := arg.(type) {
		case error:
			kvs = append(kvs, zap.Error(v))
		case core.Actor:
			kvs = append(kvs, "actor", v.ID)
		case map[string]interface{}:
			for k, val := range v {
				kvs = append(kvs, k, val)
			}
		default:
			kvs = append(kvs, "arg", v)
		}
	}
	return kvs
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	rollbar.Debug(l.prepare(msg, args)...)
	l.sugar.Debugw(msg, fields(args)...)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(l.prepare(msg, args)...)
	l.sugar.Infow(msg, fields(args)...)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(l.prepare(msg, args)...)
	l.sugar.Warnw(msg, fields(args)...)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(l.prepare(msg, args)...)
	l.sugar.Errorw(msg, fields(args)...)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rollbar.Critical(l.prepare(msg, args)...)
	rollbar.Wait()
	l.sugar.Fatalw(msg, fields(args)...)
}
