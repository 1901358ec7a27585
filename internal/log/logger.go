// Copyright 2018 The klaytn Authors
// This file is part of the klaytn library.
//
// The klaytn library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The klaytn library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the klaytn library. If not, see <http://www.gnu.org/licenses/>.

// Package log provides the contextual, key-value logger shared by every
// subsystem of the node. Call sites look like:
//
//	logger.Error("fail to dial peer", "addr", addr, "err", err)
//
// and are backed by zap's console encoder, colorized the way the upstream
// go-ethereum/klaytn "log" package colorizes its terminal output.
package log

import (
	"os"

	"github.com/fatih/color"
	"github.com/go-stack/stack"
	"github.com/mattn/go-colorable"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Module names used as the first context value callers pass to NewModuleLogger.
const (
	Blockchain = "blockchain"
	Miner      = "miner"
	P2P        = "p2p"
	Node       = "node"
	Sync       = "sync"
	Common     = "common"
)

// Logger is the contextual logger interface used throughout the node.
// Every method takes a message and an even number of key/value context
// arguments, mirroring the upstream log15-style call sites this package
// replaces.
type Logger interface {
	Debug(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Error(msg string, ctx ...interface{})
	With(ctx ...interface{}) Logger
}

type zapLogger struct {
	sugar  *zap.SugaredLogger
	module string
}

var root = newRoot()

func newRoot() *zap.Logger {
	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "t",
		LevelKey:       "lvl",
		NameKey:        "mod",
		CallerKey:      "caller",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    colorLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	out := zapcore.AddSync(colorable.NewColorable(os.Stderr))
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), out, zapcore.DebugLevel)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2))
}

func colorLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	var c *color.Color
	switch level {
	case zapcore.DebugLevel:
		c = color.New(color.FgCyan)
	case zapcore.InfoLevel:
		c = color.New(color.FgGreen)
	case zapcore.WarnLevel:
		c = color.New(color.FgYellow)
	default:
		c = color.New(color.FgRed)
	}
	enc.AppendString(c.Sprint(level.CapitalString()))
}

// NewModuleLogger returns a Logger scoped to the named subsystem, e.g.
// log.NewModuleLogger(log.Miner).
func NewModuleLogger(module string) Logger {
	return &zapLogger{sugar: root.Named(module).Sugar(), module: module}
}

func (l *zapLogger) Debug(msg string, ctx ...interface{}) { l.sugar.Debugw(msg, ctx...) }
func (l *zapLogger) Info(msg string, ctx ...interface{})  { l.sugar.Infow(msg, ctx...) }
func (l *zapLogger) Warn(msg string, ctx ...interface{})  { l.sugar.Warnw(msg, ctx...) }
func (l *zapLogger) Error(msg string, ctx ...interface{}) { l.sugar.Errorw(msg, ctx...) }

func (l *zapLogger) With(ctx ...interface{}) Logger {
	return &zapLogger{sugar: l.sugar.With(ctx...), module: l.module}
}

// Recover logs a panic recovered from a worker goroutine (one inbound
// connection, one mining worker, one broadcast send) instead of letting it
// take down the process. Call as `defer log.Recover(logger, "task")`.
func Recover(l Logger, task string) {
	if r := recover(); r != nil {
		l.Error("recovered from panic", "task", task, "panic", r, "at", stack.Caller(1).String())
	}
}
