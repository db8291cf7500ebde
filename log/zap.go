// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package log

import (
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// DefaultLogger writes info entries and above to stdout
	DefaultLogger = NewZap(InfoLevel, os.Stdout)
	// DebugLogger writes every entry to stdout
	DebugLogger = NewZap(DebugLevel, os.Stdout)
)

const (
	diskBufferSize    = 256 * 1024
	diskFlushInterval = 30 * time.Second
)

// Zap is a Logger writing JSON lines through zap.
//
// Writers persisting to disk (regular files and rotating files) share a
// buffer flushed every 30 seconds, on every entry at error level or above
// and on Flush. Other writers are written through.
type Zap struct {
	sugar *zap.SugaredLogger
	level zapcore.Level
	disk  *zapcore.BufferedWriteSyncer
}

var _ Logger = (*Zap)(nil)

// NewZap creates a Zap logger writing entries at level and above to writers.
// Without writers it writes to stdout.
func NewZap(level Level, writers ...io.Writer) *Zap {
	if len(writers) == 0 {
		writers = []io.Writer{os.Stdout}
	}

	var direct, disk []zapcore.WriteSyncer
	for _, writer := range writers {
		if onDisk(writer) {
			disk = append(disk, zapcore.AddSync(writer))
			continue
		}
		direct = append(direct, zapcore.AddSync(writer))
	}

	z := &Zap{level: level.zap()}
	encoder := zapcore.NewJSONEncoder(encoderConfig())
	cores := make([]zapcore.Core, 0, 2)
	if len(direct) > 0 {
		cores = append(cores, zapcore.NewCore(encoder, zap.CombineWriteSyncers(direct...), z.level))
	}
	if len(disk) > 0 {
		z.disk = &zapcore.BufferedWriteSyncer{
			WS:            zap.CombineWriteSyncers(disk...),
			Size:          diskBufferSize,
			FlushInterval: diskFlushInterval,
		}
		cores = append(cores, zapcore.NewCore(encoder.Clone(), z.disk, z.level))
	}

	core := zapcore.NewTee(cores...)
	if z.disk != nil {
		core = zapcore.RegisterHooks(core, z.syncOnError)
	}

	z.sugar = zap.New(core,
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.ErrorLevel)).Sugar()
	return z
}

func (z *Zap) Debug(v ...any)                 { z.sugar.Debug(v...) }
func (z *Zap) Debugf(format string, v ...any) { z.sugar.Debugf(format, v...) }
func (z *Zap) Info(v ...any)                  { z.sugar.Info(v...) }
func (z *Zap) Infof(format string, v ...any)  { z.sugar.Infof(format, v...) }
func (z *Zap) Warn(v ...any)                  { z.sugar.Warn(v...) }
func (z *Zap) Warnf(format string, v ...any)  { z.sugar.Warnf(format, v...) }
func (z *Zap) Error(v ...any)                 { z.sugar.Error(v...) }
func (z *Zap) Errorf(format string, v ...any) { z.sugar.Errorf(format, v...) }
func (z *Zap) Panic(v ...any)                 { z.sugar.Panic(v...) }
func (z *Zap) Panicf(format string, v ...any) { z.sugar.Panicf(format, v...) }

// Enabled reports whether entries at level are written
func (z *Zap) Enabled(level Level) bool {
	return z.level.Enabled(level.zap())
}

// Level returns the minimum level written
func (z *Zap) Level() Level {
	return levelOf(z.level)
}

// With returns a child logger. keyValues alternate string keys and values.
func (z *Zap) With(keyValues ...any) Logger {
	if len(keyValues) == 0 {
		return z
	}
	return &Zap{
		sugar: z.sugar.With(keyValues...),
		level: z.level,
		disk:  z.disk,
	}
}

// Flush writes out the disk buffer and stops its background flusher. Entries
// logged afterwards are buffered until the next Flush.
func (z *Zap) Flush() error {
	if z.disk == nil {
		return nil
	}
	return z.disk.Stop()
}

func (z *Zap) syncOnError(entry zapcore.Entry) error {
	if entry.Level >= zapcore.ErrorLevel {
		return z.disk.Sync()
	}
	return nil
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// onDisk tells whether writer persists to a file other than stdout or stderr
func onDisk(writer io.Writer) bool {
	switch w := writer.(type) {
	case *lumberjack.Logger:
		return true
	case *os.File:
		return w != os.Stdout && w != os.Stderr
	default:
		return false
	}
}
