// seehuhn.de/go/sfntedit - edit names and layout features of font files
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
)

// Buffer is a slog.Handler which collects log messages in memory.
// It is used to check diagnostics in tests.
type Buffer struct {
	mu  *sync.Mutex
	buf *bytes.Buffer
	h   slog.Handler
}

// NewBuffer returns a handler which records all messages at the given level
// or above.
func NewBuffer(level slog.Level) *Buffer {
	buf := &bytes.Buffer{}
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}
	return &Buffer{
		mu:  &sync.Mutex{},
		buf: buf,
		h:   slog.NewTextHandler(buf, opts),
	}
}

// Enabled implements the slog.Handler interface.
func (b *Buffer) Enabled(ctx context.Context, level slog.Level) bool {
	return b.h.Enabled(ctx, level)
}

// Handle implements the slog.Handler interface.
func (b *Buffer) Handle(ctx context.Context, r slog.Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.h.Handle(ctx, r)
}

// WithAttrs implements the slog.Handler interface.
func (b *Buffer) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Buffer{mu: b.mu, buf: b.buf, h: b.h.WithAttrs(attrs)}
}

// WithGroup implements the slog.Handler interface.
func (b *Buffer) WithGroup(name string) slog.Handler {
	return &Buffer{mu: b.mu, buf: b.buf, h: b.h.WithGroup(name)}
}

// String returns all messages recorded so far.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Contains reports whether any recorded message contains s.
func (b *Buffer) Contains(s string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Contains(b.buf.Bytes(), []byte(s))
}

// Capture installs a Buffer as the global logger and returns it, together
// with a function which restores the previous logger.
func Capture(level slog.Level) (*Buffer, func()) {
	prev := logger.Load()
	b := NewBuffer(level)
	SetLogger(slog.New(b))
	return b, func() {
		logger.Store(prev)
	}
}
