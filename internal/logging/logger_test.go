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
	"log/slog"
	"strings"
	"testing"
)

func TestDefaultDiscards(t *testing.T) {
	SetLogger(nil)
	l := Logger()
	if l == nil {
		t.Fatal("Logger returned nil")
	}
	if l.Enabled(t.Context(), slog.LevelError) {
		t.Error("default logger is enabled")
	}
}

func TestCapture(t *testing.T) {
	buf, restore := Capture(slog.LevelInfo)
	Logger().Debug("hidden")
	Logger().Info("feature removed", "tag", "calt", "count", 2)
	Logger().With("file", "a.otf").Warn("skipped")
	restore()
	Logger().Info("after restore")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug message was recorded")
	}
	for _, want := range []string{"feature removed", "tag=calt", "count=2", "file=a.otf", "skipped"} {
		if !buf.Contains(want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
	if buf.Contains("after restore") {
		t.Error("message recorded after restore")
	}
	if strings.Contains(out, "time=") {
		t.Error("time stamp was recorded")
	}
}
