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

package parser

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRead(t *testing.T) {
	data := []byte{
		0x12,
		0x34, 0x56,
		0x01, 0x02, 0x03, 0x04,
		0x00, 0x02, 0x00, 0x0A, 0x00, 0x0B,
	}
	p := New("test", bytes.NewReader(data))

	a, err := p.ReadUint8()
	if err != nil || a != 0x12 {
		t.Fatalf("ReadUint8: %x %v", a, err)
	}
	b, err := p.ReadUint16()
	if err != nil || b != 0x3456 {
		t.Fatalf("ReadUint16: %x %v", b, err)
	}
	c, err := p.ReadUint32()
	if err != nil || c != 0x01020304 {
		t.Fatalf("ReadUint32: %x %v", c, err)
	}
	s, err := p.ReadUint16Slice()
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]uint16{10, 11}, s); d != "" {
		t.Errorf("ReadUint16Slice (-want +got):\n%s", d)
	}
	if p.Pos() != int64(len(data)) {
		t.Errorf("wrong position %d", p.Pos())
	}

	err = p.SeekPos(3)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Discard(2); err != nil {
		t.Fatal(err)
	}
	x, err := p.ReadUint16()
	if err != nil || x != 0x0304 {
		t.Errorf("read after seek: %x %v", x, err)
	}
}

func TestErrors(t *testing.T) {
	p := New("GSUB", bytes.NewReader([]byte{0, 5, 1}))

	_, err := p.ReadUint16Slice()
	var invalid *InvalidFontError
	if !errors.As(err, &invalid) || invalid.SubSystem != "sfnt/GSUB" {
		t.Errorf("unexpected error %v", err)
	}

	err = p.SeekPos(2)
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.ReadUint32()
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("unexpected error %v", err)
	}

	if err := p.SeekPos(4); err == nil {
		t.Error("seek beyond end not detected")
	}

	p = New("", bytes.NewReader(nil))
	_, err = p.ReadUint8()
	if !errors.As(err, &invalid) || invalid.SubSystem != "sfnt/header" {
		t.Errorf("unexpected error %v", err)
	}
}
