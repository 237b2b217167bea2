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

package sfnt

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/exp/slices"
)

// ReadFile loads a font from a file.
func ReadFile(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// WriteFile saves the font.  The data is first written to a temporary file
// in the destination directory, which is then renamed to path.  If
// overwrite is false and path already exists, an error wrapping
// fs.ErrExist is returned.
func (f *Font) WriteFile(path string, overwrite bool) error {
	if !overwrite {
		err := checkAbsent(path)
		if err != nil {
			return err
		}
	}
	data, err := f.Encode()
	if err != nil {
		return err
	}
	return WriteData(path, data, overwrite)
}

// WriteData atomically writes encoded font data to a file, in the same way
// as WriteFile.  If overwrite is false, the temporary file is hard-linked
// to path, so that an existing file is never replaced even if it appears
// after the initial check.
func WriteData(path string, data []byte, overwrite bool) (err error) {
	if !overwrite {
		err := checkAbsent(path)
		if err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".sfntedit-*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	_, err = tmp.Write(data)
	if err != nil {
		return err
	}
	err = tmp.Chmod(0o644)
	if err != nil {
		return err
	}
	err = tmp.Close()
	if err != nil {
		return err
	}
	if overwrite {
		return os.Rename(tmp.Name(), path)
	}

	// os.Link fails if path exists, unlike os.Rename.
	err = os.Link(tmp.Name(), path)
	if errors.Is(err, fs.ErrExist) {
		return &fs.PathError{Op: "write", Path: path, Err: fs.ErrExist}
	} else if err != nil {
		return err
	}
	return os.Remove(tmp.Name())
}

func checkAbsent(path string) error {
	_, err := os.Lstat(path)
	if err == nil {
		return &fs.PathError{Op: "write", Path: path, Err: fs.ErrExist}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func sortByOffset(entries []*entry) {
	slices.SortStableFunc(entries, func(a, b *entry) int {
		switch {
		case a.rec.Offset < b.rec.Offset:
			return -1
		case a.rec.Offset > b.rec.Offset:
			return 1
		}
		return 0
	})
}
