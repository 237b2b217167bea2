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

package batch

import (
	"io/fs"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"
)

// Kind returns the lower-case file name extension of path.
func Kind(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// IsFont reports whether path has one of the file name extensions used for
// OpenType and TrueType fonts.
func IsFont(path string) bool {
	kind := Kind(path)
	return kind == ".otf" || kind == ".ttf"
}

// Filter selects the files returned by FindFonts.
type Filter struct {
	// Prefix, if non-empty, is the required start of the file name,
	// for example "0xProto-".
	Prefix string

	// Recursive enables the search of subdirectories.
	Recursive bool
}

func (flt Filter) match(path string) bool {
	return IsFont(path) && strings.HasPrefix(filepath.Base(path), flt.Prefix)
}

// FindFonts returns the paths of all font files in the directory root, in
// lexical order.  If root is a font file, a slice containing only root is
// returned.
func FindFonts(root string, flt Filter) ([]string, error) {
	var res []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && !flt.Recursive {
				return fs.SkipDir
			}
			return nil
		}
		if path == root || flt.match(path) {
			res = append(res, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(res)
	return res, nil
}

// SuffixedPath appends a suffix like "-NL" to the file name of path,
// before the extension.  The suffix is always joined with a hyphen.  If the
// file name already ends in the suffix, path is returned unchanged.
func SuffixedPath(path, suffix string) string {
	base := strings.TrimLeft(suffix, "-")
	if base == "" {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	name := filepath.Base(stem)
	if strings.HasSuffix(name, "-"+base) || strings.HasSuffix(name, " "+base) {
		return path
	}
	return stem + "-" + base + ext
}

// RenamedPath replaces all occurrences of old in the file name of path by
// new.  The directory part of path is not changed.
func RenamedPath(path, old, new string) string {
	if old == "" {
		return path
	}
	dir, file := filepath.Split(path)
	return dir + strings.ReplaceAll(file, old, new)
}

// MirrorPath returns the location of path below outRoot, keeping the
// position of path relative to root.
func MirrorPath(root, path, outRoot string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", err
	}
	if rel == "." {
		rel = filepath.Base(path)
	}
	return filepath.Join(outRoot, rel), nil
}
