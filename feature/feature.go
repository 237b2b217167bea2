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

// Package feature removes OpenType layout features from a font.
package feature

import (
	"fmt"

	"seehuhn.de/go/sfntedit/internal/logging"
	"seehuhn.de/go/sfntedit/sfnt"
)

// TagError is returned for feature tags which are not valid OpenType tags.
type TagError struct {
	Tag    string
	Reason string
}

func (err *TagError) Error() string {
	return fmt.Sprintf("feature: invalid tag %q: %s", err.Tag, err.Reason)
}

// UnknownTableError is returned by RemoveFrom if the table is neither
// "GSUB" nor "GPOS".
type UnknownTableError struct {
	Table string
}

func (err *UnknownTableError) Error() string {
	return fmt.Sprintf("feature: %q is not a layout table", err.Table)
}

// NormalizeTag checks that tag is a valid feature tag.  Tags with fewer
// than four characters are padded with spaces.
func NormalizeTag(tag string) (string, error) {
	if tag == "" {
		return "", &TagError{Tag: tag, Reason: "empty tag"}
	}
	if len(tag) > 4 {
		return "", &TagError{Tag: tag, Reason: "more than four characters"}
	}
	for i := 0; i < len(tag); i++ {
		if c := tag[i]; c < 0x20 || c > 0x7E {
			return "", &TagError{Tag: tag, Reason: "non-ASCII character"}
		}
	}
	for len(tag) < 4 {
		tag += " "
	}
	return tag, nil
}

// Remove removes all features with the given tag from the "GSUB" table of
// the font.  The return value is the number of FeatureList records which
// were removed.  If the font has no "GSUB" table, or the table contains no
// such feature, the font is left unchanged and 0 is returned.  If the
// "GSUB" table could not be decoded, the *sfnt.DecodeError is returned.
func Remove(f *sfnt.Font, tag string) (int, error) {
	return RemoveFrom(f, "GSUB", tag)
}

// RemoveFrom is like Remove, but acts on the given table, which must be
// "GSUB" or "GPOS".
func RemoveFrom(f *sfnt.Font, table, tag string) (int, error) {
	if table != "GSUB" && table != "GPOS" {
		return 0, &UnknownTableError{Table: table}
	}
	tag, err := NormalizeTag(tag)
	if err != nil {
		return 0, err
	}

	log := logging.Logger().With("table", table, "feature", tag)
	t, err := f.Layout(table)
	if err != nil {
		return 0, err
	}
	if t == nil {
		log.Info("feature not removed", "reason", "no "+table+" table")
		return 0, nil
	}
	if len(t.Features) == 0 {
		log.Info("feature not removed", "reason", "empty feature list")
		return 0, nil
	}

	n := t.RemoveFeature(tag)
	if n == 0 {
		log.Info("feature not removed", "reason", "feature not found")
	}
	return n, nil
}

// Tags returns the feature tags of the given layout table, in FeatureList
// order.  Tags which occur several times are listed repeatedly.  If the
// table is missing or cannot be decoded, nil is returned.
func Tags(f *sfnt.Font, table string) []string {
	t, _ := f.Layout(table)
	if t == nil {
		return nil
	}
	res := make([]string, len(t.Features))
	for i, feat := range t.Features {
		res[i] = feat.Tag
	}
	return res
}
