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

package gtab

import (
	"fmt"

	"seehuhn.de/go/sfntedit/internal/logging"
)

// IndexError is returned by Check if a feature index is out of range.
type IndexError struct {
	Table       string
	Where       string
	Index       FeatureIndex
	NumFeatures int
}

func (err *IndexError) Error() string {
	return fmt.Sprintf("%s: %s refers to feature %d, but only %d features exist",
		err.Table, err.Where, err.Index, err.NumFeatures)
}

// RemoveFeature removes all FeatureList records with the given tag from the
// table, and renumbers all feature indices which refer to the FeatureList.
// LangSys tables lose their references to the removed features; a required
// feature which is removed is replaced by NoRequiredFeature.  Feature
// indices which were already out of range before the call are dropped.
//
// The return value is the number of FeatureList records removed.
func (t *Table) RemoveFeature(tag string) int {
	n := len(t.Features)

	doomed := make([]bool, n)
	count := 0
	for i, f := range t.Features {
		if f.Tag == tag {
			doomed[i] = true
			count++
		}
	}
	if count == 0 {
		return 0
	}

	newIndex := make([]FeatureIndex, n)
	next := FeatureIndex(0)
	for i := range newIndex {
		if doomed[i] {
			newIndex[i] = NoRequiredFeature
		} else {
			newIndex[i] = next
			next++
		}
	}

	features := make([]*FeatureRecord, 0, n-count)
	for i, f := range t.Features {
		if !doomed[i] {
			features = append(features, f)
		}
	}
	t.Features = features

	// remap returns the new index of old, or false if old is removed or invalid
	remap := func(old FeatureIndex, where string) (FeatureIndex, bool) {
		if int(old) >= n {
			logging.Logger().Warn("dropping dangling feature index",
				"table", t.Name, "where", where, "index", old, "features", n)
			return 0, false
		}
		if doomed[old] {
			return 0, false
		}
		return newIndex[old], true
	}

	for _, ls := range t.langSys {
		where := fmt.Sprintf("LangSys@%d", ls.pos)
		if ls.Required != NoRequiredFeature {
			if idx, ok := remap(ls.Required, where); ok {
				ls.Required = idx
			} else {
				ls.Required = NoRequiredFeature
			}
		}
		if len(ls.Features) == 0 {
			continue
		}
		kept := ls.Features[:0]
		for _, old := range ls.Features {
			if idx, ok := remap(old, where); ok {
				kept = append(kept, idx)
			}
		}
		ls.Features = kept
	}

	for _, s := range t.substs {
		where := fmt.Sprintf("FeatureTableSubstitution@%d", s.pos)
		kept := s.Records[:0]
		for _, rec := range s.Records {
			if idx, ok := remap(rec.FeatureIndex, where); ok {
				rec.FeatureIndex = idx
				kept = append(kept, rec)
			}
		}
		s.Records = kept
	}

	t.changed = true

	if err := t.Check(); err != nil {
		panic(err)
	}

	logging.Logger().Info("removed feature",
		"table", t.Name, "tag", tag, "count", count, "features", len(t.Features))
	return count
}

// Check verifies that all feature indices in the table refer to entries in
// the FeatureList.
func (t *Table) Check() error {
	n := len(t.Features)
	for _, script := range t.Scripts {
		if ls := script.DefaultLangSys; ls != nil {
			if err := t.checkLangSys(ls, "script "+script.Tag+" default"); err != nil {
				return err
			}
		}
		for _, rec := range script.LangSys {
			if err := t.checkLangSys(rec.LangSys, "script "+script.Tag+" lang "+rec.Tag); err != nil {
				return err
			}
		}
	}
	for i, v := range t.Variations {
		if v.Substitutions == nil {
			continue
		}
		for _, rec := range v.Substitutions.Records {
			if int(rec.FeatureIndex) >= n {
				return &IndexError{
					Table:       t.Name,
					Where:       fmt.Sprintf("feature variation %d", i),
					Index:       rec.FeatureIndex,
					NumFeatures: n,
				}
			}
		}
	}
	return nil
}

func (t *Table) checkLangSys(ls *LangSys, where string) error {
	n := len(t.Features)
	if ls.Required != NoRequiredFeature && int(ls.Required) >= n {
		return &IndexError{
			Table:       t.Name,
			Where:       where + " (required)",
			Index:       ls.Required,
			NumFeatures: n,
		}
	}
	for _, idx := range ls.Features {
		if int(idx) >= n {
			return &IndexError{
				Table:       t.Name,
				Where:       where,
				Index:       idx,
				NumFeatures: n,
			}
		}
	}
	return nil
}
