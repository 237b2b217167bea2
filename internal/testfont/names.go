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

package testfont

import (
	"seehuhn.de/go/sfntedit/sfnt/name"
)

// NameRecord describes one record of a "name" table.
type NameRecord struct {
	PlatformID, EncodingID, LanguageID uint16
	NameID                             name.ID
	Text                               string
}

// Mac returns a Macintosh Roman, English record.
func Mac(id name.ID, text string) NameRecord {
	return NameRecord{PlatformID: 1, EncodingID: 0, LanguageID: 0, NameID: id, Text: text}
}

// Windows returns a Windows Unicode BMP, US English record.
func Windows(id name.ID, text string) NameRecord {
	return NameRecord{PlatformID: 3, EncodingID: 1, LanguageID: 0x0409, NameID: id, Text: text}
}

// NameTable encodes a "name" table with the given records.
func NameTable(records ...NameRecord) []byte {
	t := &name.Table{}
	for _, rec := range records {
		r, err := name.NewRecord(rec.PlatformID, rec.EncodingID, rec.LanguageID, rec.NameID, rec.Text)
		if err != nil {
			panic(err)
		}
		t.Records = append(t.Records, r)
	}
	data, err := t.Encode()
	if err != nil {
		panic(err)
	}
	return data
}

// Names returns the usual set of Windows name records for a font.
func Names(family, subfamily, psName, version string) []NameRecord {
	return []NameRecord{
		Windows(name.Family, family),
		Windows(name.Subfamily, subfamily),
		Windows(name.UniqueID, version+";NONE;"+psName),
		Windows(name.FullName, family+" "+subfamily),
		Windows(name.Version, "Version "+version),
		Windows(name.PostScriptName, psName),
	}
}
