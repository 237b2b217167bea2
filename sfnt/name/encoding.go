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

package name

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

var utf16BE = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// errUnsupportedEncoding is returned for (platform, encoding) pairs which
// have no known character encoding.
var errUnsupportedEncoding = errors.New("unsupported encoding")

// lookupEncoding returns the character encoding used by name records with
// the given platform and encoding IDs.
// https://docs.microsoft.com/en-us/typography/opentype/spec/name#platform-specific-encoding-and-language-ids-unicode-platform-platform-id--0
func lookupEncoding(platformID, encodingID uint16) (encoding.Encoding, error) {
	switch platformID {
	case 0: // Unicode
		return utf16BE, nil

	case 1: // Macintosh
		switch encodingID {
		case 0: // Roman
			return charmap.Macintosh, nil
		case 1: // Japanese
			return japanese.ShiftJIS, nil
		case 2: // Chinese (Traditional)
			return traditionalchinese.Big5, nil
		case 3: // Korean
			return korean.EUCKR, nil
		case 7: // Russian
			return charmap.MacintoshCyrillic, nil
		case 25: // Chinese (Simplified)
			return simplifiedchinese.GBK, nil
		}

	case 2: // ISO, deprecated
		switch encodingID {
		case 0: // 7-bit ASCII
			return charmap.ISO8859_1, nil
		case 1: // ISO 10646
			return utf16BE, nil
		case 2: // ISO 8859-1
			return charmap.ISO8859_1, nil
		}

	case 3: // Windows
		switch encodingID {
		case 0, 1, 10: // Symbol, Unicode BMP, Unicode full repertoire
			return utf16BE, nil
		case 2: // ShiftJIS
			return japanese.ShiftJIS, nil
		case 3: // PRC
			return simplifiedchinese.GBK, nil
		case 4: // Big5
			return traditionalchinese.Big5, nil
		case 5: // Wansung
			return korean.EUCKR, nil
		}
	}
	return nil, errUnsupportedEncoding
}

func decodeString(platformID, encodingID uint16, data []byte) (string, error) {
	enc, err := lookupEncoding(platformID, encodingID)
	if err != nil {
		return "", err
	}
	if enc == utf16BE && len(data)%2 != 0 {
		return "", fmt.Errorf("odd length %d for UTF-16 string", len(data))
	}
	s, err := enc.NewDecoder().String(string(data))
	if err != nil {
		return "", err
	}
	if strings.ContainsRune(s, utf8.RuneError) {
		return "", errors.New("invalid byte sequence")
	}
	return s, nil
}

func encodeString(platformID, encodingID uint16, s string) ([]byte, error) {
	enc, err := lookupEncoding(platformID, encodingID)
	if err != nil {
		return nil, err
	}
	res, err := enc.NewEncoder().String(s)
	if err != nil {
		return nil, err
	}
	return []byte(res), nil
}
