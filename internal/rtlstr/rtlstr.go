// Package rtlstr decodes rtl string records (_rtl_String, _rtl_uString)
// from an inspected process.
package rtlstr

import (
	"strings"

	"golang.org/x/text/encoding/unicode"

	unoinspect "github.com/wippyai/uno-inspect"
	"github.com/wippyai/uno-inspect/errors"
)

// Encoding selects the code unit of the record's buffer.
type Encoding uint8

const (
	UTF8 Encoding = iota
	UTF16
)

func (e Encoding) unitSize() uint32 {
	if e == UTF16 {
		return 2
	}
	return 1
}

// MaxLength caps the code units read for display so binary blobs are not dumped.
const MaxLength = 512

// Read decodes at most limit code units of the string record rec.
// truncated reports whether the record holds more than limit units.
func Read(rec unoinspect.Value, enc Encoding, limit int) (s string, truncated bool, err error) {
	lf, err := rec.Field("length")
	if err != nil {
		return "", false, err
	}
	raw, err := lf.Uint()
	if err != nil {
		return "", false, err
	}
	length := int64(raw)
	if length < 0 {
		return "", false, errors.InvalidData(errors.PhaseRead, []string{"length"}, "negative string length")
	}
	if length == 0 {
		return "", false, nil
	}
	if length > int64(limit) {
		length = int64(limit)
		truncated = true
	}

	buf, err := rec.Field("buffer")
	if err != nil {
		return "", false, err
	}
	data, err := buf.Bytes(uint32(length) * enc.unitSize())
	if err != nil {
		return "", false, err
	}
	s, err = decode(data, enc)
	if err != nil {
		return "", false, errors.InvalidData(errors.PhaseRead, []string{"buffer"}, err.Error())
	}
	return s, truncated, nil
}

// ReadPointer dereferences ptr (an rtl_uString* or rtl_String*) and reads
// the record it points to.
func ReadPointer(ptr unoinspect.Value, enc Encoding, limit int) (string, bool, error) {
	rec, err := ptr.Deref()
	if err != nil {
		return "", false, err
	}
	return Read(rec, enc, limit)
}

func decode(data []byte, enc Encoding) (string, error) {
	if enc == UTF8 {
		return strings.ToValidUTF8(string(data), "�"), nil
	}
	out, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
