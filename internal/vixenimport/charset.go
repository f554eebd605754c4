package vixenimport

import (
	"bytes"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// normalizeToUTF8 wraps r so that invalid-UTF-8 input (Vixen XML exported
// from older Windows installs is commonly Windows-1252) is transcoded
// before the XML decoder ever sees it. Well-formed UTF-8 passes through
// unchanged.
func normalizeToUTF8(r io.Reader) (io.Reader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ioError(err)
	}
	if utf8.Valid(data) {
		return bytes.NewReader(data), nil
	}

	decoder := charmap.Windows1252.NewDecoder()
	out, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return bytes.NewReader(data), nil // fall back to the raw bytes rather than failing import
	}
	return bytes.NewReader(out), nil
}
