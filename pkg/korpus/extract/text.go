package extract

import (
	"bytes"
	"context"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Text reads a plain-text file. UTF-8 is expected; a leading byte order
// mark is dropped and input that is not valid UTF-8 is decoded as
// Windows-1252.
func Text(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return decodeText(data)
}

func decodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}
	return charmap.Windows1252.NewDecoder().String(string(data))
}
