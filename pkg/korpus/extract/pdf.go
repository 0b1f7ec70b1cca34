package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var contentPageRe = regexp.MustCompile(`page_(\d+)(?:\.\w+)?$`)

// PDF extracts the text of a PDF file. pdfcpu dumps the content stream of
// every page and ContentText decodes its text operators. Strings are read
// as UTF-16 when they carry a byte order mark and as Latin-1 otherwise,
// so fonts with custom encodings come out garbled.
func PDF(ctx context.Context, path string) (string, error) {
	outDir, err := os.MkdirTemp("", "korpus-pdf-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractContentFile(path, outDir, nil, conf); err != nil {
		return "", fmt.Errorf("extract pdf content: %w", err)
	}

	files, err := os.ReadDir(outDir)
	if err != nil {
		return "", err
	}

	type page struct {
		num  int
		path string
	}
	var pages []page
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		m := contentPageRe.FindStringSubmatch(f.Name())
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		pages = append(pages, page{num: n, path: filepath.Join(outDir, f.Name())})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].num < pages[j].num })

	var parts []string
	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		data, err := os.ReadFile(p.path)
		if err != nil {
			return "", err
		}
		if text := ContentText(data); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

// ContentText returns the text shown by the Tj, TJ, ' and " operators of
// a PDF content stream. Line moves become line breaks and large negative
// TJ adjustments become spaces.
func ContentText(stream []byte) string {
	lx := &pdfLexer{data: stream}
	var out strings.Builder
	var operands []pdfToken

	for {
		tok, ok := lx.next()
		if !ok {
			break
		}
		if tok.kind != tokOperator {
			operands = append(operands, tok)
			continue
		}

		switch tok.text {
		case "Tj":
			writeLastString(&out, operands)
		case "'", "\"":
			out.WriteByte('\n')
			writeLastString(&out, operands)
		case "TJ":
			if n := len(operands); n > 0 && operands[n-1].kind == tokArray {
				for _, item := range operands[n-1].items {
					switch {
					case item.kind == tokString:
						out.WriteString(item.text)
					case item.kind == tokNumber && item.num < -200:
						out.WriteByte(' ')
					}
				}
			}
		case "T*", "Tm", "ET":
			out.WriteByte('\n')
		case "Td", "TD":
			if n := len(operands); n > 0 && operands[n-1].kind == tokNumber && operands[n-1].num != 0 {
				out.WriteByte('\n')
			} else {
				out.WriteByte(' ')
			}
		case "ID":
			lx.skipInlineImage()
		}
		operands = operands[:0]
	}

	return tidy(out.String())
}

func writeLastString(out *strings.Builder, operands []pdfToken) {
	for i := len(operands) - 1; i >= 0; i-- {
		if operands[i].kind == tokString {
			out.WriteString(operands[i].text)
			return
		}
	}
}

type pdfKind int

const (
	tokOther pdfKind = iota
	tokNumber
	tokString
	tokArray
	tokOperator
)

type pdfToken struct {
	kind  pdfKind
	text  string
	num   float64
	items []pdfToken
}

type pdfLexer struct {
	data []byte
	pos  int
}

func (l *pdfLexer) next() (pdfToken, bool) {
	l.skipSpace()
	if l.pos >= len(l.data) {
		return pdfToken{}, false
	}

	switch c := l.data[l.pos]; c {
	case '(':
		return pdfToken{kind: tokString, text: decodePDFString(l.literal())}, true
	case '<':
		if l.at(1) == '<' {
			l.pos += 2
			return pdfToken{kind: tokOther}, true
		}
		return pdfToken{kind: tokString, text: decodePDFString(l.hex())}, true
	case '>':
		l.pos++
		if l.at(0) == '>' {
			l.pos++
		}
		return pdfToken{kind: tokOther}, true
	case '[':
		l.pos++
		var items []pdfToken
		for {
			l.skipSpace()
			if l.pos >= len(l.data) {
				break
			}
			if l.data[l.pos] == ']' {
				l.pos++
				break
			}
			tok, ok := l.next()
			if !ok {
				break
			}
			items = append(items, tok)
		}
		return pdfToken{kind: tokArray, items: items}, true
	case '/':
		l.pos++
		l.regular()
		return pdfToken{kind: tokOther}, true
	case ']', '{', '}', ')':
		l.pos++
		return pdfToken{kind: tokOther}, true
	}

	word := l.regular()
	if word == "" {
		l.pos++
		return pdfToken{kind: tokOther}, true
	}
	if n, err := strconv.ParseFloat(word, 64); err == nil {
		return pdfToken{kind: tokNumber, num: n}, true
	}
	return pdfToken{kind: tokOperator, text: word}, true
}

func (l *pdfLexer) at(off int) byte {
	if l.pos+off < len(l.data) {
		return l.data[l.pos+off]
	}
	return 0
}

func (l *pdfLexer) skipSpace() {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		switch {
		case isPDFSpace(c):
			l.pos++
		case c == '%':
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
		default:
			return
		}
	}
}

func (l *pdfLexer) regular() string {
	start := l.pos
	for l.pos < len(l.data) && !isPDFSpace(l.data[l.pos]) && !isPDFDelimiter(l.data[l.pos]) {
		l.pos++
	}
	return string(l.data[start:l.pos])
}

// literal reads a (...) string starting at the opening parenthesis.
func (l *pdfLexer) literal() []byte {
	l.pos++
	var out []byte
	depth := 1
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		switch c {
		case '(':
			depth++
			out = append(out, c)
		case ')':
			depth--
			if depth == 0 {
				return out
			}
			out = append(out, c)
		case '\\':
			if l.pos >= len(l.data) {
				return out
			}
			e := l.data[l.pos]
			l.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\r':
				if l.at(0) == '\n' {
					l.pos++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for k := 0; k < 2 && l.at(0) >= '0' && l.at(0) <= '7'; k++ {
						v = v*8 + int(l.data[l.pos]-'0')
						l.pos++
					}
					out = append(out, byte(v))
				} else {
					out = append(out, e)
				}
			}
		default:
			out = append(out, c)
		}
	}
	return out
}

// hex reads a <...> string starting at the opening bracket.
func (l *pdfLexer) hex() []byte {
	l.pos++
	var digits []byte
	for l.pos < len(l.data) && l.data[l.pos] != '>' {
		c := l.data[l.pos]
		l.pos++
		if hexVal(c) >= 0 {
			digits = append(digits, c)
		}
	}
	l.pos++
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, len(digits)/2)
	for i := range out {
		out[i] = byte(hexVal(digits[2*i])<<4 | hexVal(digits[2*i+1]))
	}
	return out
}

// skipInlineImage moves past the binary data of a BI ... ID ... EI block.
func (l *pdfLexer) skipInlineImage() {
	for l.pos+1 < len(l.data) {
		if l.data[l.pos] == 'E' && l.data[l.pos+1] == 'I' &&
			l.pos > 0 && isPDFSpace(l.data[l.pos-1]) &&
			(l.pos+2 == len(l.data) || isPDFSpace(l.data[l.pos+2])) {
			l.pos += 2
			return
		}
		l.pos++
	}
	l.pos = len(l.data)
}

func decodePDFString(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		units := make([]uint16, 0, (len(b)-2)/2)
		for i := 2; i+1 < len(b); i += 2 {
			units = append(units, uint16(b[i])<<8|uint16(b[i+1]))
		}
		return string(utf16.Decode(units))
	}
	rs := make([]rune, len(b))
	for i, c := range b {
		rs[i] = rune(c)
	}
	return string(rs)
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

func isPDFSpace(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isPDFDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}
