package extract

import (
	"context"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// RTFFile extracts the text of an RTF file.
func RTFFile(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return RTF(string(data)), nil
}

// destinations whose content is not document text.
var rtfSkipped = map[string]bool{
	"fonttbl": true, "colortbl": true, "stylesheet": true, "info": true,
	"pict": true, "object": true, "header": true, "footer": true,
	"headerl": true, "headerr": true, "footerl": true, "footerr": true,
	"listtable": true, "listoverridetable": true, "rsidtbl": true,
	"generator": true, "xmlnstbl": true, "themedata": true, "colorschememapping": true,
	"latentstyles": true, "datastore": true, "fldinst": true,
}

type rtfGroup struct {
	skip bool
	uc   int // bytes to skip after \uN
}

// RTF strips control words and groups from an RTF document. \'hh escapes
// are decoded with the document code page (\ansicpgN) and \uN escapes as
// Unicode.
func RTF(src string) string {
	var out strings.Builder
	var pending []byte
	codepage := charmap.Windows1252

	flush := func() {
		if len(pending) == 0 {
			return
		}
		s, err := codepage.NewDecoder().String(string(pending))
		if err != nil {
			s = string(pending)
		}
		out.WriteString(s)
		pending = pending[:0]
	}

	stack := []rtfGroup{{uc: 1}}
	cur := func() *rtfGroup { return &stack[len(stack)-1] }
	skipBytes := 0

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch c {
		case '{':
			stack = append(stack, *cur())
			// "{\*\dest ...}" marks an optional destination.
			if strings.HasPrefix(src[i+1:], `\*`) {
				cur().skip = true
			}
			continue
		case '}':
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
			continue
		case '\r', '\n':
			continue
		}

		if c != '\\' {
			if skipBytes > 0 {
				skipBytes--
				continue
			}
			if !cur().skip {
				pending = append(pending, c)
			}
			continue
		}

		// control sequence
		if i+1 >= len(src) {
			break
		}
		next := src[i+1]
		switch {
		case next == '\\' || next == '{' || next == '}':
			i++
			if !cur().skip {
				pending = append(pending, next)
			}
			continue
		case next == '\'':
			if i+3 < len(src) {
				v, err := strconv.ParseUint(src[i+2:i+4], 16, 8)
				i += 3
				if skipBytes > 0 {
					skipBytes--
					continue
				}
				if err == nil && !cur().skip {
					pending = append(pending, byte(v))
				}
			}
			continue
		case next == '~':
			i++
			if !cur().skip {
				pending = append(pending, ' ')
			}
			continue
		case !isASCIILetter(next):
			// \*, \-, \_ and other control symbols
			i++
			continue
		}

		// control word: letters, optional signed number, optional space
		j := i + 1
		for j < len(src) && isASCIILetter(src[j]) {
			j++
		}
		word := src[i+1 : j]
		k := j
		if k < len(src) && (src[k] == '-' || (src[k] >= '0' && src[k] <= '9')) {
			k++
			for k < len(src) && src[k] >= '0' && src[k] <= '9' {
				k++
			}
		}
		param, hasParam := 0, k > j
		if hasParam {
			param, _ = strconv.Atoi(src[j:k])
		}
		if k < len(src) && src[k] == ' ' {
			k++
		}
		i = k - 1

		if rtfSkipped[word] {
			cur().skip = true
			continue
		}
		if cur().skip {
			continue
		}

		switch word {
		case "par", "line", "sect", "page", "row":
			pending = append(pending, '\n')
		case "tab", "cell":
			pending = append(pending, '\t')
		case "emdash":
			flush()
			out.WriteString("—")
		case "endash":
			flush()
			out.WriteString("–")
		case "lquote":
			flush()
			out.WriteString("‘")
		case "rquote":
			flush()
			out.WriteString("’")
		case "ldblquote":
			flush()
			out.WriteString("“")
		case "rdblquote":
			flush()
			out.WriteString("”")
		case "bullet":
			flush()
			out.WriteString("•")
		case "ansicpg":
			if hasParam {
				flush()
				codepage = codepageFor(param)
			}
		case "uc":
			if hasParam {
				cur().uc = param
			}
		case "u":
			if hasParam {
				if param < 0 {
					param += 65536
				}
				flush()
				out.WriteRune(rune(param))
				skipBytes = cur().uc
			}
		}
	}
	flush()

	return tidy(out.String())
}

func codepageFor(n int) *charmap.Charmap {
	switch n {
	case 1250:
		return charmap.Windows1250
	case 1251:
		return charmap.Windows1251
	case 1253:
		return charmap.Windows1253
	case 1254:
		return charmap.Windows1254
	case 866:
		return charmap.CodePage866
	default:
		return charmap.Windows1252
	}
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
