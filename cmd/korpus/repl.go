package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/cognicore/korpus/pkg/korpus"
	"github.com/cognicore/korpus/pkg/korpus/analytics"
	"github.com/cognicore/korpus/pkg/korpus/corpus"
)

const helpText = `Commands:
  add <path>...      ingest files (%s)
  text [id]          type a text, end with a line holding a single "."
  analyze [text]     tags, lemmas and sentiment per sentence, not stored
  docs               list stored documents
  stats [n]          frequency statistics, top n entries (default 20)
  conc <phrase>      concordance with the current window
  window [n]         show or set the concordance window
  word <w>           occurrences of a word
  save [name]        store a snapshot
  load [id]          restore a snapshot (latest when no id)
  snapshots          list snapshots
  export <path>      write the corpus as JSON
  import <path>      replace the corpus from JSON
  help               this text
  quit               leave
`

type repl struct {
	k      *korpus.Korpus
	in     *bufio.Scanner
	out    io.Writer
	window int

	title  func(a ...interface{}) string
	phrase func(a ...interface{}) string
	errc   func(a ...interface{}) string
}

func newREPL(k *korpus.Korpus, in io.Reader, out io.Writer) *repl {
	return &repl{
		k:      k,
		in:     bufio.NewScanner(in),
		out:    out,
		window: k.Window(),
		title:  color.New(color.FgGreen, color.Bold).SprintFunc(),
		phrase: color.New(color.FgYellow, color.Bold).SprintFunc(),
		errc:   color.New(color.FgRed).SprintFunc(),
	}
}

func (r *repl) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format, args...)
}

func (r *repl) fail(err error) {
	r.printf("%s %v\n", r.errc("error:"), err)
}

// run reads commands until quit, end of input or ctx cancellation.
func (r *repl) run(ctx context.Context) error {
	r.printf("%s\n", r.title("korpus: annotated corpus manager"))
	r.printf("Type 'help' for commands.\n\n")

	for {
		if ctx.Err() != nil {
			return nil
		}
		r.printf("> ")
		if !r.in.Scan() {
			break
		}
		if !r.exec(ctx, r.in.Text()) {
			return nil
		}
	}
	r.printf("\n")
	return r.in.Err()
}

// exec runs one command line. It returns false when the session should end.
func (r *repl) exec(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "":
	case "quit", "exit":
		return false
	case "help":
		r.printf(helpText, strings.Join(r.k.Extensions(), " "))
	case "add":
		if arg == "" {
			r.fail(errors.New("usage: add <path>..."))
			break
		}
		for _, path := range strings.Fields(arg) {
			r.add(ctx, path)
		}
	case "text":
		r.text(arg)
	case "analyze":
		r.analyze(arg)
	case "docs":
		r.docs()
	case "stats":
		r.stats(arg)
	case "conc":
		if err := r.concordance(arg); err != nil {
			r.fail(err)
		}
	case "window":
		r.setWindow(arg)
	case "word":
		r.word(arg)
	case "save":
		info, err := r.k.SaveSnapshot(ctx, arg)
		if err != nil {
			r.fail(err)
			break
		}
		r.printf("saved snapshot %s (%d records)\n", info.ID, info.Records)
	case "load":
		n, err := r.k.LoadSnapshot(ctx, arg)
		if err != nil {
			r.fail(err)
			break
		}
		r.printf("restored %d records\n", n)
	case "snapshots":
		r.snapshots(ctx)
	case "export":
		if arg == "" {
			r.fail(errors.New("usage: export <path>"))
			break
		}
		if err := r.k.Export(arg); err != nil {
			r.fail(err)
			break
		}
		r.printf("exported %d records to %s\n", len(r.k.Records()), arg)
	case "import":
		if arg == "" {
			r.fail(errors.New("usage: import <path>"))
			break
		}
		n, err := r.k.Import(arg)
		if err != nil {
			r.fail(err)
			break
		}
		r.printf("imported %d records\n", n)
	default:
		r.fail(fmt.Errorf("unknown command %q (try 'help')", cmd))
	}
	return true
}

func (r *repl) add(ctx context.Context, path string) {
	id, n, err := r.k.IngestFile(ctx, path)
	if err != nil {
		r.fail(err)
		return
	}
	r.printf("added %q: %d tokens\n", id, n)
}

// readText collects lines until a lone "." or end of input.
func (r *repl) readText() string {
	var lines []string
	for r.in.Scan() {
		line := r.in.Text()
		if strings.TrimSpace(line) == "." {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// text reads lines until a lone "." and ingests them as one document.
// Without an id the next free text id is assigned.
func (r *repl) text(id string) {
	if id == "" {
		r.printf("Enter text, finish with a single '.' line:\n")
	} else {
		r.printf("Enter text for %q, finish with a single '.' line:\n", id)
	}
	text := r.readText()

	var (
		n   int
		err error
	)
	if id == "" {
		id, n, err = r.k.IngestNewText(text)
	} else {
		n, err = r.k.IngestText(id, text)
	}
	if err != nil {
		r.fail(err)
		return
	}
	r.printf("added %q: %d tokens\n", id, n)
}

// analyze prints the per-sentence report of text. Without an argument the
// text is read like the text command.
func (r *repl) analyze(text string) {
	if text == "" {
		r.printf("Enter text to analyze, finish with a single '.' line:\n")
		text = r.readText()
	}
	report, err := r.k.Analyze(text)
	if err != nil {
		r.fail(err)
		return
	}
	for _, s := range report.Sentences {
		r.printf("%s %s\n", r.title(fmt.Sprintf("Sentence %d:", s.Index)), s.Text)
		sent := s.Sentiment
		r.printf("  sentiment: pos %.3f, neu %.3f, neg %.3f, compound %.3f (%s)\n",
			sent.Positive, sent.Neutral, sent.Negative, sent.Compound, sent.Label)
		for _, tok := range s.Tokens {
			r.printf("  '%s' (%s -> %s) -> '%s'\n", tok.Text, tok.Tag, tok.Class, tok.Lemma)
		}
	}
}

func (r *repl) docs() {
	docs := r.k.Documents()
	if len(docs) == 0 {
		r.printf("corpus is empty\n")
		return
	}
	for _, d := range docs {
		r.printf("  %-30s %4d sentences %6d tokens %6d words\n", d.ID, d.Sentences, d.Tokens, d.Words)
	}
	c := r.k.Contents()
	r.printf("%d documents, %d tokens, %d words\n", len(c.Documents), c.Tokens, c.Words)
}

func (r *repl) stats(arg string) {
	top := 20
	if arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			r.fail(fmt.Errorf("invalid count %q", arg))
			return
		}
		top = n
	}

	report, err := r.k.Stats()
	if err != nil {
		r.fail(err)
		return
	}
	r.printf("documents: %d  words: %d  distinct: %d\n", report.Documents, report.Words, report.Tokens.Unique)
	r.distribution("Word forms", report.Tokens, top)
	r.distribution("Lemmas", report.Lemmas, top)
	r.distribution("Tags", report.Tags, top)
}

func (r *repl) distribution(name string, d analytics.Distribution, top int) {
	r.printf("\n%s\n", r.title(name))
	for _, e := range d.Top(top) {
		r.printf("  %-20s %d\n", e.Value, e.Count)
	}
}

func (r *repl) concordance(query string) error {
	matches, err := r.k.ConcordanceWindow(query, r.window)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		r.printf("no matches\n")
		return nil
	}
	for _, m := range matches {
		r.printf("%s\n", r.render(m))
	}
	r.printf("%d matches\n", len(matches))
	return nil
}

// render prints a match like corpus.Match.String with the phrase highlighted.
func (r *repl) render(m corpus.Match) string {
	return fmt.Sprintf("[%s, sentence %d]: ...%s %s %s...",
		m.DocumentID, m.SentenceIndex,
		strings.Join(m.Left, " "),
		r.phrase("**"+strings.Join(m.Phrase, " ")+"**"),
		strings.Join(m.Right, " "))
}

func (r *repl) setWindow(arg string) {
	if arg == "" {
		r.printf("window: %d\n", r.window)
		return
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 {
		r.fail(fmt.Errorf("invalid window %q", arg))
		return
	}
	r.window = n
	r.printf("window: %d\n", n)
}

func (r *repl) word(w string) {
	recs, err := r.k.Occurrences(w)
	if err != nil {
		r.fail(err)
		return
	}
	if len(recs) == 0 {
		r.printf("%q does not occur\n", w)
		return
	}
	for _, rec := range recs {
		r.printf("  [%s, sentence %d, token %d] %s %s %s\n",
			rec.DocumentID, rec.SentenceIndex, rec.TokenIndex, rec.SurfaceForm, rec.Tag, rec.Lemma)
	}
	r.printf("%d occurrences\n", len(recs))
}

func (r *repl) snapshots(ctx context.Context) {
	list, err := r.k.Snapshots(ctx)
	if err != nil {
		r.fail(err)
		return
	}
	if len(list) == 0 {
		r.printf("no snapshots\n")
		return
	}
	for _, s := range list {
		r.printf("  %s  %s  %-20q %d records, %d documents\n",
			s.ID, s.CreatedAt.Format("2006-01-02 15:04:05"), s.Name, s.Records, s.Documents)
	}
}
