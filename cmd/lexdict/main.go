package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/cognicore/korpus/internal/logging"
	"github.com/cognicore/korpus/pkg/korpus"
	"github.com/cognicore/korpus/pkg/korpus/dictionary"
)

const usage = `usage: lexdict <command> [flags]

Commands:
  build  -in <file> -out <dict.json>        count the words of a text file
  list   -dict <dict.json> [-filter s]      print entries, optionally filtered
  morph  -dict <dict.json> -word w -text s  set the morphology note of a word
`

func main() {
	_ = godotenv.Load()

	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("lexdict:"), err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return errors.New("missing command")
	}

	switch args[0] {
	case "build":
		return build(ctx, args[1:], out)
	case "list":
		return list(args[1:], out)
	case "morph":
		return morph(args[1:], out)
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	}
	fmt.Fprint(out, usage)
	return fmt.Errorf("unknown command %q", args[0])
}

func build(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.SetOutput(out)
	in := fs.String("in", "", "Input text file (required)")
	dst := fs.String("out", "dictionary.json", "Output dictionary file")
	verbose := fs.Bool("v", false, "Log progress")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return errors.New("-in required")
	}

	opts := korpus.DefaultOptions()
	if *verbose {
		opts.Logger = logging.New("debug", os.Stderr)
	}
	k := korpus.New(opts)
	defer k.Close()

	d, err := k.BuildDictionary(ctx, *in)
	if err != nil {
		return err
	}
	if err := d.SaveFile(*dst); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s %d words written to %s\n", color.GreenString("✓"), d.Len(), *dst)
	return nil
}

func list(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(out)
	path := fs.String("dict", "dictionary.json", "Dictionary file")
	filter := fs.String("filter", "", "Only words containing this text")
	if err := fs.Parse(args); err != nil {
		return err
	}

	d, err := dictionary.LoadFile(*path)
	if err != nil {
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	words := d.Words(*filter)
	for _, w := range words {
		fmt.Fprintf(out, "%-24s %6d  %s\n", bold(w.Word), w.Frequency, w.Morphology)
	}
	fmt.Fprintf(out, "%d of %d words\n", len(words), d.Len())
	return nil
}

func morph(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("morph", flag.ContinueOnError)
	fs.SetOutput(out)
	path := fs.String("dict", "dictionary.json", "Dictionary file")
	word := fs.String("word", "", "Word to annotate (required)")
	text := fs.String("text", "", "Morphology note")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *word == "" {
		return errors.New("-word required")
	}

	d, err := dictionary.LoadFile(*path)
	if err != nil {
		return err
	}
	changed, err := d.SetMorphology(*word, *text)
	if err != nil {
		return err
	}
	if !changed {
		fmt.Fprintf(out, "%q unchanged\n", *word)
		return nil
	}
	if err := d.SaveFile(*path); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s morphology of %q updated\n", color.GreenString("✓"), *word)
	return nil
}
