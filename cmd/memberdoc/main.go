// Command memberdoc fills the member registration form from the terminal and
// saves the generated document or its PDF preview.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	flag "github.com/spf13/pflag"

	"memberdoc/internal/client"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args, os.Stdout, surveyPrompt); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer, ask prompter) error {
	flags, err := parseFlags(args)
	if err != nil {
		return err
	}

	rec := flags.record
	if flags.from != "" {
		fromFile, err := loadRecord(flags.from)
		if err != nil {
			return err
		}
		// Flags override the file.
		overlay(&fromFile, flags.record)
		rec = fromFile
	}

	if flags.noInput {
		ask = nil
	}
	if err := complete(&rec, ask); err != nil {
		return err
	}

	form := client.NewForm(client.New(flags.server))

	var doc *client.Download
	if flags.preview {
		doc, err = form.Preview(ctx, rec)
	} else {
		doc, err = form.Submit(ctx, rec)
	}
	if err != nil {
		return errors.New(form.Message())
	}

	path, err := outputPath(flags.output, doc.Filename)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, doc.Content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	if msg := form.Message(); msg != "" {
		fmt.Fprintln(stdout, msg)
	}
	fmt.Fprintln(stdout, path)
	return nil
}

// outputPath resolves --output: empty means the server name in the working
// directory, an existing directory receives the server name, anything else is used as is.
func outputPath(output, filename string) (string, error) {
	// The server name embeds user input; never let it escape the target directory.
	filename = filepath.Base(filename)
	if output == "" {
		return filename, nil
	}
	info, err := os.Stat(output)
	switch {
	case err == nil && info.IsDir():
		return filepath.Join(output, filename), nil
	case err == nil || errors.Is(err, os.ErrNotExist):
		return output, nil
	default:
		return "", fmt.Errorf("output: %w", err)
	}
}
