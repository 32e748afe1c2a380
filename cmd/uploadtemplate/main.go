// Command uploadtemplate publishes a member registration template to object storage
// for deployments running with TEMPLATE_SOURCE=minio.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/gabriel-vasile/mimetype"
	_ "github.com/joho/godotenv/autoload"
	flag "github.com/spf13/pflag"

	"memberdoc/internal/config"
	"memberdoc/internal/merge"
	"memberdoc/internal/model"
	"memberdoc/internal/storage"
)

const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

var errUnknownPlaceholders = errors.New("template uses placeholders the form does not provide")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args, os.Stdout, func() (storage.Storage, string, error) { return newStore(ctx) }); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newStore(ctx context.Context) (storage.Storage, string, error) {
	cfg := config.Load()
	store, err := storage.NewMinIO(ctx, cfg.MinIO)
	return store, cfg.Template.ObjectKey, err
}

func run(ctx context.Context, args []string, stdout io.Writer, open func() (storage.Storage, string, error)) error {
	fs := flag.NewFlagSet("uploadtemplate", flag.ContinueOnError)
	var (
		file  string
		key   string
		force bool
	)
	fs.StringVarP(&file, "file", "f", "templates/member-template.docx", "template document to upload")
	fs.StringVarP(&key, "key", "k", "", "object key (default TEMPLATE_OBJECT_KEY)")
	fs.BoolVar(&force, "force", false, "upload even if the template has placeholders the form does not fill")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read template: %w", err)
	}
	if err := checkTemplate(data); err != nil && !(force && errors.Is(err, errUnknownPlaceholders)) {
		return err
	}

	store, defaultKey, err := open()
	if err != nil {
		return fmt.Errorf("initialize object storage: %w", err)
	}
	if key == "" {
		key = defaultKey
	}

	info, err := store.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: docxMIME,
		Metadata:    map[string]string{"source-file": file},
	})
	if err != nil {
		return fmt.Errorf("upload template: %w", err)
	}

	fmt.Fprintf(stdout, "uploaded %s (%d bytes, etag %s)\n", info.Key, info.Size, info.ETag)
	return nil
}

// checkTemplate verifies data is a Word document whose placeholders are all fillable.
func checkTemplate(data []byte) error {
	if mt := mimetype.Detect(data); !isZipBased(mt) {
		return fmt.Errorf("template is %s, not a .docx document", mt.String())
	}

	text, err := merge.ExtractText(data)
	if err != nil {
		return fmt.Errorf("read template: %w", err)
	}

	known := model.MemberRecord{}.Fields()
	var unknown []string
	for _, name := range merge.FindPlaceholders(text) {
		if _, ok := known[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return fmt.Errorf("%w: %v", errUnknownPlaceholders, unknown)
	}
	return nil
}

// isZipBased accepts docx and any zip container; ExtractText then requires word/document.xml.
func isZipBased(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is(docxMIME) || m.Is("application/zip") {
			return true
		}
	}
	return false
}
