// Package convert turns merged documents into PDF using an installed office suite.
package convert

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

const pdfMIME = "application/pdf"

// Converter converts the document at inputPath into a PDF at outputPath.
type Converter interface {
	ToPDF(ctx context.Context, inputPath, outputPath string) error
}

// OfficeConverter drives LibreOffice (soffice) in headless mode.
type OfficeConverter struct {
	binary   string
	timeout  time.Duration
	runner    CommandRunner
	lookPath  func(string) (string, error)
	removeAll func(string) error
	log       *zap.Logger
}

// Option customizes an OfficeConverter.
type Option func(*OfficeConverter)

// WithRunner replaces the subprocess runner.
func WithRunner(r CommandRunner) Option {
	return func(c *OfficeConverter) { c.runner = r }
}

// WithLookPath replaces executable resolution.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(c *OfficeConverter) { c.lookPath = fn }
}

// WithLogger sets the logger used for cleanup failures.
func WithLogger(log *zap.Logger) Option {
	return func(c *OfficeConverter) { c.log = log }
}

// NewOfficeConverter creates a converter invoking binary. A zero timeout disables the limit.
func NewOfficeConverter(binary string, timeout time.Duration, opts ...Option) *OfficeConverter {
	c := &OfficeConverter{
		binary:   binary,
		timeout:  timeout,
		runner:    &ExecRunner{},
		lookPath:  exec.LookPath,
		removeAll: os.RemoveAll,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Converter = (*OfficeConverter)(nil)

// ToPDF runs `soffice --headless --convert-to pdf` and leaves the PDF at outputPath.
//
// LibreOffice always names its output after the input stem inside --outdir, so the
// result is renamed when outputPath asks for a different name. Each run gets a private
// user profile next to the output; concurrent runs sharing one profile block on its lock.
func (c *OfficeConverter) ToPDF(ctx context.Context, inputPath, outputPath string) error {
	bin, err := c.lookPath(c.binary)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrConverterNotFound, c.binary, err)
	}

	absIn, err := filepath.Abs(inputPath)
	if err != nil {
		return fmt.Errorf("%w: resolve input: %v", ErrConversionFailed, err)
	}
	absOut, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("%w: resolve output: %v", ErrConversionFailed, err)
	}
	outDir := filepath.Dir(absOut)

	profile := stem(absOut) + "-profile"
	defer c.removeProfile(profile)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := []string{
		"--headless",
		"--norestore",
		"-env:UserInstallation=" + fileURL(profile),
		"--convert-to", "pdf",
		"--outdir", outDir,
		absIn,
	}
	if _, stderr, err := c.runner.Run(ctx, bin, args...); err != nil {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return fmt.Errorf("%w after %s", ErrConversionTimeout, c.timeout)
		case errors.Is(err, exec.ErrNotFound):
			return fmt.Errorf("%w: %v", ErrConverterNotFound, err)
		default:
			return fmt.Errorf("%w: %v: %s", ErrConversionFailed, err, strings.TrimSpace(stderr))
		}
	}

	produced := filepath.Join(outDir, filepath.Base(stem(absIn))+".pdf")
	if produced != absOut {
		if err := os.Rename(produced, absOut); err != nil {
			return fmt.Errorf("%w: no output produced: %v", ErrConversionFailed, err)
		}
	}

	mt, err := mimetype.DetectFile(absOut)
	if err != nil {
		return fmt.Errorf("%w: no output produced: %v", ErrConversionFailed, err)
	}
	if !mt.Is(pdfMIME) {
		return fmt.Errorf("%w: output is %s, not a PDF", ErrConversionFailed, mt.String())
	}
	return nil
}

func (c *OfficeConverter) removeProfile(dir string) {
	if err := c.removeAll(dir); err != nil {
		c.log.Warn("converter_profile_cleanup_failed", zap.String("path", dir), zap.Error(err))
	}
}

func stem(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

func fileURL(path string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}
