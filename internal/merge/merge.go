// Package merge fills the member registration template with field values.
package merge

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/lukasjarosch/go-docx"
)

// Sentinel errors for template merge failures.
var (
	ErrEmptyTemplate         = errors.New("template is empty")
	ErrTemplateInvalid       = errors.New("template is not a valid document")
	ErrUnresolvedPlaceholder = errors.New("template has unresolved placeholders")
)

// Braces in values are swapped for private-use runes while go-docx replaces, so a
// value such as "{name}" is never taken for a placeholder, then swapped back.
var (
	shieldBraces  = strings.NewReplacer("{", "\ue000", "}", "\ue001")
	restoreBraces = strings.NewReplacer("\ue000", "{", "\ue001", "}")
)

// Merger substitutes field values into a document template.
type Merger interface {
	Merge(template []byte, fields map[string]string) ([]byte, error)
}

// DocxMerger merges into Word (.docx) templates using {placeholder} delimiters.
// Placeholders split across several runs by the word processor are handled by go-docx.
type DocxMerger struct{}

// NewDocxMerger creates a DocxMerger.
func NewDocxMerger() *DocxMerger {
	return &DocxMerger{}
}

var _ Merger = (*DocxMerger)(nil)

// Merge replaces every placeholder in template with its value from fields and returns the
// resulting document. A template placeholder without a value fails the merge. Values are
// inserted literally, braces included.
func (m *DocxMerger) Merge(template []byte, fields map[string]string) ([]byte, error) {
	if len(template) == 0 {
		return nil, ErrEmptyTemplate
	}

	doc, err := docx.OpenBytes(template)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateInvalid, err)
	}

	if missing, err := unfilled(doc, fields); err != nil {
		return nil, err
	} else if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedPlaceholder, strings.Join(missing, ", "))
	}

	replacements := make(docx.PlaceholderMap, len(fields))
	for key, value := range fields {
		replacements[key] = shieldBraces.Replace(value)
	}
	if err := doc.ReplaceAll(replacements); err != nil {
		return nil, fmt.Errorf("replace placeholders: %w", err)
	}
	if err := restore(doc, template); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, fmt.Errorf("write document: %w", err)
	}
	return buf.Bytes(), nil
}

// unfilled lists the template placeholders that have no entry in fields.
func unfilled(doc *docx.Document, fields map[string]string) ([]string, error) {
	found, err := doc.GetPlaceHoldersList()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateInvalid, err)
	}
	var missing []string
	for _, name := range FindPlaceholders(strings.Join(found, " ")) {
		if _, ok := fields[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// restore puts the shielded braces back in every part go-docx rewrites.
func restore(doc *docx.Document, template []byte) error {
	parts, err := editableParts(template)
	if err != nil {
		return err
	}
	for _, name := range parts {
		data := doc.GetFile(name)
		if data == nil {
			continue
		}
		if err := doc.SetFile(name, []byte(restoreBraces.Replace(string(data)))); err != nil {
			return fmt.Errorf("restore %s: %w", name, err)
		}
	}
	return nil
}
