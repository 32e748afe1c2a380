package merge

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/lukasjarosch/go-docx"
)

const documentPart = "word/document.xml"

// ErrMissingDocumentPart is returned when the archive has no main document part.
var ErrMissingDocumentPart = errors.New("archive has no " + documentPart)

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_.-]*)\}`)

// ExtractText returns the visible text of the main document part, one line per paragraph.
// Text split across runs is joined, so placeholders broken up by formatting read whole.
func ExtractText(doc []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateInvalid, err)
	}

	for _, f := range zr.File {
		if f.Name != documentPart {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open %s: %w", documentPart, err)
		}
		defer rc.Close()
		return paragraphText(rc)
	}

	return "", ErrMissingDocumentPart
}

// editableParts lists the archive parts go-docx substitutes in: the main document,
// headers and footers.
func editableParts(doc []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateInvalid, err)
	}
	var parts []string
	for _, f := range zr.File {
		if f.Name == docx.DocumentXml || docx.HeaderPathRegex.MatchString(f.Name) || docx.FooterPathRegex.MatchString(f.Name) {
			parts = append(parts, f.Name)
		}
	}
	return parts, nil
}

func paragraphText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var (
		out    strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", documentPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				out.WriteByte('\t')
			case "br":
				out.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				out.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				out.Write(t)
			}
		}
	}
	return out.String(), nil
}

// FindPlaceholders returns the sorted, de-duplicated placeholder names still present in text.
func FindPlaceholders(text string) []string {
	seen := make(map[string]struct{})
	for _, m := range placeholderPattern.FindAllStringSubmatch(text, -1) {
		seen[m[1]] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
