package client

import (
	"net/url"
	"regexp"
)

// DefaultFilename is used when the server sends no usable Content-Disposition.
const DefaultFilename = "member-registration.docx"

var (
	extendedFilename = regexp.MustCompile(`(?i)filename\*=UTF-8''([^;]+)`)
	quotedFilename   = regexp.MustCompile(`filename="([^"]+)"`)
)

// FilenameFromDisposition extracts the download name from a Content-Disposition header.
// The UTF-8 filename* parameter wins over the quoted filename; DefaultFilename is the fallback.
func FilenameFromDisposition(header string) string {
	return filenameFromDisposition(header, DefaultFilename)
}

func filenameFromDisposition(header, fallback string) string {
	if header == "" {
		return fallback
	}
	if m := extendedFilename.FindStringSubmatch(header); m != nil {
		if name, err := url.PathUnescape(m[1]); err == nil && name != "" {
			return name
		}
	}
	if m := quotedFilename.FindStringSubmatch(header); m != nil {
		return m[1]
	}
	return fallback
}
