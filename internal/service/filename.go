package service

const filenamePrefix = "member-registration-"

// DocxFilename is the download name for the merged document of name.
// The name is embedded verbatim.
func DocxFilename(name string) string {
	return filenamePrefix + name + ".docx"
}

// PDFFilename is the preview name for the converted document of name.
func PDFFilename(name string) string {
	return filenamePrefix + name + ".pdf"
}
