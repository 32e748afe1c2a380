package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttachmentDisposition(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{
			name:     "ascii",
			filename: "member-registration-Jane Doe.docx",
			want:     `attachment; filename="member-registration-Jane Doe.docx"; filename*=UTF-8''member-registration-Jane%20Doe.docx`,
		},
		{
			name:     "utf-8",
			filename: "member-registration-Zoë.docx",
			want:     `attachment; filename="member-registration-Zoë.docx"; filename*=UTF-8''member-registration-Zo%C3%AB.docx`,
		},
		{
			name:     "quotes and control characters",
			filename: "a\"b\\c\r\nd.docx",
			want:     `attachment; filename="a\"b\\c__d.docx"; filename*=UTF-8''a%22b%5Cc%0D%0Ad.docx`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, attachmentDisposition(tt.filename))
		})
	}
}

func TestInlineDisposition(t *testing.T) {
	assert.Equal(t, `inline; filename="member-registration-Jane Doe.pdf"`, inlineDisposition("member-registration-Jane Doe.pdf"))
}
