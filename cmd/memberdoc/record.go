package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/goccy/go-yaml"

	"memberdoc/internal/model"
)

// maxRecordSize bounds the YAML input; a member record is a handful of short strings.
const maxRecordSize = 64 << 10

var errMissingFields = errors.New("missing required fields")

// loadRecord reads a member record from a YAML file, rejecting unknown keys.
func loadRecord(path string) (model.MemberRecord, error) {
	var rec model.MemberRecord
	data, err := os.ReadFile(path)
	if err != nil {
		return rec, fmt.Errorf("read record: %w", err)
	}
	if len(data) > maxRecordSize {
		return rec, fmt.Errorf("read record: %s is larger than %d bytes", path, maxRecordSize)
	}
	if err := yaml.UnmarshalWithOptions(data, &rec, yaml.Strict()); err != nil {
		return rec, fmt.Errorf("parse record: %w", err)
	}
	return rec, nil
}

// overlay copies every non-empty field of src onto dst.
func overlay(dst *model.MemberRecord, src model.MemberRecord) {
	from := fields(&src)
	for i, f := range fields(dst) {
		if v := *from[i].value; v != "" {
			*f.value = v
		}
	}
}

type field struct {
	name    string
	message string
	value   *string
}

func fields(rec *model.MemberRecord) []field {
	return []field{
		{"name", "Name:", &rec.Name},
		{"idCardNumber", "ID Card Number:", &rec.IDCardNumber},
		{"email", "Email:", &rec.Email},
		{"phone", "Phone:", &rec.Phone},
		{"address", "Address:", &rec.Address},
	}
}

func missingFields(rec *model.MemberRecord) []string {
	var missing []string
	for _, f := range fields(rec) {
		if strings.TrimSpace(*f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// prompter asks the user for one field value.
type prompter func(message string) (string, error)

func surveyPrompt(message string) (string, error) {
	var out string
	if err := survey.AskOne(&survey.Input{Message: message}, &out, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}
	return out, nil
}

// complete fills empty fields through ask, or fails listing them when ask is nil.
func complete(rec *model.MemberRecord, ask prompter) error {
	if ask == nil {
		if missing := missingFields(rec); len(missing) > 0 {
			return fmt.Errorf("%w: %s", errMissingFields, strings.Join(missing, ", "))
		}
		return nil
	}
	for _, f := range fields(rec) {
		if strings.TrimSpace(*f.value) != "" {
			continue
		}
		v, err := ask(f.message)
		if err != nil {
			return fmt.Errorf("prompt %s: %w", f.name, err)
		}
		*f.value = v
	}
	return nil
}
