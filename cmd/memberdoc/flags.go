package main

import (
	"os"

	flag "github.com/spf13/pflag"

	"memberdoc/internal/model"
)

// cliFlags holds the parsed command line.
type cliFlags struct {
	server  string
	from    string
	output  string
	preview bool
	noInput bool
	record  model.MemberRecord
}

func parseFlags(args []string) (*cliFlags, error) {
	fs := flag.NewFlagSet("memberdoc", flag.ContinueOnError)
	f := &cliFlags{}

	defaultServer := os.Getenv("MEMBERDOC_URL")
	if defaultServer == "" {
		defaultServer = "http://localhost:3000"
	}

	fs.StringVarP(&f.server, "server", "s", defaultServer, "API base URL (env MEMBERDOC_URL)")
	fs.StringVarP(&f.from, "from", "f", "", "YAML file with the member record")
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory (default: server-provided name in the current directory)")
	fs.BoolVarP(&f.preview, "preview", "p", false, "request the PDF preview instead of the .docx")
	fs.BoolVar(&f.noInput, "no-input", false, "fail instead of prompting for missing fields")

	fs.StringVar(&f.record.Name, "name", "", "member name")
	fs.StringVar(&f.record.IDCardNumber, "id-card", "", "ID card number")
	fs.StringVar(&f.record.Email, "email", "", "email address")
	fs.StringVar(&f.record.Phone, "phone", "", "phone number")
	fs.StringVar(&f.record.Address, "address", "", "postal address")

	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}
	return f, nil
}
