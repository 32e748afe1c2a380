// Package web embeds the browser registration form.
package web

import _ "embed"

// Index is the single-page member registration form served at "/".
//
//go:embed index.html
var Index []byte
