// Package templates holds the HTML pages served by the confirmation
// endpoint, embedded so the binary ships self-contained.
package templates

import (
	"bytes"
	"embed"
	"html/template"
)

//go:embed confirmation_page.html
var files embed.FS

var confirmationPage = template.Must(template.ParseFS(files, "confirmation_page.html"))

// ConfirmationPage renders the activation success page for the given
// account email.
func ConfirmationPage(email string) ([]byte, error) {
	var buf bytes.Buffer
	if err := confirmationPage.Execute(&buf, struct{ Email string }{Email: email}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
