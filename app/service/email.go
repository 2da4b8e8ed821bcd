package service

import (
	"context"
	"fmt"

	"github.com/vibast-solutions/ms-go-catalog/app/entity"
)

const confirmationEmailSubject = "Registration Confirmation"

// sendConfirmationEmail mails the activation link for the given
// confirmation to the user. Shared by registration and resend.
func sendConfirmationEmail(ctx context.Context, mailer Mailer, publicURL string, user *entity.User, confirmationID string) error {
	link := fmt.Sprintf("%s/confirmation/%s", publicURL, confirmationID)
	text := fmt.Sprintf("Please click the link to confirm your registration: %s", link)
	html := fmt.Sprintf(`<html>Please click the link to confirm your registration: <a href=%q>%s</a></html>`, link, link)

	return mailer.Send(ctx, []string{user.Email}, confirmationEmailSubject, text, html)
}
