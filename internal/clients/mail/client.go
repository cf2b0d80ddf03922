package mail

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"callbridge/internal/observability"

	"github.com/resendlabs/resend-go"
)

var ErrNotConfigured = errors.New("mail not configured")

// Sender is the part of the Resend SDK we call.
type Sender interface {
	Send(params *resend.SendEmailRequest) (resend.SendEmailResponse, error)
}

type ResendClient struct {
	emails  Sender
	from    string
	manager string
	logger  *observability.Logger
}

// HandoffFailure is what a manager needs to call a guest back.
type HandoffFailure struct {
	CallID         string
	TransferID     string
	GuestPhone     string
	StaffPhone     string
	ProblemSummary string
	Reason         string
	At             time.Time
}

// NewResendClient returns nil when either the key or the manager address is missing.
func NewResendClient(apiKey, from, manager string, logger *observability.Logger) *ResendClient {
	if apiKey == "" || manager == "" {
		return nil
	}
	client := resend.NewClient(apiKey)
	return NewFromSender(client.Emails, from, manager, logger)
}

func NewFromSender(emails Sender, from, manager string, logger *observability.Logger) *ResendClient {
	return &ResendClient{emails: emails, from: from, manager: manager, logger: logger}
}

func (c *ResendClient) SendEmail(ctx context.Context, to, subject, htmlContent string) (string, error) {
	if c == nil || c.emails == nil {
		return "", ErrNotConfigured
	}
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "email_to", Value: to},
		observability.Field{Key: "email_subject", Value: subject},
	)

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    htmlContent,
	}

	res, err := c.emails.Send(params)
	if err != nil {
		c.logger.Error(ctx, "failed to send email", err)
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	c.logger.Info(ctx, "email sent successfully")
	return res.Id, nil
}

// NotifyHandoffFailed mails the manager the summary of a hand-off that did not connect.
func (c *ResendClient) NotifyHandoffFailed(ctx context.Context, f HandoffFailure) error {
	if c == nil {
		return ErrNotConfigured
	}
	subject := "Staff hand-off failed"
	if f.GuestPhone != "" {
		subject = fmt.Sprintf("Staff hand-off failed for %s", f.GuestPhone)
	}
	_, err := c.SendEmail(ctx, c.manager, subject, handoffBody(f))
	return err
}

func handoffBody(f HandoffFailure) string {
	at := f.At
	if at.IsZero() {
		at = time.Now()
	}
	rows := [][2]string{
		{"Guest phone", f.GuestPhone},
		{"Staff phone", f.StaffPhone},
		{"Summary", f.ProblemSummary},
		{"Reason", f.Reason},
		{"Call", f.CallID},
		{"Transfer", f.TransferID},
		{"Time", at.UTC().Format(time.RFC1123)},
	}

	var b strings.Builder
	b.WriteString("<p>A guest asked to speak with staff but the hand-off did not connect. The AI concierge kept the call.</p><table>")
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		fmt.Fprintf(&b, "<tr><td><b>%s</b></td><td>%s</td></tr>", r[0], html.EscapeString(r[1]))
	}
	b.WriteString("</table>")
	return b.String()
}
