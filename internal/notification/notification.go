// Package notification delivers credential notices to newly assigned actors.
package notification

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
)

// CredentialNotice tells an assignee how to open the case. It carries the plain password and
// token, so it must never be logged.
type CredentialNotice struct {
	ActorID        uuid.UUID
	RecipientName  string
	RecipientEmail string
	CaseID         uuid.UUID
	CaseNumber     string
	Address        string
	Password       string
	Token          string
	ExpiresAt      time.Time
}

// Notifier delivers credential notices.
type Notifier interface {
	NotifyCredential(ctx context.Context, notice CredentialNotice) error
}

const credentialSubject = "Case %s assigned to you"

var credentialBody = template.Must(template.New("credential").Parse(`Hello {{.Name}},

Case {{.CaseNumber}} has been assigned to you.

Use the following temporary credentials to open it:

  Address:  {{.Address}}
  Password: {{.Password}}

Or open the case directly with this one-time link:

  {{.Link}}

These credentials expire in {{.Days}} days ({{.ExpiresAt}}) and work only once.
`))

type credentialBodyData struct {
	Name       string
	CaseNumber string
	Address    string
	Password   string
	Link       string
	Days       int
	ExpiresAt  string
}

// AccessLink builds the one-click link "<baseURL>/judge/access?token=<token>".
func AccessLink(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/judge/access?token=" + url.QueryEscape(token)
}

// renderCredentialBody renders the plain text body of a credential notice as of now.
func renderCredentialBody(notice CredentialNotice, baseURL string, now time.Time) (string, error) {
	days := int(notice.ExpiresAt.Sub(now).Hours() / 24)
	if days < 1 {
		days = 1
	}

	var buf bytes.Buffer
	err := credentialBody.Execute(&buf, credentialBodyData{
		Name:       notice.RecipientName,
		CaseNumber: notice.CaseNumber,
		Address:    notice.Address,
		Password:   notice.Password,
		Link:       AccessLink(baseURL, notice.Token),
		Days:       days,
		ExpiresAt:  notice.ExpiresAt.UTC().Format(time.RFC1123),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render credential notice: %w", err)
	}
	return buf.String(), nil
}
