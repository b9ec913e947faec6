package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
)

// SMTPConfig holds the relay settings of the SMTP notifier.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	BaseURL  string
}

// SMTPNotifier sends credential notices through an SMTP relay.
type SMTPNotifier struct {
	client  *mail.Client
	from    string
	baseURL string
	now     func() time.Time
}

func (n *SMTPNotifier) NotifyCredential(ctx context.Context, notice CredentialNotice) error {
	msg, err := n.buildMessage(notice)
	if err != nil {
		return err
	}
	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send credential notice: %w", err)
	}
	return nil
}

func (n *SMTPNotifier) buildMessage(notice CredentialNotice) (*mail.Msg, error) {
	body, err := renderCredentialBody(notice, n.baseURL, n.now())
	if err != nil {
		return nil, err
	}

	msg := mail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(notice.RecipientEmail); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(fmt.Sprintf(credentialSubject, notice.CaseNumber))
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}

// NewSMTPNotifier creates an SMTP notifier. Authentication is enabled when a username is set;
// STARTTLS is used when the relay offers it.
func NewSMTPNotifier(config SMTPConfig) (*SMTPNotifier, error) {
	opts := []mail.Option{
		mail.WithPort(config.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(10 * time.Second),
	}
	if config.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(config.Username),
			mail.WithPassword(config.Password),
		)
	}

	client, err := mail.NewClient(config.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	return &SMTPNotifier{
		client:  client,
		from:    config.From,
		baseURL: config.BaseURL,
		now:     time.Now,
	}, nil
}
