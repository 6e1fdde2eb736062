package notify

import (
	"context"
	"fmt"
	"net/mail"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	gomail "gopkg.in/mail.v2"

	"onboarding-records/internal/apperror"
	"onboarding-records/internal/config"
)

const (
	WelcomeSubject = "Welcome to the Company - Onboarding"
	WelcomeBody    = "Hello,\n\nWelcome to the team! Your onboarding process has officially started. " +
		"Please check your portal for details.\n\nBest regards,\nAdmin Team"
	MailtoSubject = "Company Onboarding"
)

type Result struct {
	Recipient string `json:"recipient"`
	Sent      bool   `json:"sent"`
	MailtoURL string `json:"mailto_url,omitempty"`
}

// Notifier contacts an employee at a stored email address.
type Notifier interface {
	Notify(ctx context.Context, email string) (Result, error)
}

func New(cfg config.MailConfig, logger zerolog.Logger) Notifier {
	if cfg.Mode == config.MailModeSMTP {
		return NewSMTPNotifier(cfg, logger)
	}
	return MailtoNotifier{}
}

// checkAddress returns the bare addr-spec of email. Display names are
// dropped; addresses that cannot go into a mailto link or a To header as-is
// are rejected.
func checkAddress(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return "", apperror.New(apperror.CodeValidation, "invalid email address")
	}
	parsed, err := mail.ParseAddress(email)
	if err != nil || strings.ContainsAny(parsed.Address, " \t\"<>,;?&") {
		return "", apperror.New(apperror.CodeValidation, "invalid email address")
	}
	return parsed.Address, nil
}

// MailtoNotifier builds a mailto link for the client's default mail handler.
type MailtoNotifier struct{}

func (MailtoNotifier) Notify(_ context.Context, email string) (Result, error) {
	address, err := checkAddress(email)
	if err != nil {
		return Result{}, err
	}

	link := url.URL{
		Scheme:   "mailto",
		Opaque:   address,
		RawQuery: "subject=" + url.PathEscape(MailtoSubject),
	}
	return Result{Recipient: address, MailtoURL: link.String()}, nil
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPNotifier submits the canned welcome message over SMTP with STARTTLS.
type SMTPNotifier struct {
	from   string
	dialer dialer
	logger zerolog.Logger
}

func NewSMTPNotifier(cfg config.MailConfig, logger zerolog.Logger) *SMTPNotifier {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.StartTLSPolicy = gomail.MandatoryStartTLS

	return &SMTPNotifier{from: cfg.From, dialer: d, logger: logger}
}

func (n *SMTPNotifier) Notify(_ context.Context, email string) (Result, error) {
	address, err := checkAddress(email)
	if err != nil {
		return Result{}, err
	}

	message := gomail.NewMessage()
	message.SetHeader("From", n.from)
	message.SetHeader("To", address)
	message.SetHeader("Subject", WelcomeSubject)
	message.SetBody("text/plain", WelcomeBody)

	if err := n.dialer.DialAndSend(message); err != nil {
		n.logger.Error().Err(err).Str("recipient", address).Msg("welcome email failed")
		return Result{}, fmt.Errorf("send email: %w", err)
	}

	n.logger.Info().Str("recipient", address).Msg("welcome email sent")
	return Result{Recipient: address, Sent: true}, nil
}
