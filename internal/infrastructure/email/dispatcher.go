package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/mail"
	"net/smtp"
	"time"

	"gopkg.in/gomail.v2"

	"lucerna/internal/domain/notification"
	"lucerna/internal/domain/user"
	"lucerna/internal/shared/logger"
)

// sender is the transport seam under the dispatcher. The production
// implementation dials SMTP; tests substitute a recorder.
type sender interface {
	Send(settings *notification.SMTPSettings, msg *gomail.Message) error
}

type smtpSender struct{}

func (smtpSender) Send(settings *notification.SMTPSettings, msg *gomail.Message) error {
	// UseTLS means the upgrade is mandatory. gomail only negotiates
	// STARTTLS opportunistically and would authenticate over plaintext
	// against a server that withholds the extension, so that mode is
	// driven over net/smtp directly.
	if settings.UseTLS {
		return sendWithMandatoryStartTLS(settings, msg)
	}

	dialer := gomail.NewDialer(settings.Host, settings.Port, "", "")
	if settings.HasCredentials() {
		dialer.Username = *settings.Username
		dialer.Password = *settings.Password
	}
	// UseSSL means implicit TLS from connect.
	dialer.SSL = settings.UseSSL
	return dialer.DialAndSend(msg)
}

// sendWithMandatoryStartTLS fails before AUTH when the server does not
// offer STARTTLS, so credentials never travel unencrypted.
func sendWithMandatoryStartTLS(settings *notification.SMTPSettings, msg *gomail.Message) error {
	addr := fmt.Sprintf("%s:%d", settings.Host, settings.Port)
	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to smtp server: %w", err)
	}

	client, err := smtp.NewClient(conn, settings.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake failed: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); !ok {
		return fmt.Errorf("smtp server %s does not offer STARTTLS", settings.Host)
	}
	if err := client.StartTLS(&tls.Config{ServerName: settings.Host}); err != nil {
		return fmt.Errorf("starttls negotiation failed: %w", err)
	}

	if settings.HasCredentials() {
		auth := smtp.PlainAuth("", *settings.Username, *settings.Password, settings.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp authentication failed: %w", err)
		}
	}

	if err := client.Mail(settings.FromEmail); err != nil {
		return fmt.Errorf("smtp MAIL failed: %w", err)
	}
	for _, to := range recipients(msg) {
		if err := client.Rcpt(to); err != nil {
			return fmt.Errorf("smtp RCPT failed: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA failed: %w", err)
	}
	if _, err := msg.WriteTo(w); err != nil {
		w.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish message: %w", err)
	}
	return client.Quit()
}

func recipients(msg *gomail.Message) []string {
	var out []string
	for _, value := range msg.GetHeader("To") {
		if parsed, err := mail.ParseAddress(value); err == nil {
			out = append(out, parsed.Address)
		}
	}
	return out
}

// Dispatcher delivers trigger notifications and magic-link mail. Event
// sends are best-effort: missing configuration, disabled triggers, and
// transport failures all stay inside the dispatcher.
type Dispatcher struct {
	cache  *ConfigCache
	sender sender
	logger logger.Interface
}

func NewDispatcher(cache *ConfigCache, logger logger.Interface) *Dispatcher {
	return &Dispatcher{
		cache:  cache,
		sender: smtpSender{},
		logger: logger,
	}
}

// IsEnabled reports whether the trigger's preference flag is on. An absent
// flag reads as disabled.
func (d *Dispatcher) IsEnabled(ctx context.Context, trigger notification.Trigger) bool {
	snapshot, err := d.cache.Get(ctx)
	if err != nil {
		d.logger.Errorw("failed to load notification config", "error", err)
		return false
	}
	return snapshot.Preferences[trigger]
}

// Send delivers one trigger notification to the user's registered address.
// It is a silent no-op when the user has no email, SMTP is unconfigured,
// the trigger is disabled, or rendering yields an empty message.
func (d *Dispatcher) Send(ctx context.Context, trigger notification.Trigger, u *user.User, mc MessageContext) {
	if !u.HasEmail() {
		return
	}

	snapshot, err := d.cache.Get(ctx)
	if err != nil {
		d.logger.Errorw("failed to load notification config", "error", err, "trigger", trigger.String())
		return
	}
	if snapshot.Settings == nil || !snapshot.Preferences[trigger] {
		return
	}

	subject, body := render(trigger, u, mc)
	if subject == "" || body == "" {
		return
	}

	msg := d.buildMessage(snapshot.Settings, *u.Email(), subject, body)
	if err := d.sender.Send(snapshot.Settings, msg); err != nil {
		d.logger.Errorw("failed to send notification email",
			"error", err,
			"trigger", trigger.String(),
			"to", *u.Email(),
		)
	}
}

// SendMagicLink delivers the sign-in link and reports whether delivery
// succeeded. Callers use the result for logging only; the HTTP response
// stays generic either way.
func (d *Dispatcher) SendMagicLink(ctx context.Context, email, username, link string, expiresInMinutes int) bool {
	if email == "" {
		return false
	}

	snapshot, err := d.cache.Get(ctx)
	if err != nil {
		d.logger.Errorw("failed to load notification config", "error", err)
		return false
	}
	if snapshot.Settings == nil {
		d.logger.Warnw("magic link email skipped, smtp settings not configured")
		return false
	}

	identifier := username
	if identifier == "" {
		identifier = email
	}

	body := renderMagicLink(identifier, link, expiresInMinutes)
	msg := d.buildMessage(snapshot.Settings, email, "Your VPN dashboard sign-in link", body)
	if err := d.sender.Send(snapshot.Settings, msg); err != nil {
		d.logger.Errorw("failed to send magic link email", "error", err, "to", email)
		return false
	}
	return true
}

func (d *Dispatcher) buildMessage(settings *notification.SMTPSettings, to, subject, body string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", msg.FormatAddress(settings.FromEmail, settings.FromHeader()))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return msg
}
