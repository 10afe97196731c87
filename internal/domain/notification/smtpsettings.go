package notification

import (
	"time"

	"github.com/go-playground/validator/v10"

	"lucerna/internal/shared/errors"
)

var validate = validator.New()

// SMTPSettings is the singleton mail transport configuration, owned by the
// admin surface and cached by the config cache between writes.
type SMTPSettings struct {
	ID        uint
	Host      string
	Port      int
	Username  *string
	Password  *string
	UseTLS    bool
	UseSSL    bool
	FromEmail string
	FromName  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate enforces the transport invariants at configuration-write time.
// UseTLS (STARTTLS upgrade) and UseSSL (implicit TLS from connect) are
// mutually exclusive.
func (s *SMTPSettings) Validate() error {
	if s.Host == "" {
		return errors.NewValidationError("smtp host is required")
	}
	if s.Port < 1 || s.Port > 65535 {
		return errors.NewValidationError("smtp port must be between 1 and 65535")
	}
	if s.UseTLS && s.UseSSL {
		return errors.NewValidationError("use_tls and use_ssl cannot both be enabled")
	}
	if err := validate.Var(s.FromEmail, "required,email"); err != nil {
		return errors.NewValidationError("from_email must be a valid email address")
	}
	return nil
}

// FromHeader returns the display name to use in the From header, falling
// back to the bare address.
func (s *SMTPSettings) FromHeader() string {
	if s.FromName != nil && *s.FromName != "" {
		return *s.FromName
	}
	return s.FromEmail
}

// HasCredentials reports whether SMTP authentication should be attempted.
func (s *SMTPSettings) HasCredentials() bool {
	return s.Username != nil && *s.Username != "" && s.Password != nil && *s.Password != ""
}
