package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/config"
)

// Message is one outgoing e-mail with plain and HTML bodies.
type Message struct {
	To        string
	Subject   string
	PlainBody string
	HTMLBody  string
}

type Sender interface {
	Send(msg Message) error
}

type SMTPEmailService struct {
	config config.EmailConfig
	dialer *gomail.Dialer
}

func NewSMTPEmailService(cfg config.EmailConfig) *SMTPEmailService {
	return &SMTPEmailService{
		config: cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
	}
}

func (s *SMTPEmailService) Send(msg Message) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.PlainBody)
	if msg.HTMLBody != "" {
		m.AddAlternative("text/html", msg.HTMLBody)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
