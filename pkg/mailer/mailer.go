package mailer

import (
	"gopkg.in/gomail.v2"
)

// Sender defines the interface for an email sender.
type Sender interface {
	Send(to, subject, body string) error
}

// Config holds SMTP transport configuration.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// client is an SMTP implementation of Sender.
type client struct {
	dialer *gomail.Dialer
	from   string
}

// NewClient creates a new SMTP mailer client.
func NewClient(cfg Config) Sender {
	return &client{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send delivers a plain-text email to the given recipient.
func (c *client) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", c.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return c.dialer.DialAndSend(msg)
}
