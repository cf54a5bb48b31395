package utils

import (
	"log"
	"sync"

	"github.com/team-nuri/api-go/config"
	"gopkg.in/gomail.v2"
)

type Email struct {
	To      string
	Subject string
	Body    string
}

// MailSender performs one delivery. Satisfied by the SMTP sender in
// production and by fakes in tests.
type MailSender interface {
	Send(email Email) error
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
}

func (s *smtpSender) Send(email Email) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email.To)
	m.SetHeader("Subject", email.Subject)
	m.SetBody("text/plain", email.Body)
	return s.dialer.DialAndSend(m)
}

// Mailer owns a bounded queue drained by a single worker goroutine.
// Enqueue never blocks the calling request; delivery failures are logged
// and not retried.
type Mailer struct {
	sender MailSender
	queue  chan Email
	wg     sync.WaitGroup
}

const mailQueueSize = 64

func NewMailer(cfg *config.MailConfig) *Mailer {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return NewMailerWithSender(&smtpSender{dialer: dialer, from: cfg.From})
}

func NewMailerWithSender(sender MailSender) *Mailer {
	m := &Mailer{
		sender: sender,
		queue:  make(chan Email, mailQueueSize),
	}
	m.wg.Add(1)
	go m.run()
	return m
}

func (m *Mailer) run() {
	defer m.wg.Done()
	for email := range m.queue {
		if err := m.sender.Send(email); err != nil {
			log.Printf("mailer: failed to send to %s: %v", email.To, err)
		}
	}
}

// Enqueue hands an email to the worker. If the queue is full the email is
// dropped and logged; callers never wait on mail-server latency.
func (m *Mailer) Enqueue(email Email) {
	select {
	case m.queue <- email:
	default:
		log.Printf("mailer: queue full, dropping email to %s", email.To)
	}
}

// Close stops accepting mail and waits for the worker to drain the queue.
func (m *Mailer) Close() {
	close(m.queue)
	m.wg.Wait()
}
