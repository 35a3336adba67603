package service

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Mailer sends transactional mail. The only message today is the password
// reset link.
type Mailer interface {
	SendPasswordReset(to, name, link string) error
}

type smtpMailer struct {
	host string
	port int
	user string
	pass string
	from string
}

// NewSMTPMailer creates an SMTP-backed mailer. With an empty host it degrades
// to a no-op that logs the reset link, which keeps local development working
// without a mail server.
func NewSMTPMailer(host string, port int, user, pass, from string) Mailer {
	if host == "" {
		return &logMailer{}
	}
	return &smtpMailer{host: host, port: port, user: user, pass: pass, from: from}
}

func (m *smtpMailer) SendPasswordReset(to, name, link string) error {
	subject := "Recuperación de contraseña"
	body := fmt.Sprintf(
		"Hola %s,\r\n\r\n"+
			"Recibimos una solicitud para restablecer tu contraseña. "+
			"Usa el siguiente enlace (válido por 1 hora):\r\n\r\n%s\r\n\r\n"+
			"Si no solicitaste este cambio, ignora este correo.\r\n",
		name, link)

	var msg strings.Builder
	msg.WriteString("From: " + m.from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}
	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg.String()))
}

type logMailer struct{}

func (m *logMailer) SendPasswordReset(to, _, link string) error {
	log.Printf("mailer disabled, password reset link for %s: %s", to, link)
	return nil
}
