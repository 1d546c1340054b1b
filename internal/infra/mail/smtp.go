package mail

import (
	"fmt"
	"net/smtp"
)

// 素のSMTPで送る。決済確認メールはベストエフォートなので
// 失敗は呼び出し側がログに残すだけで握りつぶす。
type SMTPSender struct {
	host string
	port string
	from string
	auth smtp.Auth
}

func NewSMTPSender(host, port, username, password, from string) *SMTPSender {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPSender{host: host, port: port, from: from, auth: auth}
}

func (s *SMTPSender) Send(to string, subject string, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", s.from, to, subject, body)
	return smtp.SendMail(s.host+":"+s.port, s.auth, s.from, []string{to}, []byte(msg))
}
