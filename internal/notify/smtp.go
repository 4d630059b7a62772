package notify

import (
	"fmt"
	"net/smtp"
	"strings"
)

// smtpSendMail 用來發送郵件，測試可覆寫此變數。
var smtpSendMail = smtp.SendMail

// SMTPDispatcher 以 SMTP 寄送通知信
// addr: SMTP 位址（如 "localhost:25"）；from: 寄件者
type SMTPDispatcher struct {
	Addr string
	From string
}

func NewSMTPDispatcher(addr, from string) *SMTPDispatcher {
	return &SMTPDispatcher{Addr: addr, From: from}
}

// Send 組裝並寄出一封純文字郵件
func (d *SMTPDispatcher) Send(to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + d.From,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")
	if err := smtpSendMail(d.Addr, nil, d.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("Send: %w", err)
	}
	return nil
}
