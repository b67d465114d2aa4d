// Package notification - gửi thông báo email qua SMTP.
package notification

import (
	"fmt"

	"ish_admin/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Mailer gửi email thông báo qua SMTP (gomail).
// Nếu cấu hình SMTP trống thì mọi thao tác gửi là no-op.
type Mailer struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewMailer tạo Mailer từ cấu hình server.
func NewMailer(cfg *config.Configuration) *Mailer {
	return &Mailer{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromName:  cfg.SMTPFromName,
		fromEmail: cfg.SMTPFromEmail,
	}
}

// Enabled kiểm tra đã cấu hình SMTP chưa.
func (m *Mailer) Enabled() bool {
	return m.host != "" && m.fromEmail != ""
}

// Send gửi một email HTML tới recipient.
func (m *Mailer) Send(recipient string, subject string, htmlContent string) error {
	if !m.Enabled() {
		logrus.WithField("recipient", recipient).Debug("Mailer: SMTP chưa cấu hình, bỏ qua gửi email")
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", fmt.Sprintf("%s <%s>", m.fromName, m.fromEmail))
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlContent)

	dialer := gomail.NewDialer(m.host, m.port, m.username, m.password)
	return dialer.DialAndSend(msg)
}

// SendApprovalEmail gửi email thông báo tài khoản đã được duyệt.
// Gửi best-effort: lỗi chỉ log, không chặn luồng duyệt.
func (m *Mailer) SendApprovalEmail(recipient string, fullName string) error {
	subject := "Tài khoản của bạn đã được duyệt"
	body := fmt.Sprintf(`<p>Xin chào %s,</p>
<p>Tài khoản của bạn đã được quản trị viên phê duyệt. Bạn có thể đăng nhập và sử dụng đầy đủ các chức năng.</p>
<p>Trân trọng,<br/>%s</p>`, fullName, m.fromName)
	if err := m.Send(recipient, subject, body); err != nil {
		logrus.WithFields(logrus.Fields{"recipient": recipient, "error": err.Error()}).Warn("Mailer: Gửi email duyệt tài khoản thất bại")
		return err
	}
	return nil
}
