// Package notification delivers transactional email. Lock notices travel
// through the outbox so a dead SMTP server never fails a login; account
// credentials and password resets are sent inline with a soft warning on
// failure.
package notification

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

//go:generate mockgen -source=mailer.go -destination=mock/mailer_mock.go -package=mock
type Mailer interface {
	SendAccountCredentials(ctx context.Context, to, name, account, password string) error
	SendUserLockNotice(ctx context.Context, to, name, verificationCode string) error
	SendAdminLockNotice(ctx context.Context, to, name string, adminOverride bool) error
	SendPasswordReset(ctx context.Context, to, name, tempPassword string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func SMTPConfigFromEnv() SMTPConfig {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}
	return SMTPConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		Username: os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
}

type smtpMailer struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
	logger *zap.Logger
}

func NewSMTPMailer(cfg SMTPConfig, logger ...*zap.Logger) Mailer {
	l := zap.L().Named("notification.mailer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.mailer")
	}
	return &smtpMailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		logger: l,
	}
}

func (m *smtpMailer) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error("send mail failed",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return err
	}

	m.logger.Info("mail sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func (m *smtpMailer) SendAccountCredentials(ctx context.Context, to, name, account, password string) error {
	body := fmt.Sprintf(`
<p>%s 您好，</p>
<p>您的系統帳號已開通：</p>
<ul>
  <li>帳號：%s</li>
  <li>初始密碼：%s</li>
</ul>
<p>首次登入後請立即變更密碼。</p>`, name, account, password)
	return m.send(ctx, to, "系統帳號開通通知", body)
}

func (m *smtpMailer) SendUserLockNotice(ctx context.Context, to, name, verificationCode string) error {
	body := fmt.Sprintf(`
<p>%s 您好，</p>
<p>您的帳號因連續登入失敗已被鎖定，15 分鐘後自動解鎖。</p>
<p>若需立即解鎖，請使用以下驗證碼：<strong>%s</strong>（僅限使用一次）。</p>`, name, verificationCode)
	return m.send(ctx, to, "帳號鎖定通知", body)
}

func (m *smtpMailer) SendAdminLockNotice(ctx context.Context, to, name string, adminOverride bool) error {
	reason := "連續登入失敗"
	if adminOverride {
		reason = "管理員手動鎖定"
	}
	body := fmt.Sprintf(`
<p>%s 您好，</p>
<p>您的帳號因%s已被鎖定，15 分鐘後自動解鎖。</p>`, name, reason)
	return m.send(ctx, to, "帳號鎖定通知", body)
}

func (m *smtpMailer) SendPasswordReset(ctx context.Context, to, name, tempPassword string) error {
	body := fmt.Sprintf(`
<p>%s 您好，</p>
<p>您的密碼已由管理員重設，臨時密碼：<strong>%s</strong></p>
<p>登入後請立即變更密碼。</p>`, name, tempPassword)
	return m.send(ctx, to, "密碼重設通知", body)
}
