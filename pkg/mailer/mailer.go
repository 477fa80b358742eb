package mailer

import (
	"context"
	"fmt"
	"net/http"

	"lms_backend/internal/config"
	"lms_backend/pkg/logger"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// Message 一封待发送的邮件
type Message struct {
	To      []string
	Subject string
	Text    string
	HTML    string
}

// Mailer 邮件发送接口，方便在测试中替换
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewFromConfig 根据配置选择实现；未配置SendGrid凭证时退化为控制台输出
func NewFromConfig(cfg *config.MailConfig) Mailer {
	if cfg.SendGridKey == "" {
		logger.Log.Warn("SendGrid credentials not configured, emails will be logged instead of sent")
		return &ConsoleMailer{}
	}
	return &SendGridMailer{
		key:  cfg.SendGridKey,
		from: sgmail.NewEmail(cfg.FromName, cfg.FromEmail),
	}
}

// SendGridMailer 通过SendGrid API发送邮件
type SendGridMailer struct {
	key  string
	from *sgmail.Email
}

func (m *SendGridMailer) Send(ctx context.Context, msg Message) error {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	for _, to := range msg.To {
		p.AddTos(sgmail.NewEmail("", to))
	}

	v3 := sgmail.NewV3Mail()
	v3.SetFrom(m.from)
	v3.AddPersonalizations(p)
	if msg.Text != "" {
		v3.AddContent(sgmail.NewContent("text/plain", msg.Text))
	}
	if msg.HTML != "" {
		v3.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}

	req := sendgrid.GetRequest(m.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(v3)

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return err
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid returned status %d", res.StatusCode)
	}
	return nil
}

// ConsoleMailer 仅记录日志，不真正发送
type ConsoleMailer struct{}

func (m *ConsoleMailer) Send(ctx context.Context, msg Message) error {
	logger.Log.Info("email (not sent, mail disabled)",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("text", msg.Text),
	)
	return nil
}
