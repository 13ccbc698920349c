// Package notify dispatches report-ready notifications to HR over the
// configured channels.
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"hr-interviewer/internal/common/config"
	"hr-interviewer/internal/common/logger"
	"hr-interviewer/internal/common/metrics"
	"hr-interviewer/internal/models"
)

// EmailSender is the SES surface the notifier needs.
type EmailSender interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// SMSPublisher is the SNS surface the notifier needs.
type SMSPublisher interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// Notifier sends best-effort notifications. Delivery failures are
// logged and counted, never surfaced to the interview flow.
type Notifier struct {
	email  EmailSender
	sms    SMSPublisher
	cfg    config.NotificationConfig
	logger logger.Logger
}

func New(email EmailSender, sms SMSPublisher, cfg config.NotificationConfig, log logger.Logger) *Notifier {
	return &Notifier{email: email, sms: sms, cfg: cfg, logger: log}
}

// NotifyReportReady announces a completed review report on every
// enabled channel.
func (n *Notifier) NotifyReportReady(ctx context.Context, report *models.Report) {
	if n.cfg.Email.Enabled {
		n.sendEmail(ctx, report)
	}
	if n.cfg.SMS.Enabled {
		n.sendSMS(ctx, report)
	}
}

func (n *Notifier) sendEmail(ctx context.Context, report *models.Report) {
	if n.email == nil || n.cfg.Email.HREmail == "" {
		n.logger.Warn("Email notifications enabled but no HR recipient configured", nil)
		metrics.NotificationsSent.WithLabelValues("email", "skipped").Inc()
		return
	}

	subject := fmt.Sprintf("Performance review completed: %s", report.EmployeeName)
	body := fmt.Sprintf(
		"The annual performance review for %s (%s) is complete.\n\nOverall score: %.2f\n\nSummary:\n%s\n\nSession: %s\n",
		report.EmployeeName, report.EmployeePosition, report.OverallScore, report.Summary, report.SessionID,
	)

	_, err := n.email.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(n.cfg.Email.FromEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{n.cfg.Email.HREmail},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
	})
	if err != nil {
		metrics.NotificationsSent.WithLabelValues("email", "error").Inc()
		n.logger.WithError(err).Error("Failed to send report email", map[string]interface{}{
			"session_id": report.SessionID,
		})
		return
	}

	metrics.NotificationsSent.WithLabelValues("email", "success").Inc()
	n.logger.Info("Sent report email", map[string]interface{}{
		"session_id": report.SessionID,
		"recipient":  n.cfg.Email.HREmail,
	})
}

func (n *Notifier) sendSMS(ctx context.Context, report *models.Report) {
	if n.sms == nil || n.cfg.SMS.TopicARN == "" {
		n.logger.Warn("SMS notifications enabled but no topic configured", nil)
		metrics.NotificationsSent.WithLabelValues("sms", "skipped").Inc()
		return
	}

	message := fmt.Sprintf("Review completed for %s (score %.2f).", report.EmployeeName, report.OverallScore)

	_, err := n.sms.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.cfg.SMS.TopicARN),
		Subject:  aws.String("Performance review completed"),
		Message:  aws.String(message),
	})
	if err != nil {
		metrics.NotificationsSent.WithLabelValues("sms", "error").Inc()
		n.logger.WithError(err).Error("Failed to publish report notification", map[string]interface{}{
			"session_id": report.SessionID,
		})
		return
	}

	metrics.NotificationsSent.WithLabelValues("sms", "success").Inc()
}
