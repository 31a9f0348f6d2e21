package service

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"relocation-advisor/internal/common/config"
	"relocation-advisor/internal/common/errors"
	"relocation-advisor/internal/common/logger"
	"relocation-advisor/internal/models"
)

// SESService is the slice of the SES client the notifier needs.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Notifier announces a terminal assessment. Failures never block the
// assessment flow; callers log and move on.
type Notifier interface {
	AssessmentFinished(ctx context.Context, a *models.Assessment, recipient string) error
}

// EmailNotifier sends the completion e-mail through SES.
type EmailNotifier struct {
	ses    SESService
	config config.NotificationConfig
	logger logger.Logger
}

func NewEmailNotifier(sesClient SESService, cfg config.NotificationConfig, log logger.Logger) *EmailNotifier {
	return &EmailNotifier{
		ses:    sesClient,
		config: cfg,
		logger: log.WithFields(map[string]interface{}{"component": "notifier"}),
	}
}

func (n *EmailNotifier) AssessmentFinished(ctx context.Context, a *models.Assessment, recipient string) error {
	if !n.config.Email.Enabled || recipient == "" {
		return nil
	}

	subject, body := buildFinishedEmail(a)
	_, err := n.ses.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{recipient},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.config.Email.FromEmail),
	})
	if err != nil {
		n.logger.WithError(err).Warn("completion email failed",
			map[string]interface{}{"assessmentId": a.ID})
		return errors.NewNotificationSendFailedError("email", err)
	}

	n.logger.Info("completion email sent", map[string]interface{}{
		"assessmentId": a.ID,
		"state":        string(a.State),
	})
	return nil
}

func buildFinishedEmail(a *models.Assessment) (subject, body string) {
	switch a.State {
	case models.StateRoundsExhausted:
		subject = "Your relocation assessment is ready (partially categorized)"
		body = fmt.Sprintf(
			"Assessment %s finished after %d clarification rounds. %d topics "+
				"could not be resolved; your matches are based on the information "+
				"we have.", a.ID, a.CurrentRound, len(a.Outstanding))
	default:
		subject = "Your relocation assessment is complete"
		body = fmt.Sprintf(
			"Assessment %s is fully categorized after %d rounds. Your package "+
				"matches are ready.", a.ID, a.CurrentRound)
	}
	return subject, body
}

// NoopNotifier is used when notifications are disabled or in tests.
type NoopNotifier struct{}

func (NoopNotifier) AssessmentFinished(context.Context, *models.Assessment, string) error {
	return nil
}
