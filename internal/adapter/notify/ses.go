// Package notify delivers suggestion messages to users.
package notify

import (
	"context"

	apperrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const (
	ChannelSES = "ses"
	ChannelSNS = "sns"
)

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESNotifier sends plain-text email from a verified sender address.
type SESNotifier struct {
	client    SESService
	fromEmail string
}

func NewSESNotifier(client SESService, fromEmail string) *SESNotifier {
	return &SESNotifier{client: client, fromEmail: fromEmail}
}

func (n *SESNotifier) Send(ctx context.Context, destination, subject, body string) error {
	_, err := n.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{destination},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.fromEmail),
	})
	if err != nil {
		metrics.NotificationsSent.WithLabelValues(ChannelSES, "failed").Inc()
		return apperrors.NewNotificationSendFailedError(ChannelSES, err)
	}

	metrics.NotificationsSent.WithLabelValues(ChannelSES, "sent").Inc()
	return nil
}
