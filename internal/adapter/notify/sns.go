package notify

import (
	"context"

	apperrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSNotifier publishes to a topic. The destination travels as the "email"
// message attribute so subscription filter policies can route it.
type SNSNotifier struct {
	client   SNSService
	topicARN string
}

func NewSNSNotifier(client SNSService, topicARN string) *SNSNotifier {
	return &SNSNotifier{client: client, topicARN: topicARN}
}

func (n *SNSNotifier) Send(ctx context.Context, destination, subject, body string) error {
	_, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(body),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"email": {DataType: aws.String("String"), StringValue: aws.String(destination)},
		},
	})
	if err != nil {
		metrics.NotificationsSent.WithLabelValues(ChannelSNS, "failed").Inc()
		return apperrors.NewNotificationSendFailedError(ChannelSNS, err)
	}

	metrics.NotificationsSent.WithLabelValues(ChannelSNS, "sent").Inc()
	return nil
}
