// Package queue carries completed dining requests from the dialog hook to the
// suggestion worker over SQS.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// maxWait is the longest long-poll SQS accepts.
const maxWait = 20 * time.Second

// SQSAPI is the subset of *sqs.Client the queue uses.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// Message is one received fulfillment message. Handle is needed to
// acknowledge it.
type Message struct {
	ID     string
	Body   []byte
	Handle string
}

type SQSQueue struct {
	client            SQSAPI
	queueURL          string
	visibilityTimeout int32
	logger            logger.Logger
}

func NewSQSQueue(client SQSAPI, queueURL string, visibilityTimeout int32, log logger.Logger) *SQSQueue {
	return &SQSQueue{
		client:            client,
		queueURL:          queueURL,
		visibilityTimeout: visibilityTimeout,
		logger:            log.WithFields(map[string]interface{}{"component": "sqs-queue"}),
	}
}

// Enqueue sends the request as a JSON message body.
func (q *SQSQueue) Enqueue(ctx context.Context, req *models.FulfillmentRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal fulfillment request: %w", err)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.queueURL),
		MessageBody: aws.String(string(body)),
	}
	if req.RequestID != "" {
		input.MessageAttributes = map[string]types.MessageAttributeValue{
			"requestId": {DataType: aws.String("String"), StringValue: aws.String(req.RequestID)},
		}
	}

	out, err := q.client.SendMessage(ctx, input)
	if err != nil {
		return apperrors.NewQueueUnavailableError("send", err)
	}

	q.logger.Debug("request enqueued", map[string]interface{}{
		"messageId": aws.ToString(out.MessageId),
		"requestId": req.RequestID,
	})
	return nil
}

// ReceiveOne long-polls for at most one message. It returns nil, nil when the
// wait elapses with the queue empty.
func (q *SQSQueue) ReceiveOne(ctx context.Context, wait time.Duration) (*Message, error) {
	if wait > maxWait {
		wait = maxWait
	}
	if wait < 0 {
		wait = 0
	}

	input := &sqs.ReceiveMessageInput{
		QueueUrl:              aws.String(q.queueURL),
		MaxNumberOfMessages:   1,
		WaitTimeSeconds:       int32(wait / time.Second),
		MessageAttributeNames: []string{"All"},
	}
	if q.visibilityTimeout > 0 {
		input.VisibilityTimeout = q.visibilityTimeout
	}

	out, err := q.client.ReceiveMessage(ctx, input)
	if err != nil {
		return nil, apperrors.NewQueueUnavailableError("receive", err)
	}
	if len(out.Messages) == 0 {
		return nil, nil
	}

	m := out.Messages[0]
	return &Message{
		ID:     aws.ToString(m.MessageId),
		Body:   []byte(aws.ToString(m.Body)),
		Handle: aws.ToString(m.ReceiptHandle),
	}, nil
}

// Acknowledge deletes a received message so it is not redelivered.
func (q *SQSQueue) Acknowledge(ctx context.Context, handle string) error {
	_, err := q.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(q.queueURL),
		ReceiptHandle: aws.String(handle),
	})
	if err != nil {
		return apperrors.NewQueueUnavailableError("delete", err)
	}
	return nil
}
