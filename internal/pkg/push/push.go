package push

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Client publishes messages to Firebase Cloud Messaging topics.
type Client struct {
	fcm *messaging.Client
}

// NewClient initializes the Firebase Admin SDK and returns a messaging client.
func NewClient(ctx context.Context, credentialsPath string) (*Client, error) {
	opt := option.WithCredentialsFile(credentialsPath)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	fcm, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase messaging client: %w", err)
	}

	return &Client{fcm: fcm}, nil
}

// Publish sends a data payload to every subscriber of topic.
func (c *Client) Publish(ctx context.Context, topic string, payload map[string]string) error {
	_, err := c.fcm.Send(ctx, &messaging.Message{
		Topic: topic,
		Data:  payload,
	})
	return err
}
