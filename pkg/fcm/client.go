// Package fcm provides a client for sending push notifications via Firebase
// Cloud Messaging.
//
// Messages are delivered to web-push subscribers with high urgency, the same
// way the web dashboard registered its service worker.
package fcm

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var (
	// ErrEmptyToken is returned when a message has no device token.
	ErrEmptyToken = errors.New("fcm: empty device token")

	// ErrTokenRejected marks a send refused because of the message itself:
	// an unregistered, malformed or foreign token. The provider is healthy.
	ErrTokenRejected = errors.New("fcm: token rejected")
)

// Message is a single push addressed to one device token.
type Message struct {
	Token string
	Title string
	Body  string
}

// Options configures the client.
type Options struct {
	ProjectID       string // firebase project id
	CredentialsFile string // path to a service account JSON file
	CredentialsJSON []byte // inline service account JSON; wins over CredentialsFile
	Icon            string // web-push icon URL
	Badge           string // web-push badge URL
}

type sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// Client sends push notifications through FCM.
type Client struct {
	sender   sender
	rejected func(error) bool
	icon     string
	badge    string
}

// NewClient initialises a firebase app from the service account credentials
// and returns a messaging client bound to it.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	var clientOpts []option.ClientOption
	switch {
	case len(opts.CredentialsJSON) > 0:
		clientOpts = append(clientOpts, option.WithCredentialsJSON(opts.CredentialsJSON))
	case opts.CredentialsFile != "":
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: opts.ProjectID}, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	mc, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init messaging client: %w", err)
	}

	return newClient(mc, opts), nil
}

func newClient(s sender, opts Options) *Client {
	return &Client{
		sender:   s,
		rejected: tokenRejected,
		icon:     opts.Icon,
		badge:    opts.Badge,
	}
}

// Send delivers msg and returns the provider's message id.
func (c *Client) Send(ctx context.Context, msg Message) (string, error) {
	if msg.Token == "" {
		return "", ErrEmptyToken
	}

	id, err := c.sender.Send(ctx, c.build(msg))
	if err != nil {
		if c.rejected(err) {
			return "", fmt.Errorf("%w: %w", ErrTokenRejected, err)
		}

		return "", fmt.Errorf("fcm send: %w", err)
	}

	return id, nil
}

func tokenRejected(err error) bool {
	return messaging.IsRegistrationTokenNotRegistered(err) ||
		messaging.IsInvalidArgument(err) ||
		messaging.IsSenderIDMismatch(err)
}

func (c *Client) build(msg Message) *messaging.Message {
	return &messaging.Message{
		Token: msg.Token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Webpush: &messaging.WebpushConfig{
			Headers: map[string]string{"Urgency": "high"},
			Notification: &messaging.WebpushNotification{
				Title: msg.Title,
				Body:  msg.Body,
				Icon:  c.icon,
				Badge: c.badge,
			},
		},
	}
}
