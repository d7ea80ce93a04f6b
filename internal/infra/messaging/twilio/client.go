// Package twilio sends WhatsApp messages through the Twilio REST API.
package twilio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

const whatsappPrefix = "whatsapp:"

// MessageAPI is the slice of the Twilio SDK used here.
type MessageAPI interface {
	CreateMessage(params *twilioapi.CreateMessageParams) (*twilioapi.ApiV2010Message, error)
}

// Client sends one WhatsApp message per call from a fixed sender.
type Client struct {
	api  MessageAPI
	from string
}

// NewClient builds a client authenticated with an account SID and auth token.
func NewClient(accountSID, authToken, from string) (*Client, error) {
	if strings.TrimSpace(accountSID) == "" || strings.TrimSpace(authToken) == "" {
		return nil, errors.New("twilio credentials cannot be empty")
	}
	rest := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return NewClientWithAPI(rest.Api, from), nil
}

// NewClientWithAPI wraps an existing message API, mainly for tests.
func NewClientWithAPI(api MessageAPI, from string) *Client {
	return &Client{api: api, from: WhatsAppAddress(from)}
}

// Send delivers body to the recipient and returns the message SID. The SDK
// takes no context; its own HTTP timeout bounds the call.
func (c *Client) Send(_ context.Context, recipient, body string) (string, error) {
	params := &twilioapi.CreateMessageParams{}
	params.SetFrom(c.from)
	params.SetTo(WhatsAppAddress(recipient))
	params.SetBody(body)

	msg, err := c.api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("create message: %w", err)
	}
	if msg == nil || msg.Sid == nil {
		return "", nil
	}
	return *msg.Sid, nil
}

// WhatsAppAddress adds the whatsapp: channel prefix unless it is already present.
func WhatsAppAddress(number string) string {
	number = strings.TrimSpace(number)
	if strings.HasPrefix(strings.ToLower(number), whatsappPrefix) {
		return number
	}
	return whatsappPrefix + number
}
