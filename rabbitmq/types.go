// SPDX-License-Identifier: GPL-3.0-only

package rabbitmq

import (
	"net/http"
	"net/url"

	amqp "github.com/rabbitmq/amqp091-go"
)

type RabbitMQConfig struct {
	baseURL  string
	amqpURL  string
	username string
	password string
}

type Client struct {
	BaseURL     *url.URL
	AMQPURL     string
	Username    string
	Password    string
	HTTPClient  *http.Client
	AMQPConn    *amqp.Connection
	AMQPChannel *amqp.Channel
}

// EmailJob is the payload published per recipient to an organization's
// dispatch exchange. Consumers (cmd/dispatchercli) deliver the actual email.
type EmailJob struct {
	EID        string `json:"eid"`
	CampaignID string `json:"campaign_id"`
	Recipient  string `json:"recipient"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	CreatedAt  string `json:"created_at"`
}
