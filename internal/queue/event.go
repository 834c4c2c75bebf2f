// Package queue defines message payloads exchanged over the message broker.
package queue

// EmailQueueName is the durable queue carrying outbound email requests.
const EmailQueueName = "email.requested"

// EmailRequestedEvent is published whenever a flow wants an email sent.
// It carries only what a template needs; the identity core never sees
// template content or the provider response.
type EmailRequestedEvent struct {
    Kind        string            `json:"kind"` // welcome | verify_email | reset_password
    Recipient   string            `json:"recipient"`
    Variables   map[string]string `json:"variables,omitempty"`
    RequestedAt string            `json:"requested_at"`
}
