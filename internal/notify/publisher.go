// Package notify is the post-commit side channel that feeds open dashboards.
// Publishing happens after the admission transaction commits, never inside
// it, and a delivery failure is logged and forgotten.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Event struct {
	Action        string `json:"action"`
	BusinessID    uint   `json:"business_id"`
	AppointmentID uint   `json:"appointment_id"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	Status        string `json:"status"`
}

type Publisher struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewPublisher is nil-safe: with a nil client Publish is a no-op.
func NewPublisher(client *redis.Client, log zerolog.Logger) *Publisher {
	return &Publisher{client: client, log: log}
}

func (p *Publisher) Publish(ev Event) {
	if p == nil || p.client == nil {
		return
	}

	go func() {
		data, err := json.Marshal(ev)
		if err != nil {
			return
		}
		channel := fmt.Sprintf("bookline:events:%d", ev.BusinessID)
		if err := p.client.Publish(context.Background(), channel, data).Err(); err != nil {
			p.log.Warn().Err(err).Str("channel", channel).Msg("event publish failed")
		}
	}()
}
