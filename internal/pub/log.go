package pub

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// LogPublisher writes events to the log instead of a broker.
type LogPublisher struct{}

func NewLog() *LogPublisher { return &LogPublisher{} }

func (LogPublisher) PublishRaw(_ context.Context, topic string, payload []byte) error {
	log.WithFields(log.Fields{
		"topic":   topic,
		"payload": string(payload),
	}).Debug("event published")
	return nil
}
