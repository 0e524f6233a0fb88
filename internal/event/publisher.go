package event

import (
	"context"
	"encoding/json"
	"fmt"

	"gocloud.dev/pubsub"
)

// SyncCompleted is published after a sync batch commits, for downstream
// consumers (indexers, audit). It is emitted outside the transaction and
// is best-effort.
type SyncCompleted struct {
	User               string `json:"user"`
	LatestSyncRevision int64  `json:"latest-sync-revision"`
	ChangeCount        int    `json:"change-count"`
}

type Publisher struct {
	topic *pubsub.Topic
}

func NewPublisher(topic *pubsub.Topic) *Publisher {
	return &Publisher{topic: topic}
}

func (p *Publisher) SyncCompleted(ctx context.Context, ev SyncCompleted) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal sync event: %w", err)
	}
	return p.topic.Send(ctx, &pubsub.Message{
		Body:     body,
		Metadata: map[string]string{"type": "sync-completed"},
	})
}
