package event

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"gocloud.dev/pubsub/mempubsub"
)

func TestPublisher_SyncCompleted(t *testing.T) {
	ctx := context.Background()

	topic := mempubsub.NewTopic()
	defer topic.Shutdown(ctx)
	sub := mempubsub.NewSubscription(topic, time.Second)
	defer sub.Shutdown(ctx)

	p := NewPublisher(topic)
	err := p.SyncCompleted(ctx, SyncCompleted{
		User:               "sally",
		LatestSyncRevision: 7,
		ChangeCount:        3,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	recvCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	msg, err := sub.Receive(recvCtx)
	if err != nil {
		t.Fatalf("expected a message, got %v", err)
	}
	defer msg.Ack()

	if msg.Metadata["type"] != "sync-completed" {
		t.Errorf("unexpected message type %q", msg.Metadata["type"])
	}

	var ev SyncCompleted
	if err := json.Unmarshal(msg.Body, &ev); err != nil {
		t.Fatalf("expected decodable body, got %v", err)
	}
	if ev.User != "sally" || ev.LatestSyncRevision != 7 || ev.ChangeCount != 3 {
		t.Errorf("unexpected event %+v", ev)
	}
}
