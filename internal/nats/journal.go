package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/swaggyashwin/pathfinder/internal/model"
)

const (
	// StreamName is the name of the session journal stream.
	StreamName = "PATHFINDER"

	// SubjectPrefix is the prefix for all journal subjects.
	SubjectPrefix = "pf"
)

// Journal appends session activity to JetStream and replays it.
type Journal struct {
	client *Client
}

// NewJournal creates a journal on top of a connected client.
func NewJournal(client *Client) *Journal {
	return &Journal{client: client}
}

// EnsureStream ensures the journal stream exists with proper configuration.
func (j *Journal) EnsureStream(ctx context.Context) error {
	js := j.client.JetStream()

	if _, err := js.Stream(ctx, StreamName); err == nil {
		return nil
	} else if !errors.Is(err, jetstream.ErrStreamNotFound) {
		return fmt.Errorf("failed to look up stream: %w", err)
	}

	_, err := js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{SubjectPrefix + ".>"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      90 * 24 * time.Hour,
		MaxBytes:    10 * 1024 * 1024 * 1024,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Compression: jetstream.S2Compression,
		DenyDelete:  true,
		DenyPurge:   true,
		Description: "Career roadmap session turns, roadmaps and lifecycle events",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// Ready reports whether the underlying connection is up.
func (j *Journal) Ready() bool {
	return j.client.IsConnected()
}

// token makes s safe to use as a single subject token.
func token(s string) string {
	if s == "" {
		return "_"
	}
	return strings.NewReplacer(".", "_", "*", "_", ">", "_", " ", "_").Replace(s)
}

// TurnSubject returns the subject for a turn.
func TurnSubject(tenantID, sessionID string, role model.Role) string {
	return fmt.Sprintf("%s.%s.%s.turn.%s", SubjectPrefix, token(tenantID), token(sessionID), role)
}

// RoadmapSubject returns the subject for a generated roadmap.
func RoadmapSubject(tenantID, sessionID, category string) string {
	return fmt.Sprintf("%s.%s.%s.roadmap.%s", SubjectPrefix, token(tenantID), token(sessionID), token(category))
}

// EventSubject returns the subject for a lifecycle event.
func EventSubject(tenantID, sessionID string, eventType model.EventType) string {
	return fmt.Sprintf("%s.%s.%s.event.%s", SubjectPrefix, token(tenantID), token(sessionID), eventType)
}

// TurnFilter returns the filter subject for every turn of a session.
func TurnFilter(tenantID, sessionID string) string {
	return fmt.Sprintf("%s.%s.%s.turn.>", SubjectPrefix, token(tenantID), token(sessionID))
}

func (j *Journal) publish(ctx context.Context, subject string, v any) (uint64, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal %s: %w", subject, err)
	}

	ack, err := j.client.JetStream().Publish(ctx, subject, data)
	if err != nil {
		return 0, fmt.Errorf("failed to publish %s: %w", subject, err)
	}

	return ack.Sequence, nil
}

// PublishTurn journals a conversation turn.
func (j *Journal) PublishTurn(ctx context.Context, jt *model.JournalTurn) (uint64, error) {
	return j.publish(ctx, TurnSubject(jt.TenantID, jt.SessionID, jt.Turn.Role), jt)
}

// PublishRoadmap journals a generated roadmap.
func (j *Journal) PublishRoadmap(ctx context.Context, jr *model.JournalRoadmap) (uint64, error) {
	return j.publish(ctx, RoadmapSubject(jr.TenantID, jr.SessionID, jr.Entry.Category), jr)
}

// PublishEvent journals a session lifecycle event.
func (j *Journal) PublishEvent(ctx context.Context, event *model.SessionEvent) (uint64, error) {
	return j.publish(ctx, EventSubject(event.TenantID, event.SessionID, event.Type), event)
}

// turnConsumer configures an ephemeral consumer over a session's turns,
// starting after afterSequence.
func turnConsumer(tenantID, sessionID string, afterSequence uint64) jetstream.ConsumerConfig {
	cfg := jetstream.ConsumerConfig{
		FilterSubject: TurnFilter(tenantID, sessionID),
		AckPolicy:     jetstream.AckNonePolicy,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	}
	if afterSequence > 0 {
		cfg.DeliverPolicy = jetstream.DeliverByStartSequencePolicy
		cfg.OptStartSeq = afterSequence + 1
	}
	return cfg
}

// GetTurns replays journaled turns of a session, including turns from before
// any reset, starting after afterSequence. The returned sequence is the cursor
// for the next page; it stays at afterSequence when nothing was read.
// Undecodable messages are skipped but still advance the cursor.
func (j *Journal) GetTurns(ctx context.Context, tenantID, sessionID string, afterSequence uint64, limit int) ([]model.JournalTurn, uint64, bool, error) {
	consumer, err := j.client.JetStream().CreateConsumer(ctx, StreamName, turnConsumer(tenantID, sessionID, afterSequence))
	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to create consumer: %w", err)
	}
	defer func() {
		_ = j.client.JetStream().DeleteConsumer(context.WithoutCancel(ctx), StreamName, consumer.CachedInfo().Name)
	}()

	batch, err := consumer.Fetch(limit, jetstream.FetchMaxWait(2*time.Second))
	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to fetch turns: %w", err)
	}

	var turns []model.JournalTurn
	lastSequence := afterSequence
	fetched := 0

	for msg := range batch.Messages() {
		fetched++

		var seq uint64
		if meta, err := msg.Metadata(); err == nil {
			seq = meta.Sequence.Stream
			lastSequence = seq
		}

		var jt model.JournalTurn
		if err := json.Unmarshal(msg.Data(), &jt); err != nil {
			continue
		}
		jt.StreamSequence = seq
		turns = append(turns, jt)
	}

	if err := batch.Error(); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return nil, 0, false, fmt.Errorf("batch error: %w", err)
	}

	return turns, lastSequence, fetched == limit, nil
}
