package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swaggyashwin/pathfinder/internal/model"
)

func TestSubjects(t *testing.T) {
	assert.Equal(t, "pf.acme.s1.turn.user", TurnSubject("acme", "s1", model.RoleUser))
	assert.Equal(t, "pf.acme.s1.roadmap.ux_designer", RoadmapSubject("acme", "s1", "ux_designer"))
	assert.Equal(t, "pf.acme.s1.event.reset", EventSubject("acme", "s1", model.EventTypeReset))
	assert.Equal(t, "pf.acme.s1.turn.>", TurnFilter("acme", "s1"))
}

func TestSubjects_SanitiseTokens(t *testing.T) {
	assert.Equal(t, "pf.a_b.s_1.turn.assistant", TurnSubject("a.b", "s 1", model.RoleAssistant))
	assert.Equal(t, "pf._.s1.event.created", EventSubject("", "s1", model.EventTypeCreated))
	assert.Equal(t, "pf.t.__.turn.>", TurnFilter("t", "*>"))
}

func TestTurnConsumer(t *testing.T) {
	tests := []struct {
		name     string
		after    uint64
		policy   jetstream.DeliverPolicy
		startSeq uint64
	}{
		{name: "from the start", after: 0, policy: jetstream.DeliverAllPolicy, startSeq: 0},
		{name: "after a cursor", after: 7, policy: jetstream.DeliverByStartSequencePolicy, startSeq: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := turnConsumer("acme", "s1", tt.after)
			assert.Equal(t, "pf.acme.s1.turn.>", cfg.FilterSubject)
			assert.Equal(t, jetstream.AckNonePolicy, cfg.AckPolicy)
			assert.Equal(t, tt.policy, cfg.DeliverPolicy)
			assert.Equal(t, tt.startSeq, cfg.OptStartSeq)
		})
	}
}

// memJetStream keeps published messages in memory and serves them to
// ephemeral consumers. Methods the journal does not call are left to the
// embedded nil interface.
type memJetStream struct {
	jetstream.JetStream

	mu         sync.Mutex
	msgs       []*memMsg
	consumers  []jetstream.ConsumerConfig
	deleted    []string
	streams    []jetstream.StreamConfig
	publishErr error
}

func (m *memJetStream) Publish(_ context.Context, subject string, data []byte, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.publishErr != nil {
		return nil, m.publishErr
	}
	seq := uint64(len(m.msgs) + 1)
	m.msgs = append(m.msgs, &memMsg{subject: subject, data: data, seq: seq})
	return &jetstream.PubAck{Stream: StreamName, Sequence: seq}, nil
}

func (m *memJetStream) CreateConsumer(_ context.Context, stream string, cfg jetstream.ConsumerConfig) (jetstream.Consumer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if stream != StreamName {
		return nil, jetstream.ErrStreamNotFound
	}
	m.consumers = append(m.consumers, cfg)

	prefix := strings.TrimSuffix(cfg.FilterSubject, ">")
	var matched []*memMsg
	for _, msg := range m.msgs {
		if !strings.HasPrefix(msg.subject, prefix) {
			continue
		}
		if cfg.DeliverPolicy == jetstream.DeliverByStartSequencePolicy && msg.seq < cfg.OptStartSeq {
			continue
		}
		matched = append(matched, msg)
	}
	return &memConsumer{name: fmt.Sprintf("c%d", len(m.consumers)), msgs: matched}, nil
}

func (m *memJetStream) DeleteConsumer(_ context.Context, _ string, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, name)
	return nil
}

func (m *memJetStream) Stream(_ context.Context, name string) (jetstream.Stream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.streams {
		if s.Name == name {
			return nil, nil
		}
	}
	return nil, jetstream.ErrStreamNotFound
}

func (m *memJetStream) CreateStream(_ context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streams = append(m.streams, cfg)
	return nil, nil
}

// raw appends a message as-is, bypassing the journal's encoding.
func (m *memJetStream) raw(subject string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, &memMsg{subject: subject, data: data, seq: uint64(len(m.msgs) + 1)})
}

type memConsumer struct {
	jetstream.Consumer
	name string
	msgs []*memMsg
}

func (c *memConsumer) Fetch(batch int, _ ...jetstream.FetchOpt) (jetstream.MessageBatch, error) {
	n := min(batch, len(c.msgs))
	ch := make(chan jetstream.Msg, n)
	for _, msg := range c.msgs[:n] {
		ch <- msg
	}
	close(ch)
	return &memBatch{msgs: ch}, nil
}

func (c *memConsumer) CachedInfo() *jetstream.ConsumerInfo {
	return &jetstream.ConsumerInfo{Name: c.name}
}

type memBatch struct {
	msgs chan jetstream.Msg
}

func (b *memBatch) Messages() <-chan jetstream.Msg { return b.msgs }

func (b *memBatch) Error() error { return nil }

type memMsg struct {
	jetstream.Msg
	subject string
	data    []byte
	seq     uint64
}

func (m *memMsg) Subject() string { return m.subject }

func (m *memMsg) Data() []byte { return m.data }

func (m *memMsg) Metadata() (*jetstream.MsgMetadata, error) {
	return &jetstream.MsgMetadata{Sequence: jetstream.SequencePair{Stream: m.seq}}, nil
}

func newMemJournal() (*Journal, *memJetStream) {
	js := &memJetStream{}
	return NewJournal(&Client{js: js}), js
}

func publishTurns(t *testing.T, j *Journal, tenantID, sessionID string, contents ...string) {
	t.Helper()
	for i, c := range contents {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		_, err := j.PublishTurn(context.Background(), &model.JournalTurn{
			SessionID:  sessionID,
			TenantID:   tenantID,
			Turn:       model.Turn{Role: role, Content: c, Sequence: uint64(i + 1)},
			RecordedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}
}

func TestJournal_PublishRoutesBySubject(t *testing.T) {
	j, js := newMemJournal()
	ctx := context.Background()

	seq, err := j.PublishTurn(ctx, &model.JournalTurn{SessionID: "s1", TenantID: "acme", Turn: model.Turn{Role: model.RoleUser, Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), seq)

	seq, err = j.PublishRoadmap(ctx, &model.JournalRoadmap{SessionID: "s1", TenantID: "acme", Entry: model.ArchivedRoadmap{Category: "ux_designer"}})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), seq)

	_, err = j.PublishEvent(ctx, &model.SessionEvent{SessionID: "s1", TenantID: "acme", Type: model.EventTypeReset})
	require.NoError(t, err)

	require.Len(t, js.msgs, 3)
	assert.Equal(t, "pf.acme.s1.turn.user", js.msgs[0].subject)
	assert.Equal(t, "pf.acme.s1.roadmap.ux_designer", js.msgs[1].subject)
	assert.Equal(t, "pf.acme.s1.event.reset", js.msgs[2].subject)

	var jt model.JournalTurn
	require.NoError(t, json.Unmarshal(js.msgs[0].data, &jt))
	assert.Equal(t, "hi", jt.Turn.Content)
}

func TestJournal_PublishError(t *testing.T) {
	j, js := newMemJournal()
	js.publishErr = errors.New("no responders")

	_, err := j.PublishEvent(context.Background(), &model.SessionEvent{SessionID: "s1", TenantID: "acme", Type: model.EventTypeCreated})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pf.acme.s1.event.created")
	assert.ErrorIs(t, err, js.publishErr)
}

func TestJournal_GetTurnsPages(t *testing.T) {
	j, js := newMemJournal()
	ctx := context.Background()

	publishTurns(t, j, "acme", "s1", "u1", "a1")
	publishTurns(t, j, "acme", "other", "x1")
	_, err := j.PublishEvent(ctx, &model.SessionEvent{SessionID: "s1", TenantID: "acme", Type: model.EventTypeReset})
	require.NoError(t, err)
	publishTurns(t, j, "acme", "s1", "u2", "a2", "u3")

	turns, last, hasMore, err := j.GetTurns(ctx, "acme", "s1", 0, 2)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "u1", turns[0].Turn.Content)
	assert.Equal(t, uint64(1), turns[0].StreamSequence)
	assert.Equal(t, uint64(2), last)
	assert.True(t, hasMore)

	turns, last, hasMore, err = j.GetTurns(ctx, "acme", "s1", last, 2)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "u2", turns[0].Turn.Content)
	assert.Equal(t, uint64(5), turns[0].StreamSequence)
	assert.Equal(t, uint64(6), last)
	assert.True(t, hasMore)

	turns, last, hasMore, err = j.GetTurns(ctx, "acme", "s1", last, 2)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "u3", turns[0].Turn.Content)
	assert.Equal(t, uint64(7), last)
	assert.False(t, hasMore)

	turns, last, hasMore, err = j.GetTurns(ctx, "acme", "s1", last, 2)
	require.NoError(t, err)
	assert.Empty(t, turns)
	assert.Equal(t, uint64(7), last, "cursor holds on an empty page")
	assert.False(t, hasMore)

	require.Len(t, js.consumers, 4)
	assert.Equal(t, uint64(8), js.consumers[3].OptStartSeq)
	assert.Len(t, js.deleted, 4, "every ephemeral consumer is removed")
}

func TestJournal_GetTurnsSkipsUndecodable(t *testing.T) {
	j, js := newMemJournal()
	ctx := context.Background()

	publishTurns(t, j, "acme", "s1", "u1")
	js.raw("pf.acme.s1.turn.user", []byte("{not json"))

	turns, last, hasMore, err := j.GetTurns(ctx, "acme", "s1", 0, 2)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "u1", turns[0].Turn.Content)
	assert.Equal(t, uint64(2), last)
	assert.True(t, hasMore, "a full page was read")
}

func TestJournal_EnsureStream(t *testing.T) {
	j, js := newMemJournal()
	ctx := context.Background()

	require.NoError(t, j.EnsureStream(ctx))
	require.Len(t, js.streams, 1)
	assert.Equal(t, StreamName, js.streams[0].Name)
	assert.Equal(t, []string{"pf.>"}, js.streams[0].Subjects)

	require.NoError(t, j.EnsureStream(ctx))
	assert.Len(t, js.streams, 1, "existing stream is reused")
}
