package driver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"feed-refresher/domain"

	"github.com/redis/go-redis/v9"
)

// Stream message fields
const (
	FieldJobID      = "job_id"
	FieldJobName    = "job_name"
	FieldPayload    = "payload"
	FieldEnqueuedAt = "enqueued_at"
	FieldMetadata   = "metadata"
)

// StreamConfig names the Redis keys of the job queue.
type StreamConfig struct {
	HighPriorityStream string
	LowPriorityStream  string
	ConsumerGroup      string
	DedupPrefix        string
	DedupTTL           time.Duration
}

// JobMessage is a job as stored on a stream.
type JobMessage struct {
	JobID      string
	JobName    string
	Payload    []byte
	EnqueuedAt time.Time
	// Metadata carries trace propagation headers.
	Metadata map[string]string
}

// Delivery is a message read from a stream by a consumer.
type Delivery struct {
	Stream    string
	MessageID string
	Message   JobMessage
}

// JobQueueDriver stores jobs on two Redis Streams split by priority and keeps
// a dedup marker per outstanding job id.
type JobQueueDriver struct {
	client *redis.Client
	config StreamConfig
	now    func() time.Time
}

func NewJobQueueDriver(client *redis.Client, config StreamConfig) *JobQueueDriver {
	return &JobQueueDriver{client: client, config: config, now: time.Now}
}

// Streams returns the stream keys in read order, high priority first.
func (d *JobQueueDriver) Streams() []string {
	return []string{d.config.HighPriorityStream, d.config.LowPriorityStream}
}

// ConsumerGroup returns the group every worker reads with.
func (d *JobQueueDriver) ConsumerGroup() string {
	return d.config.ConsumerGroup
}

// StreamFor maps a priority to its stream key. Unknown priorities use the low
// priority stream.
func (d *JobQueueDriver) StreamFor(priority domain.JobPriority) string {
	if priority == domain.JobPriorityHigh {
		return d.config.HighPriorityStream
	}
	return d.config.LowPriorityStream
}

// EnsureGroups creates the consumer group on both streams.
func (d *JobQueueDriver) EnsureGroups(ctx context.Context) error {
	for _, stream := range d.Streams() {
		if err := EnsureConsumerGroup(ctx, d.client, stream, d.config.ConsumerGroup); err != nil {
			return err
		}
	}
	return nil
}

// Add appends msg to the stream of priority. When dedupID is set and its
// marker still exists, nothing is added and false is returned.
func (d *JobQueueDriver) Add(ctx context.Context, msg JobMessage, dedupID string, priority domain.JobPriority) (bool, error) {
	if msg.EnqueuedAt.IsZero() {
		msg.EnqueuedAt = d.now()
	}

	dedupKey := ""
	if dedupID != "" {
		dedupKey = domain.JobDedupKey(d.config.DedupPrefix, dedupID)
		ok, err := d.client.SetNX(ctx, dedupKey, strconv.FormatInt(msg.EnqueuedAt.UnixMilli(), 10), d.config.DedupTTL).Result()
		if err != nil {
			return false, fmt.Errorf("set dedup marker: %w", err)
		}
		if !ok {
			return false, nil
		}
	}

	values, err := messageValues(msg)
	if err != nil {
		d.releaseDedup(ctx, dedupKey)
		return false, err
	}

	err = d.client.XAdd(ctx, &redis.XAddArgs{
		Stream: d.StreamFor(priority),
		Values: values,
	}).Err()
	if err != nil {
		d.releaseDedup(ctx, dedupKey)
		return false, fmt.Errorf("add job to stream: %w", err)
	}

	return true, nil
}

// Ack acknowledges a message and releases the dedup marker of its job in one
// MULTI/EXEC.
func (d *JobQueueDriver) Ack(ctx context.Context, stream, messageID, jobID string) error {
	_, err := d.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.XAck(ctx, stream, d.config.ConsumerGroup, messageID)
		if jobID != "" {
			pipe.Del(ctx, domain.JobDedupKey(d.config.DedupPrefix, jobID))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("ack message %s: %w", messageID, err)
	}
	return nil
}

// Read returns new messages for consumer. The high priority stream is polled
// first without blocking; only when it is empty does the read block on both
// streams for up to block.
func (d *JobQueueDriver) Read(ctx context.Context, consumer string, count int64, block time.Duration) ([]Delivery, error) {
	deliveries, err := d.readGroup(ctx, consumer, []string{d.config.HighPriorityStream}, count, -1)
	if err != nil || len(deliveries) > 0 {
		return deliveries, err
	}
	return d.readGroup(ctx, consumer, d.Streams(), count, block)
}

func (d *JobQueueDriver) readGroup(ctx context.Context, consumer string, streams []string, count int64, block time.Duration) ([]Delivery, error) {
	args := make([]string, 0, len(streams)*2)
	args = append(args, streams...)
	for range streams {
		args = append(args, ">")
	}

	res, err := d.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    d.config.ConsumerGroup,
		Consumer: consumer,
		Streams:  args,
		Count:    count,
		Block:    block,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read group: %w", err)
	}

	var deliveries []Delivery
	for _, stream := range res {
		for _, message := range stream.Messages {
			deliveries = append(deliveries, Delivery{Stream: stream.Stream, MessageID: message.ID, Message: ParseMessage(message)})
		}
	}
	return deliveries, nil
}

// Claim transfers messages pending longer than minIdle to consumer, high
// priority stream first.
func (d *JobQueueDriver) Claim(ctx context.Context, consumer string, minIdle time.Duration, count int64) ([]Delivery, error) {
	var deliveries []Delivery
	for _, stream := range d.Streams() {
		messages, _, err := d.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   stream,
			Group:    d.config.ConsumerGroup,
			Consumer: consumer,
			MinIdle:  minIdle,
			Start:    "0-0",
			Count:    count,
		}).Result()
		if err != nil {
			return deliveries, fmt.Errorf("autoclaim %s: %w", stream, err)
		}
		for _, message := range messages {
			deliveries = append(deliveries, Delivery{Stream: stream, MessageID: message.ID, Message: ParseMessage(message)})
		}
	}
	return deliveries, nil
}

// ParseMessage converts a stream entry to a JobMessage.
func ParseMessage(message redis.XMessage) JobMessage {
	msg := JobMessage{Metadata: make(map[string]string)}

	if v, ok := message.Values[FieldJobID].(string); ok {
		msg.JobID = v
	}
	if v, ok := message.Values[FieldJobName].(string); ok {
		msg.JobName = v
	}
	if v, ok := message.Values[FieldPayload].(string); ok {
		msg.Payload = []byte(v)
	}
	if v, ok := message.Values[FieldEnqueuedAt].(string); ok {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
			msg.EnqueuedAt = time.UnixMilli(ms)
		}
	}
	if v, ok := message.Values[FieldMetadata].(string); ok {
		_ = json.Unmarshal([]byte(v), &msg.Metadata)
	}

	return msg
}

func messageValues(msg JobMessage) (map[string]any, error) {
	values := map[string]any{
		FieldJobID:      msg.JobID,
		FieldJobName:    msg.JobName,
		FieldPayload:    string(msg.Payload),
		FieldEnqueuedAt: strconv.FormatInt(msg.EnqueuedAt.UnixMilli(), 10),
	}
	if len(msg.Metadata) > 0 {
		metadata, err := json.Marshal(msg.Metadata)
		if err != nil {
			return nil, fmt.Errorf("marshal job metadata: %w", err)
		}
		values[FieldMetadata] = string(metadata)
	}
	return values, nil
}

func (d *JobQueueDriver) releaseDedup(ctx context.Context, dedupKey string) {
	if dedupKey == "" {
		return
	}
	_ = d.client.Del(ctx, dedupKey).Err()
}
