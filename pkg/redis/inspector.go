package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nmxmxh/queuewatch/pkg/collector"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Inspector reads queue, process, and job-set state from the runtime's Redis
// schema. It implements collector.Inspector and issues only read commands.
type Inspector struct {
	client *Client
	keys   *KeyBuilder
	log    *zap.Logger
	now    func() time.Time
}

// NewInspector creates an Inspector over client, reading keys under the
// given namespace.
func NewInspector(client *Client, namespace string, log *zap.Logger) *Inspector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Inspector{
		client: client,
		keys:   NewKeyBuilder(namespace),
		log:    log.With(zap.String("module", "redis_inspector")),
		now:    time.Now,
	}
}

// queuedJob is the slice of a job payload the inspector cares about.
type queuedJob struct {
	EnqueuedAt float64 `json:"enqueued_at"` // epoch seconds
}

// processInfo is the decoded `info` field of a process hash.
type processInfo struct {
	Concurrency *int `json:"concurrency"`
}

// Queues returns a snapshot of every known queue: its pending count and the
// age of its oldest job. A queue that drains between the membership read and
// the per-queue reads is reported as empty; a present but undecodable oldest
// job is a hard error so aggregate gauges are never fed corrupt data.
func (i *Inspector) Queues(ctx context.Context) ([]collector.QueueSnapshot, error) {
	names, err := i.client.SMembers(ctx, i.keys.Queues()).Result()
	if err != nil {
		return nil, fmt.Errorf("read queue set: %w", err)
	}

	pipe := i.client.Pipeline()
	lens := make([]*redis.IntCmd, len(names))
	oldest := make([]*redis.StringCmd, len(names))
	for n, name := range names {
		key := i.keys.Queue(name)
		lens[n] = pipe.LLen(ctx, key)
		oldest[n] = pipe.LIndex(ctx, key, -1)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("read queues: %w", err)
	}

	snaps := make([]collector.QueueSnapshot, 0, len(names))
	nowSec := float64(i.now().UnixNano()) / float64(time.Second)
	for n, name := range names {
		size, err := lens[n].Result()
		if err != nil {
			return nil, fmt.Errorf("read queue %s length: %w", name, err)
		}
		snap := collector.QueueSnapshot{Name: name, Size: size}
		payload, err := oldest[n].Result()
		switch {
		case errors.Is(err, redis.Nil):
			// Drained since LLEN; report as empty.
			snap.Size = 0
			i.log.Debug("queue drained mid-poll", zap.String("queue", name))
		case err != nil:
			return nil, fmt.Errorf("read queue %s tail: %w", name, err)
		default:
			var job queuedJob
			if err := json.UnmarshalFromString(payload, &job); err != nil {
				return nil, fmt.Errorf("decode oldest job in queue %s: %w", name, err)
			}
			if job.EnqueuedAt <= 0 {
				return nil, fmt.Errorf("oldest job in queue %s is missing enqueued_at", name)
			}
			if lat := nowSec - job.EnqueuedAt; lat > 0 {
				snap.Latency = lat
			}
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

// Processes returns one snapshot per registered worker process. A process
// hash missing any of its info, busy, or quiet fields fails the whole read:
// silently zeroing a field would corrupt the fleet capacity sums.
func (i *Inspector) Processes(ctx context.Context) ([]collector.ProcessSnapshot, error) {
	identities, err := i.client.SMembers(ctx, i.keys.Processes()).Result()
	if err != nil {
		return nil, fmt.Errorf("read process set: %w", err)
	}

	pipe := i.client.Pipeline()
	cmds := make([]*redis.SliceCmd, len(identities))
	for n, identity := range identities {
		cmds[n] = pipe.HMGet(ctx, i.keys.Process(identity), "info", "busy", "quiet")
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("read processes: %w", err)
	}

	snaps := make([]collector.ProcessSnapshot, 0, len(identities))
	for n, identity := range identities {
		fields, err := cmds[n].Result()
		if err != nil {
			return nil, fmt.Errorf("read process %s: %w", identity, err)
		}
		snap, err := parseProcess(fields)
		if err != nil {
			return nil, fmt.Errorf("process %s: %w", identity, err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

// parseProcess decodes the [info, busy, quiet] hash values of one process.
func parseProcess(fields []interface{}) (collector.ProcessSnapshot, error) {
	var snap collector.ProcessSnapshot
	if len(fields) != 3 {
		return snap, fmt.Errorf("expected 3 hash fields, got %d", len(fields))
	}
	rawInfo, ok := fields[0].(string)
	if !ok {
		return snap, errors.New("missing info field")
	}
	var info processInfo
	if err := json.UnmarshalFromString(rawInfo, &info); err != nil {
		return snap, fmt.Errorf("decode info: %w", err)
	}
	if info.Concurrency == nil {
		return snap, errors.New("info is missing concurrency")
	}
	snap.Concurrency = *info.Concurrency

	rawBusy, ok := fields[1].(string)
	if !ok {
		return snap, errors.New("missing busy field")
	}
	busy, err := strconv.Atoi(rawBusy)
	if err != nil {
		return snap, fmt.Errorf("parse busy: %w", err)
	}
	snap.Busy = busy

	rawQuiet, ok := fields[2].(string)
	if !ok {
		return snap, errors.New("missing quiet field")
	}
	quiet, err := strconv.ParseBool(rawQuiet)
	if err != nil {
		return snap, fmt.Errorf("parse quiet: %w", err)
	}
	snap.Quiet = quiet
	return snap, nil
}

// Stats returns the sizes of the scheduled, retry, and dead job sets.
func (i *Inspector) Stats(ctx context.Context) (collector.RuntimeStats, error) {
	pipe := i.client.Pipeline()
	scheduled := pipe.ZCard(ctx, i.keys.Schedule())
	retry := pipe.ZCard(ctx, i.keys.Retry())
	dead := pipe.ZCard(ctx, i.keys.Dead())
	if _, err := pipe.Exec(ctx); err != nil {
		return collector.RuntimeStats{}, fmt.Errorf("read job sets: %w", err)
	}
	return collector.RuntimeStats{
		Scheduled: scheduled.Val(),
		Retry:     retry.Val(),
		Dead:      dead.Val(),
	}, nil
}
