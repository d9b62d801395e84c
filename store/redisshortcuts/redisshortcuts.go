// Package redisshortcuts implements the omnibox ShortcutStore on Redis.
// Triggers live in a sorted set used as a lexicographic prefix index and
// the shortcut records themselves are msgpack-encoded values in a hash,
// so a Search is one pipelined range scan plus one bulk fetch.
package redisshortcuts

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/remiges/omnibox/store"
)

const (
	// triggerSet is the sorted set holding "trigger\x00destination"
	// members at score 0, queried with ZRANGEBYLEX.
	triggerSet = "ob:shortcut:triggers"

	// entryHash maps the same member strings to msgpack-encoded records.
	entryHash = "ob:shortcut:entries"

	// memberSep joins trigger and destination in a member string.
	memberSep = "\x00"

	// lexMax is the upper-bound sentinel for prefix ranges.
	lexMax = "\xff"
)

// record is the persisted shape of a shortcut.
type record struct {
	Trigger          string    `msgpack:"trigger"`
	DestinationURL   string    `msgpack:"dest_url"`
	DestinationTitle string    `msgpack:"dest_title"`
	MatchType        string    `msgpack:"match_type"`
	HitCount         int       `msgpack:"hits"`
	LastUsed         time.Time `msgpack:"last_used"`
}

// Store implements store.ShortcutStore on Redis. Safe for concurrent
// use.
type Store struct {
	client *redis.Client
	now    func() time.Time
}

// Config holds Redis connection parameters.
type Config struct {
	// Addr is the Redis server address in the format "host:port".
	Addr string

	// Password is the Redis password (empty for none).
	Password string

	// DB is the Redis database number.
	DB int
}

// New connects to Redis and verifies connectivity with a PING.
func New(config Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &Store{client: client, now: time.Now}, nil
}

// NewWithClient wraps an existing client, used by tests.
func NewWithClient(client *redis.Client) *Store {
	return &Store{client: client, now: time.Now}
}

// SetClock overrides the clock stamping recorded usages. Test hook.
func (s *Store) SetClock(now func() time.Time) { s.now = now }

// Search returns shortcuts whose trigger starts with the input text, or
// is a proper prefix of it, most used first.
func (s *Store) Search(ctx context.Context, inputText string, limit int) ([]store.Shortcut, error) {
	q := strings.ToLower(strings.TrimSpace(inputText))
	if q == "" {
		return nil, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringSliceCmd, 0, len(q))
	// Triggers extending the input: one range over [q, q\xff].
	cmds = append(cmds, pipe.ZRangeByLex(ctx, triggerSet, &redis.ZRangeBy{
		Min: "[" + q,
		Max: "[" + q + lexMax,
	}))
	// Triggers that are proper prefixes of the input: one narrow range
	// per prefix, members being "prefix\x00destination".
	for i := 1; i < len(q); i++ {
		p := q[:i]
		cmds = append(cmds, pipe.ZRangeByLex(ctx, triggerSet, &redis.ZRangeBy{
			Min: "[" + p + memberSep,
			Max: "[" + p + memberSep + lexMax,
		}))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("shortcut range scan: %w", err)
	}

	seen := make(map[string]struct{})
	var members []string
	for _, cmd := range cmds {
		for _, m := range cmd.Val() {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			members = append(members, m)
		}
	}
	if len(members) == 0 {
		return nil, nil
	}

	values, err := s.client.HMGet(ctx, entryHash, members...).Result()
	if err != nil {
		return nil, fmt.Errorf("shortcut fetch: %w", err)
	}

	var out []store.Shortcut
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var rec record
		if err := msgpack.Unmarshal([]byte(raw), &rec); err != nil {
			continue
		}
		out = append(out, store.Shortcut{
			Trigger:          rec.Trigger,
			DestinationURL:   rec.DestinationURL,
			DestinationTitle: rec.DestinationTitle,
			MatchType:        rec.MatchType,
			HitCount:         rec.HitCount,
			LastUsed:         rec.LastUsed,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].HitCount != out[j].HitCount {
			return out[i].HitCount > out[j].HitCount
		}
		return out[i].LastUsed.After(out[j].LastUsed)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// RecordUsage upserts the trigger/destination pair and increments its
// hit count.
func (s *Store) RecordUsage(ctx context.Context, inputText, destinationURL, destinationTitle, matchType string) error {
	trig := strings.ToLower(strings.TrimSpace(inputText))
	if trig == "" || destinationURL == "" {
		return nil
	}
	member := trig + memberSep + destinationURL

	rec := record{
		Trigger:        trig,
		DestinationURL: destinationURL,
		MatchType:      matchType,
	}
	if raw, err := s.client.HGet(ctx, entryHash, member).Result(); err == nil {
		_ = msgpack.Unmarshal([]byte(raw), &rec)
	}
	rec.HitCount++
	rec.LastUsed = s.now()
	rec.DestinationTitle = destinationTitle
	rec.MatchType = matchType

	encoded, err := msgpack.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("shortcut encode: %w", err)
	}
	pipe := s.client.TxPipeline()
	pipe.ZAdd(ctx, triggerSet, &redis.Z{Score: 0, Member: member})
	pipe.HSet(ctx, entryHash, member, encoded)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("shortcut record: %w", err)
	}
	return nil
}

// Close releases the Redis client. Safe to call multiple times.
func (s *Store) Close() error {
	return s.client.Close()
}
