package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/8gymsport-prog/penjualan/internal/models"
)

// ErrMiss is returned when a key is not cached.
var ErrMiss = errors.New("cache miss")

type Options struct {
	Addr     string
	Password string
	DB       int
}

type Client struct {
	rdb *redis.Client
}

func NewClient(opts Options) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return &Client{rdb: rdb}, nil
}

// IsRateLimited counts a request from key and reports whether more than
// limit requests arrived within window. Redis failures never block traffic.
func (c *Client) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) bool {
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	pipe := c.rdb.Pipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, window)
	_, err := pipe.Exec(ctx)

	if err != nil {
		return false
	}

	return incr.Val() > int64(limit)
}

func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return data, err
}

func (c *Client) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, data, ttl).Err()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// SummaryCache stores sales summaries per user and range. Each user has a
// generation counter that is part of every key, so bumping it drops all of
// the user's cached summaries at once. Callers resolve the key once with Key
// before reading storage and write back under that key, so a summary computed
// before an invalidation lands under the old generation and is never read.
type SummaryCache struct {
	client *Client
	ttl    time.Duration
}

func NewSummaryCache(client *Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl}
}

func generationKey(userID string) string {
	return fmt.Sprintf("summary:%s:gen", userID)
}

// Key returns the cache key for the user's current generation.
func (s *SummaryCache) Key(ctx context.Context, userID string, rng models.DateRange) (string, error) {
	gen, err := s.client.rdb.Get(ctx, generationKey(userID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("summary:%s:%d:%d:%d", userID, gen, rng.From.Unix(), rng.To.Unix()), nil
}

func (s *SummaryCache) Get(ctx context.Context, key string) (*models.SalesSummary, error) {
	data, err := s.client.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var summary models.SalesSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("decode cached summary: %w", err)
	}
	return &summary, nil
}

func (s *SummaryCache) Set(ctx context.Context, key string, summary *models.SalesSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, s.ttl)
}

func (s *SummaryCache) Invalidate(ctx context.Context, userID string) error {
	return s.client.rdb.Incr(ctx, generationKey(userID)).Err()
}

// Publish sends payload to every subscriber of channel.
func (c *Client) Publish(ctx context.Context, channel string, payload []byte) error {
	return c.rdb.Publish(ctx, channel, payload).Err()
}

// Subscribe calls handle for every message on channel until ctx is done.
func (c *Client) Subscribe(ctx context.Context, channel string, handle func([]byte)) error {
	sub := c.rdb.Subscribe(ctx, channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			handle([]byte(msg.Payload))
		}
	}
}
