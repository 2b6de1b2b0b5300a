package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/simba-tools/simbadesk/models"
)

const (
	ticketKeyPrefix = "simbadesk:ticket:"
	scrapeKeyPrefix = "simbadesk:scrape:"
	ticketIndexKey  = "simbadesk:tickets"
	scrapeIndexKey  = "simbadesk:scrapes"
	ticketSeqKey    = "simbadesk:seq:ticket"
	artSeqKey       = "simbadesk:seq:art"
)

// RedisStore persists records in Redis. Tickets and scrape snapshots are
// stored as JSON values; sorted sets keyed by creation time provide
// newest-first listing.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, addr string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func (r *RedisStore) Create(ctx context.Context, t *models.Ticket) error {
	seq, err := r.client.Incr(ctx, ticketSeqKey).Result()
	if err != nil {
		return fmt.Errorf("redis incr: %w", err)
	}
	t.SimbaID = models.FormatSimbaID(seq)

	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal ticket: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, ticketKeyPrefix+t.SimbaID, data, 0)
	pipe.ZAdd(ctx, ticketIndexKey, redis.Z{
		Score:  float64(t.CreatedTimestamp.UnixNano()),
		Member: t.SimbaID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis set ticket: %w", err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, simbaID string) (*models.Ticket, error) {
	data, err := r.client.Get(ctx, ticketKeyPrefix+simbaID).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get ticket: %w", err)
	}
	var t models.Ticket
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("unmarshal ticket: %w", err)
	}
	return &t, nil
}

func (r *RedisStore) List(ctx context.Context) ([]*models.Ticket, error) {
	ids, err := r.client.ZRevRange(ctx, ticketIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis range tickets: %w", err)
	}
	out := make([]*models.Ticket, 0, len(ids))
	for _, id := range ids {
		t, err := r.Get(ctx, id)
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *RedisStore) Update(ctx context.Context, t *models.Ticket) error {
	key := ticketKeyPrefix + t.SimbaID
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis exists: %w", err)
	}
	if exists == 0 {
		return ErrNotFound
	}
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal ticket: %w", err)
	}
	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set ticket: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, simbaID string) error {
	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, ticketKeyPrefix+simbaID)
	pipe.ZRem(ctx, ticketIndexKey, simbaID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis del ticket: %w", err)
	}
	if del.Val() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RedisStore) NextArtID(ctx context.Context) (string, error) {
	seq, err := r.client.Incr(ctx, artSeqKey).Result()
	if err != nil {
		return "", fmt.Errorf("redis incr: %w", err)
	}
	return models.FormatArtID(seq), nil
}

func (r *RedisStore) PutScrape(ctx context.Context, s *models.ScrapedTicket) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal scrape: %w", err)
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, scrapeKeyPrefix+s.OriginalTicketID, data, 0)
	pipe.ZAdd(ctx, scrapeIndexKey, redis.Z{
		Score:  float64(s.ScrapedAt.UnixNano()),
		Member: s.OriginalTicketID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis set scrape: %w", err)
	}
	return nil
}

func (r *RedisStore) GetScrape(ctx context.Context, originalTicketID string) (*models.ScrapedTicket, error) {
	data, err := r.client.Get(ctx, scrapeKeyPrefix+originalTicketID).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get scrape: %w", err)
	}
	var s models.ScrapedTicket
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal scrape: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) ListScrapes(ctx context.Context) ([]*models.ScrapedTicket, error) {
	ids, err := r.client.ZRevRange(ctx, scrapeIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis range scrapes: %w", err)
	}
	out := make([]*models.ScrapedTicket, 0, len(ids))
	for _, id := range ids {
		s, err := r.GetScrape(ctx, id)
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
