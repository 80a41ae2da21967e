// Package redis mirrors finished runs into Redis sorted sets so several
// blockfall servers can share one leaderboard.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vovakirdan/blockfall/internal/storage"
)

// ErrNotFound is returned when a player has no entry on a board.
var ErrNotFound = errors.New("redis: no leaderboard entry")

// AnonymousPlayer is recorded for runs without a player name.
const AnonymousPlayer = "local"

// Entry is one leaderboard position.
type Entry struct {
	Rank   int // 1-based
	Player string
	Score  int
	Time   time.Duration // set on time boards only
}

// Leaderboard keeps each player's best score and best completion time per game.
type Leaderboard struct {
	client *redis.Client
	cfg    Config
}

// New connects to Redis and verifies the connection.
func New(cfg Config) (*Leaderboard, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a leaderboard with an existing client (for testing).
func NewWithClient(client *redis.Client, cfg Config) *Leaderboard {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultConfig().KeyPrefix
	}
	return &Leaderboard{client: client, cfg: cfg}
}

// Close closes the Redis connection.
func (l *Leaderboard) Close() error {
	return l.client.Close()
}

func playerName(p string) string {
	if p == "" {
		return AnonymousPlayer
	}
	return p
}

// Submit records score for player if it beats their current best.
// It reports whether the board changed.
func (l *Leaderboard) Submit(ctx context.Context, gameID, player string, score int) (bool, error) {
	n, err := l.client.ZAddArgs(ctx, l.scoresKey(gameID), redis.ZAddArgs{
		GT:      true,
		Ch:      true,
		Members: []redis.Z{{Score: float64(score), Member: playerName(player)}},
	}).Result()
	if err != nil {
		return false, fmt.Errorf("redis: submit score: %w", err)
	}
	return n > 0, nil
}

// SubmitTime records a completion time for player if it beats their best.
// Times are stored with millisecond precision.
func (l *Leaderboard) SubmitTime(ctx context.Context, gameID, player string, d time.Duration) (bool, error) {
	if d <= 0 {
		return false, nil
	}
	n, err := l.client.ZAddArgs(ctx, l.timesKey(gameID), redis.ZAddArgs{
		LT:      true,
		Ch:      true,
		Members: []redis.Z{{Score: float64(d.Milliseconds()), Member: playerName(player)}},
	}).Result()
	if err != nil {
		return false, fmt.Errorf("redis: submit time: %w", err)
	}
	return n > 0, nil
}

// Record mirrors a stored run: its score always, its duration when the run
// reached its goal.
func (l *Leaderboard) Record(ctx context.Context, r storage.Run) error {
	if _, err := l.Submit(ctx, r.GameID, r.Player, r.Score); err != nil {
		return err
	}
	if r.Won {
		if _, err := l.SubmitTime(ctx, r.GameID, r.Player, r.Duration); err != nil {
			return err
		}
	}
	return nil
}

// Top returns the n best scores for a game, highest first.
func (l *Leaderboard) Top(ctx context.Context, gameID string, n int) ([]Entry, error) {
	if n <= 0 {
		n = 10
	}
	zs, err := l.client.ZRevRangeWithScores(ctx, l.scoresKey(gameID), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: top scores: %w", err)
	}
	entries := make([]Entry, 0, len(zs))
	for i, z := range zs {
		entries = append(entries, Entry{Rank: i + 1, Player: fmt.Sprint(z.Member), Score: int(z.Score)})
	}
	return entries, nil
}

// Fastest returns the n best completion times for a game, quickest first.
func (l *Leaderboard) Fastest(ctx context.Context, gameID string, n int) ([]Entry, error) {
	if n <= 0 {
		n = 10
	}
	zs, err := l.client.ZRangeWithScores(ctx, l.timesKey(gameID), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: fastest times: %w", err)
	}
	entries := make([]Entry, 0, len(zs))
	for i, z := range zs {
		entries = append(entries, Entry{
			Rank:   i + 1,
			Player: fmt.Sprint(z.Member),
			Time:   time.Duration(z.Score) * time.Millisecond,
		})
	}
	return entries, nil
}

// Rank returns a player's position and best score on a game's score board.
func (l *Leaderboard) Rank(ctx context.Context, gameID, player string) (Entry, error) {
	key, member := l.scoresKey(gameID), playerName(player)

	pipe := l.client.Pipeline()
	rank := pipe.ZRevRank(ctx, key, member)
	score := pipe.ZScore(ctx, key, member)
	if _, err := pipe.Exec(ctx); err != nil {
		if errors.Is(err, redis.Nil) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, fmt.Errorf("redis: rank: %w", err)
	}
	return Entry{
		Rank:   int(rank.Val()) + 1,
		Player: member,
		Score:  int(score.Val()),
	}, nil
}

// Reset removes both boards of a game.
func (l *Leaderboard) Reset(ctx context.Context, gameID string) error {
	if err := l.client.Del(ctx, l.scoresKey(gameID), l.timesKey(gameID)).Err(); err != nil {
		return fmt.Errorf("redis: reset: %w", err)
	}
	return nil
}
