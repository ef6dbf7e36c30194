package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "brainstress:"

// RedisStore keeps data in Redis so several servers can share it.
// Stats live in one hash per quiz, profile values in plain keys.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to rawURL (redis://host:port/db) and pings it
func NewRedisStore(ctx context.Context, rawURL string) (*RedisStore, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return NewRedisStoreFromClient(client), nil
}

// NewRedisStoreFromClient wraps an existing client
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func statsKey(quizID string) string { return redisPrefix + "stats:" + quizID }
func flagKey(name string) string    { return redisPrefix + "flag:" + name }

var nicknameRedisKey = redisPrefix + "nickname"

func (r *RedisStore) IncrementWin(ctx context.Context, quizID string) error {
	if err := checkQuizID(quizID); err != nil {
		return err
	}
	if err := r.client.HIncrBy(ctx, statsKey(quizID), "wins", 1).Err(); err != nil {
		return fmt.Errorf("failed to increment wins: %w", err)
	}
	return nil
}

func (r *RedisStore) IncrementFail(ctx context.Context, quizID string) error {
	if err := checkQuizID(quizID); err != nil {
		return err
	}
	if err := r.client.HIncrBy(ctx, statsKey(quizID), "fails", 1).Err(); err != nil {
		return fmt.Errorf("failed to increment fails: %w", err)
	}
	return nil
}

func (r *RedisStore) Stats(ctx context.Context, quizID string) (Stats, error) {
	if err := checkQuizID(quizID); err != nil {
		return Stats{}, err
	}
	fields, err := r.client.HGetAll(ctx, statsKey(quizID)).Result()
	if err != nil {
		return Stats{}, fmt.Errorf("failed to read stats: %w", err)
	}

	stats := Stats{QuizID: quizID}
	if v, ok := fields["wins"]; ok {
		if stats.Wins, err = strconv.Atoi(v); err != nil {
			return Stats{}, fmt.Errorf("failed to parse wins: %w", err)
		}
	}
	if v, ok := fields["fails"]; ok {
		if stats.Fails, err = strconv.Atoi(v); err != nil {
			return Stats{}, fmt.Errorf("failed to parse fails: %w", err)
		}
	}
	return stats, nil
}

func (r *RedisStore) Nickname(ctx context.Context) (string, error) {
	value, err := r.client.Get(ctx, nicknameRedisKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read nickname: %w", err)
	}
	return value, nil
}

func (r *RedisStore) SetNickname(ctx context.Context, nickname string) error {
	if err := r.client.Set(ctx, nicknameRedisKey, nickname, 0).Err(); err != nil {
		return fmt.Errorf("failed to write nickname: %w", err)
	}
	return nil
}

func (r *RedisStore) Flag(ctx context.Context, name string) (bool, error) {
	if err := checkFlag(name); err != nil {
		return false, err
	}
	value, err := r.client.Get(ctx, flagKey(name)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read flag %s: %w", name, err)
	}
	return value == "1", nil
}

func (r *RedisStore) SetFlag(ctx context.Context, name string, value bool) error {
	if err := checkFlag(name); err != nil {
		return err
	}
	v := "0"
	if value {
		v = "1"
	}
	if err := r.client.Set(ctx, flagKey(name), v, 0).Err(); err != nil {
		return fmt.Errorf("failed to write flag %s: %w", name, err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
