package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"sql_arena/internal/domain/model"
	"sql_arena/internal/domain/repository"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultLeaderboardLimit = 50
	MaxLeaderboardLimit     = 200

	leaderboardKeyPattern = "leaderboard:*"
)

// LeaderboardService serves the ranking through a read-through Redis cache.
// Every cache failure degrades silently to the database; the cache is an
// optimization, never a source of truth.
type LeaderboardService struct {
	userRepo repository.UserRepository
	rdb      *redis.Client
	ttl      time.Duration
}

func NewLeaderboardService(userRepo repository.UserRepository, rdb *redis.Client, ttl time.Duration) *LeaderboardService {
	return &LeaderboardService{userRepo: userRepo, rdb: rdb, ttl: ttl}
}

func (s *LeaderboardService) GetLeaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}

	key := fmt.Sprintf("leaderboard:%d", limit)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var entries []model.LeaderboardEntry
			if err := json.Unmarshal(cached, &entries); err == nil {
				return entries, nil
			}
		}
	}

	entries, err := s.userRepo.Leaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(entries); err == nil {
			if err := s.rdb.Set(ctx, key, payload, s.ttl).Err(); err != nil {
				log.Printf("leaderboard cache set failed: %v", err)
			}
		}
	}
	return entries, nil
}

// Invalidate drops cached rankings after a solved-counter change. Best
// effort; a stale entry expires with its TTL anyway.
func (s *LeaderboardService) Invalidate(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	keys, err := s.rdb.Keys(ctx, leaderboardKeyPattern).Result()
	if err != nil || len(keys) == 0 {
		return
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("leaderboard cache invalidation failed: %v", err)
	}
}
