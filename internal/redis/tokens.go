package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/gomodule/redigo/redis"
	"github.com/ysaito/personal-calendar/internal/config"
	"github.com/ysaito/personal-calendar/internal/model"
	"go.uber.org/zap"
)

const refreshTokenPrefix = "refresh_token:"

// RefreshTokenRepository хранит сессии в redis с TTL из конфига.
type RefreshTokenRepository struct {
	pool   *redis.Pool
	logger *zap.SugaredLogger
}

func NewRefreshTokenRepository(pool *redis.Pool, logger *zap.SugaredLogger) *RefreshTokenRepository {
	return &RefreshTokenRepository{pool: pool, logger: logger}
}

func (r *RefreshTokenRepository) Add(ctx context.Context, session string, id int64) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	seconds := int(config.SessionTTL().Seconds())
	if _, err := redis.String(conn.Do("SET", refreshTokenPrefix+session, id, "EX", seconds, "NX")); err != nil {
		if errors.Is(err, redis.ErrNil) {
			return model.ErrAlreadyExists
		}
		return fmt.Errorf("SET: %w", err)
	}

	return nil
}

func (r *RefreshTokenRepository) Get(ctx context.Context, session string) (int64, error) {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	id, err := redis.Int64(conn.Do("GET", refreshTokenPrefix+session))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return 0, model.ErrNoRecord
		}
		return 0, fmt.Errorf("GET: %w", err)
	}

	return id, nil
}

// Refresh не атомарен: старый токен удаляется после записи нового.
func (r *RefreshTokenRepository) Refresh(ctx context.Context, old, new string) error {
	id, err := r.Get(ctx, old)
	if err != nil {
		return err
	}

	if err := r.Add(ctx, new, id); err != nil {
		return err
	}

	if err := r.Delete(ctx, old); err != nil && !errors.Is(err, model.ErrNoRecord) {
		r.logger.Warnw("failed deleting old refresh token", "err", err)
	}

	return nil
}

func (r *RefreshTokenRepository) Delete(ctx context.Context, session string) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	deleted, err := redis.Int(conn.Do("DEL", refreshTokenPrefix+session))
	if err != nil {
		return fmt.Errorf("DEL: %w", err)
	}

	if deleted == 0 {
		return model.ErrNoRecord
	}

	return nil
}
