package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-accounts-api/internal/domain/entity"
	"github.com/oksasatya/user-accounts-api/internal/domain/repository"
	"github.com/oksasatya/user-accounts-api/pkg/helpers"
)

// UserRepository is a read-through Redis cache in front of another
// repository. Only FindByID is cached; every Save bumps the record's version
// and evicts the entry, so a read that started before the Save cannot put
// its stale copy back. Redis failures are logged and the call falls through
// to the wrapped store.
type UserRepository struct {
	next   repository.UserRepository
	rdb    *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewUserRepository(next repository.UserRepository, rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *UserRepository {
	return &UserRepository{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

// versionTTL outlives any in-flight read; an expired version only costs a cache fill.
const versionTTL = 24 * time.Hour

func userKey(id int64) string {
	return "user:record:" + strconv.FormatInt(id, 10)
}

func versionKey(id int64) string {
	return "user:version:" + strconv.FormatInt(id, 10)
}

// Evict drops the cached record for id. Other processes use it to react to user events.
func Evict(ctx context.Context, rdb *redis.Client, id int64) error {
	return helpers.RedisBumpVersion(ctx, rdb, versionKey(id), userKey(id), versionTTL)
}

func (r *UserRepository) FindActive(ctx context.Context) ([]*entity.User, error) {
	return r.next.FindActive(ctx)
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	key := userKey(id)
	var cached entity.User
	ok, err := helpers.RedisGetJSON(ctx, r.rdb, key, &cached)
	if err != nil {
		r.warn(err, key, "user cache read failed")
	}
	if ok {
		return &cached, nil
	}

	version, verr := helpers.RedisVersion(ctx, r.rdb, versionKey(id))
	if verr != nil {
		r.warn(verr, key, "user cache version read failed")
	}

	u, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if verr == nil {
		if _, err := helpers.RedisSetJSONIfVersion(ctx, r.rdb, key, versionKey(id), version, u, r.ttl); err != nil {
			r.warn(err, key, "user cache write failed")
		}
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.next.FindByEmail(ctx, email)
}

func (r *UserRepository) SoftDelete(u *entity.User) {
	r.next.SoftDelete(u)
}

func (r *UserRepository) Save(ctx context.Context, u *entity.User) error {
	if err := r.next.Save(ctx, u); err != nil {
		return err
	}
	if err := Evict(ctx, r.rdb, u.ID); err != nil {
		r.warn(err, userKey(u.ID), "user cache eviction failed")
	}
	return nil
}

func (r *UserRepository) warn(err error, key, msg string) {
	if r.logger != nil {
		r.logger.WithError(err).WithField("key", key).Warn(msg)
	}
}

var _ repository.UserRepository = (*UserRepository)(nil)
