package repository

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Sequence hands out record ids. Next returns a value greater than floor
// and greater than anything it returned before.
type Sequence interface {
	Next(ctx context.Context, floor int64) (int64, error)
}

// TimeSequence derives ids from the creation time in milliseconds and
// bumps past the previous id when two creations share a millisecond.
type TimeSequence struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func NewTimeSequence(now func() time.Time) *TimeSequence {
	if now == nil {
		now = time.Now
	}
	return &TimeSequence{now: now}
}

func (s *TimeSequence) Next(_ context.Context, floor int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := max(s.now().UnixMilli(), s.last+1, floor+1)
	s.last = id
	return id, nil
}

// 原子自增，落后于已有数据时抬到 floor+1
var nextIDScript = redis.NewScript(`
local v = redis.call('INCR', KEYS[1])
local floor = tonumber(ARGV[1])
if v <= floor then
  v = floor + 1
  redis.call('SET', KEYS[1], v)
end
return v
`)

// RedisSequence keeps a shared counter per collection so several server
// processes on one redis never hand out the same id.
type RedisSequence struct {
	rdb *redis.Client
	key string
}

func NewRedisSequence(rdb *redis.Client, prefix, collection string) *RedisSequence {
	return &RedisSequence{rdb: rdb, key: prefix + "seq:" + collection}
}

func (s *RedisSequence) Next(ctx context.Context, floor int64) (int64, error) {
	return nextIDScript.Run(ctx, s.rdb, []string{s.key}, floor).Int64()
}
