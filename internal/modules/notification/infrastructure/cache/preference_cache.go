package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"ReviewHub/internal/modules/notification/domain/preference"
	"ReviewHub/internal/modules/notification/domain/repository"
	"ReviewHub/pkg/zlog"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "reviewhub:notif_pref:"

type redisPreferenceCache struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewPreferenceCache client 为 nil 时返回空实现，读写都直接落到数据库
func NewPreferenceCache(client *goredis.Client, ttl time.Duration) repository.PreferenceCache {
	if client == nil {
		return noopCache{}
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &redisPreferenceCache{client: client, ttl: ttl}
}

func key(userID string) string {
	return keyPrefix + userID
}

// versionKey 记录已缓存过的最高版本，Invalidate 时保留，防止旧快照回写
func versionKey(userID string) string {
	return keyPrefix + userID + ":ver"
}

// 仅当新版本不低于已记录版本时写入
var setIfNewer = goredis.NewScript(`
local cur = redis.call('GET', KEYS[2])
if cur and tonumber(cur) > tonumber(ARGV[2]) then
  return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return 1
`)

func (c *redisPreferenceCache) Get(ctx context.Context, userID string) (*preference.NotificationPreferences, bool) {
	raw, err := c.client.Get(ctx, key(userID)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			zlog.Warn("preference cache get failed", zap.String("user_id", userID), zap.Error(err))
		}
		return nil, false
	}
	var p preference.NotificationPreferences
	if err := json.Unmarshal(raw, &p); err != nil {
		// 脏数据直接丢弃
		c.Invalidate(ctx, userID)
		return nil, false
	}
	return &p, true
}

func (c *redisPreferenceCache) Set(ctx context.Context, prefs *preference.NotificationPreferences) {
	if prefs == nil || prefs.UserId == "" {
		return
	}
	b, err := json.Marshal(prefs)
	if err != nil {
		return
	}
	written, err := setIfNewer.Run(ctx, c.client,
		[]string{key(prefs.UserId), versionKey(prefs.UserId)},
		string(b), strconv.FormatInt(prefs.Version, 10), strconv.FormatInt(c.ttl.Milliseconds(), 10),
	).Int()
	if err != nil {
		zlog.Warn("preference cache set failed", zap.String("user_id", prefs.UserId), zap.Error(err))
		return
	}
	if written == 0 {
		zlog.Debug("preference cache skipped stale snapshot", zap.String("user_id", prefs.UserId), zap.Int64("version", prefs.Version))
	}
}

func (c *redisPreferenceCache) Invalidate(ctx context.Context, userID string) {
	if err := c.client.Del(ctx, key(userID)).Err(); err != nil {
		zlog.Warn("preference cache invalidate failed", zap.String("user_id", userID), zap.Error(err))
	}
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) (*preference.NotificationPreferences, bool) {
	return nil, false
}
func (noopCache) Set(context.Context, *preference.NotificationPreferences) {}
