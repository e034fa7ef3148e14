package cache

import (
	"context"
	"encoding/json"
	"time"
)

// GetOrLoadJSON 缓存 JSON 编码的值。用户服务用它缓存 users:list（[]UserView）
// 与 users:id:<id>（UserView）；写操作后由调用方 Del 这些 key。
// load 返回 nil（用户不存在或已软删）时缓存 "null"，命中时同样返回 nil，
// 同一 id 的重复 GET 不再回源。
func GetOrLoadJSON[T any](
	c *Cache,
	ctx context.Context,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (*T, error),
) (*T, error) {
	b, err := c.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, e := load(ctx)
		if e != nil {
			return nil, e
		}
		return json.Marshal(v)
	})
	if err != nil {
		return nil, err
	}
	if string(b) == "null" {
		return nil, nil
	}
	var out T
	if e := json.Unmarshal(b, &out); e != nil {
		return nil, e
	}
	return &out, nil
}
