package redis

import (
	"context"
	"errors"
	"fmt"

	"salesapi/internal/types"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	recordsKeyNameTemplate = "_salesapi_%s_rec" // hash: id -> JSON record
	orderKeyNameTemplate   = "_salesapi_%s_ids" // list: ids in insertion order
)

// records stores JSON encoded values of one kind.
type records[V any] struct {
	cli  *redis.Client
	kind string
}

func (r records[V]) put(ctx context.Context, id string, v V) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = r.cli.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, recordsKey(r.kind), id, string(b))
		pipe.RPush(ctx, orderKey(r.kind), id)
		return nil
	})
	if err != nil {
		return types.Err(types.ErrDataStoreAccess, err, "put %s %s", r.kind, id)
	}
	return nil
}

func (r records[V]) get(ctx context.Context, id string) (V, error) {
	var v V
	out := r.cli.HGet(ctx, recordsKey(r.kind), id)
	if out.Err() != nil {
		if errors.Is(out.Err(), redis.Nil) {
			return v, types.ErrNotFound
		}
		return v, types.Err(types.ErrDataStoreAccess, out.Err(), "")
	}
	if err := json.Unmarshal([]byte(out.Val()), &v); err != nil {
		return v, err
	}
	return v, nil
}

func (r records[V]) list(ctx context.Context) ([]V, error) {
	ids, err := r.cli.LRange(ctx, orderKey(r.kind), 0, -1).Result()
	if err != nil {
		return nil, types.Err(types.ErrDataStoreAccess, err, "")
	}
	out := make([]V, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	vals, err := r.cli.HMGet(ctx, recordsKey(r.kind), ids...).Result()
	if err != nil {
		return nil, types.Err(types.ErrDataStoreAccess, err, "")
	}
	for i, raw := range vals {
		s, ok := raw.(string)
		if !ok {
			log.WithField("id", ids[i]).Warnf("redis: %s listed without a record", r.kind)
			continue
		}
		var v V
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			return nil, fmt.Errorf("invalid %s record %s: %w", r.kind, ids[i], err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (r records[V]) clear(ctx context.Context) error {
	return r.cli.Del(ctx, recordsKey(r.kind), orderKey(r.kind)).Err()
}

func recordsKey(kind string) string {
	return fmt.Sprintf(recordsKeyNameTemplate, kind)
}

func orderKey(kind string) string {
	return fmt.Sprintf(orderKeyNameTemplate, kind)
}
