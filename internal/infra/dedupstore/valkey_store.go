package dedupstore

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/announcement-relay/internal/domain/announcement"
	"github.com/yanqian/announcement-relay/pkg/util"
)

const reservedValue = "pending"

// ValkeyStore keeps reservations and sent markers in a Valkey-compatible
// database so they survive restarts and are shared across instances.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "relay"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// Reserve uses SET NX so only one caller wins the key.
func (s *ValkeyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	nx := s.client.B().Set().Key(s.sentKey(key)).Value(reservedValue).Nx()
	var cmd valkey.Completed
	if ttl > 0 {
		cmd = nx.Ex(atLeastSecond(ttl)).Build()
	} else {
		cmd = nx.Build()
	}
	err := s.client.Do(ctx, cmd).Error()
	if valkey.IsValkeyNil(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *ValkeyStore) MarkSent(ctx context.Context, key string, ttl time.Duration) error {
	value := util.NowUTC().Format(time.RFC3339)
	builder := s.client.B().Set().Key(s.sentKey(key)).Value(value)
	var cmd valkey.Completed
	if ttl > 0 {
		cmd = builder.Ex(atLeastSecond(ttl)).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) Release(ctx context.Context, key string) error {
	return s.client.Do(ctx, s.client.B().Del().Key(s.sentKey(key)).Build()).Error()
}

func (s *ValkeyStore) sentKey(key string) string {
	return fmt.Sprintf("%s:sent:%s", s.prefix, key)
}

func atLeastSecond(ttl time.Duration) time.Duration {
	if ttl < time.Second {
		return time.Second
	}
	return ttl
}

var _ announcement.DedupStore = (*ValkeyStore)(nil)
