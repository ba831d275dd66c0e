package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestMemoryLockerExclusive(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()

	release, ok, err := l.TryLock(ctx, "schedule:1", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first TryLock: ok=%v err=%v", ok, err)
	}
	if _, ok, _ := l.TryLock(ctx, "schedule:1", time.Minute); ok {
		t.Fatalf("second TryLock should fail while held")
	}
	if _, ok, _ := l.TryLock(ctx, "schedule:2", time.Minute); !ok {
		t.Fatalf("other keys must be independent")
	}

	release()
	release()
	if _, ok, _ := l.TryLock(ctx, "schedule:1", time.Minute); !ok {
		t.Fatalf("TryLock after release should succeed")
	}
}

func TestMemoryLockerExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := &memoryLocker{held: map[string]time.Time{}, now: func() time.Time { return now }}

	stale, ok, _ := l.TryLock(context.Background(), "k", time.Minute)
	if !ok {
		t.Fatal("expected lock")
	}
	now = now.Add(2 * time.Minute)
	if _, ok, _ := l.TryLock(context.Background(), "k", time.Minute); !ok {
		t.Fatalf("expired lock should be reclaimable")
	}

	stale()
	if _, ok, _ := l.TryLock(context.Background(), "k", time.Minute); ok {
		t.Fatalf("stale release must not drop the new holder's lock")
	}
}

type fakeRedis struct {
	setOK    bool
	setErr   error
	setKey   string
	setValue interface{}
	setTTL   time.Duration
	evalKeys []string
	evalArgs []interface{}
}

func (f *fakeRedis) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	f.setKey, f.setValue, f.setTTL = key, value, expiration
	return redis.NewBoolResult(f.setOK, f.setErr)
}

func (f *fakeRedis) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	f.evalKeys, f.evalArgs = keys, args
	return redis.NewCmdResult(int64(1), nil)
}

func TestRedisLockerAcquireRelease(t *testing.T) {
	fr := &fakeRedis{setOK: true}
	l := &redisLocker{client: fr}

	release, ok, err := l.TryLock(context.Background(), "schedule:9", 10*time.Minute)
	if err != nil || !ok {
		t.Fatalf("TryLock: ok=%v err=%v", ok, err)
	}
	if fr.setKey != "scrapeflow:lock:schedule:9" || fr.setTTL != 10*time.Minute {
		t.Fatalf("unexpected SETNX %q %v", fr.setKey, fr.setTTL)
	}

	release()
	if len(fr.evalKeys) != 1 || fr.evalKeys[0] != fr.setKey || fr.evalArgs[0] != fr.setValue {
		t.Fatalf("release must compare-and-delete with the acquired token: %v %v", fr.evalKeys, fr.evalArgs)
	}
}

func TestRedisLockerBusyAndError(t *testing.T) {
	l := &redisLocker{client: &fakeRedis{setOK: false}}
	if _, ok, err := l.TryLock(context.Background(), "k", time.Minute); ok || err != nil {
		t.Fatalf("busy lock: ok=%v err=%v", ok, err)
	}

	l = &redisLocker{client: &fakeRedis{setErr: errors.New("down")}}
	if _, ok, err := l.TryLock(context.Background(), "k", time.Minute); ok || err == nil {
		t.Fatalf("redis error: ok=%v err=%v", ok, err)
	}
}
