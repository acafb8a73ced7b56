package events

import (
	"testing"

	"github.com/nats-io/nats.go"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"financehub/internal/query"
)

type fakeCache struct {
	keys []query.Key
}

func (f *fakeCache) Invalidate(prefix query.Key) int {
	f.keys = append(f.keys, prefix)
	return 1
}

func newTestBridge(cache Invalidator) *Bridge {
	logger, _ := logtest.NewNullLogger()
	return newBridge(Config{InstanceID: "local", Logger: logger}, cache)
}

func TestHandleInvalidatesRemoteChanges(t *testing.T) {
	cache := &fakeCache{}
	b := newTestBridge(cache)

	b.handle(&nats.Msg{Subject: "financehub.changes.users", Data: []byte(`{"entity":"users","id":"1","op":"update","source":"other"}`)})
	if len(cache.keys) != 1 || cache.keys[0].String() != (query.Key{"users"}).String() {
		t.Fatalf("expected users invalidation, got %v", cache.keys)
	}
}

func TestHandleSkipsOwnMessages(t *testing.T) {
	cache := &fakeCache{}
	b := newTestBridge(cache)

	b.handle(&nats.Msg{Subject: "financehub.changes.users", Data: []byte(`{"entity":"users","id":"1","op":"delete","source":"local"}`)})
	if len(cache.keys) != 0 {
		t.Fatalf("own change should be ignored, got %v", cache.keys)
	}
}

func TestHandleFallsBackToSubjectAndIgnoresGarbage(t *testing.T) {
	cache := &fakeCache{}
	b := newTestBridge(cache)

	b.handle(&nats.Msg{Subject: "financehub.changes.transactions", Data: []byte(`{"op":"create","source":"other"}`)})
	b.handle(&nats.Msg{Subject: "financehub.changes.users", Data: []byte(`not json`)})
	if len(cache.keys) != 1 || cache.keys[0].Entity() != "transactions" {
		t.Fatalf("unexpected invalidations %v", cache.keys)
	}
}

func TestBridgeDefaults(t *testing.T) {
	b := newBridge(Config{}, &fakeCache{})
	if b.subject != DefaultSubject || b.instance == "" {
		t.Fatalf("defaults not applied: subject=%q instance=%q", b.subject, b.instance)
	}
}

var _ query.Publisher = (*Bridge)(nil)
