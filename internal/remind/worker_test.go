package remind_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/nhle/voicetask/internal/logging"
	"github.com/nhle/voicetask/internal/mute"
	"github.com/nhle/voicetask/internal/notify"
	"github.com/nhle/voicetask/internal/remind"
	"github.com/nhle/voicetask/internal/store"
	"github.com/nhle/voicetask/tests/testutil"
)

type workerEnv struct {
	worker   *remind.Worker
	store    *store.SQLiteStore
	mute     mute.Store
	notifier *fakeNotifier
}

func newWorkerEnv(t *testing.T) *workerEnv {
	t.Helper()

	st := testutil.NewTestStore(t)
	r := testutil.NewTestRedis(t)
	rdb := redis.NewClient(&redis.Options{Addr: r.Addr()})
	t.Cleanup(func() { rdb.Close() })

	notifier := &fakeNotifier{enabled: true}
	muteStore := mute.NewRedisStore(rdb)

	return &workerEnv{
		worker:   remind.NewWorker(st, muteStore, notifier, logging.Discard()),
		store:    st,
		mute:     muteStore,
		notifier: notifier,
	}
}

func deliverTask(t *testing.T, p remind.Payload) *asynq.Task {
	t.Helper()
	data, err := p.Marshal()
	if err != nil {
		t.Fatalf("marshaling payload: %v", err)
	}
	return asynq.NewTask(remind.TypeDeliver, data)
}

func TestHandleDeliver_RecordsHistoryAndShows(t *testing.T) {
	e := newWorkerEnv(t)
	ctx := context.Background()

	due := time.Date(2030, 6, 11, 17, 0, 0, 0, time.Local)
	p := remind.Payload{TaskID: 7, Title: "Pay electricity bill", DueAtMS: due.UnixMilli()}

	if err := e.worker.HandleDeliver(ctx, deliverTask(t, p)); err != nil {
		t.Fatalf("HandleDeliver: %v", err)
	}

	entries, err := e.store.GetNotifications(ctx)
	if err != nil {
		t.Fatalf("GetNotifications: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d history entries, want 1", len(entries))
	}
	if entries[0].TaskID != 7 || entries[0].Title != "Pay electricity bill" {
		t.Errorf("unexpected entry: %+v", entries[0])
	}
	if !strings.Contains(entries[0].Body, "17:00") {
		t.Errorf("body %q does not mention the due time", entries[0].Body)
	}
	if entries[0].Read {
		t.Error("new history entry must start unread")
	}

	e.notifier.mu.Lock()
	defer e.notifier.mu.Unlock()
	if len(e.notifier.shown) != 1 {
		t.Fatalf("got %d shown alerts, want 1", len(e.notifier.shown))
	}
	alert := e.notifier.shown[0]
	if alert.taskID != 7 {
		t.Errorf("alert task id = %d, want 7", alert.taskID)
	}
	if len(alert.actions) != 2 ||
		alert.actions[0] != notify.ActionAcknowledge ||
		alert.actions[1] != notify.ActionMute {
		t.Errorf("alert actions = %v, want [acknowledge mute]", alert.actions)
	}
}

func TestHandleDeliver_PermissionGateSuppressesAlert(t *testing.T) {
	e := newWorkerEnv(t)
	e.notifier.enabled = false
	ctx := context.Background()

	p := remind.Payload{TaskID: 7, Title: "x", DueAtMS: time.Now().UnixMilli()}
	if err := e.worker.HandleDeliver(ctx, deliverTask(t, p)); err != nil {
		t.Fatalf("HandleDeliver: %v", err)
	}

	// History is still recorded: the audit trail does not depend on
	// notification permission.
	entries, err := e.store.GetNotifications(ctx)
	if err != nil {
		t.Fatalf("GetNotifications: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d history entries, want 1", len(entries))
	}
	if e.notifier.shownCount() != 0 {
		t.Error("alert shown despite permission gate")
	}
}

func TestHandleDeliver_MutedTaskDeliversNothing(t *testing.T) {
	e := newWorkerEnv(t)
	ctx := context.Background()

	if err := e.mute.Add(ctx, 7); err != nil {
		t.Fatalf("mute.Add: %v", err)
	}

	p := remind.Payload{TaskID: 7, Title: "x", DueAtMS: time.Now().UnixMilli()}
	if err := e.worker.HandleDeliver(ctx, deliverTask(t, p)); err != nil {
		t.Fatalf("HandleDeliver: %v", err)
	}

	entries, err := e.store.GetNotifications(ctx)
	if err != nil {
		t.Fatalf("GetNotifications: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d history entries for muted task, want 0", len(entries))
	}
	if e.notifier.shownCount() != 0 {
		t.Error("alert shown for muted task")
	}
}

func TestHandleDeliver_MalformedPayloadIsTerminal(t *testing.T) {
	e := newWorkerEnv(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		payload []byte
	}{
		{"not json", []byte("{{{")},
		{"negative task id", []byte(`{"task_id": -1, "title": "x", "due_at_ms": 0}`)},
	}
	for _, tt := range tests {
		task := asynq.NewTask(remind.TypeDeliver, tt.payload)
		err := e.worker.HandleDeliver(ctx, task)
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if !errors.Is(err, asynq.SkipRetry) {
			t.Errorf("%s: error %v does not skip retry", tt.name, err)
		}
	}

	if e.notifier.shownCount() != 0 {
		t.Error("alert shown for malformed payload")
	}
}
