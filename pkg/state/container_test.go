package state

import (
	"context"
	"testing"

	"github.com/goliatone/go-binding/pkg/activity"
)

type personView struct {
	Name     string
	Selected bool
}

func TestContainerReadsNewValueInsideHandler(t *testing.T) {
	c := New(personView{})
	var observed []personView
	c.OnStateChanged(func(next personView) {
		observed = append(observed, next)
		if got := c.State(); got != next {
			t.Fatalf("stale read: handler saw %+v, getter returned %+v", next, got)
		}
	})

	c.Set(personView{Name: "ada", Selected: true})
	c.Set(personView{Name: "grace"})
	c.Set(personView{})

	if len(observed) != 3 {
		t.Fatalf("expected one broadcast per replacement, got %d", len(observed))
	}
	if observed[0].Name != "ada" || observed[1].Name != "grace" || observed[2].Name != "" {
		t.Fatalf("unexpected broadcast sequence: %+v", observed)
	}
}

func TestContainerNoBroadcastForInitialValue(t *testing.T) {
	fired := false
	c := New(personView{Name: "seed"})
	c.OnStateChanged(func(personView) { fired = true })
	if fired {
		t.Fatalf("expected no broadcast before first replacement")
	}
	if c.State().Name != "seed" {
		t.Fatalf("expected initial snapshot retained, got %+v", c.State())
	}
}

func TestContainerNotifiesInSubscriptionOrder(t *testing.T) {
	c := New(0)
	var order []string
	c.OnStateChanged(func(int) { order = append(order, "a") })
	c.OnStateChanged(func(int) { order = append(order, "b") })

	c.Set(1)

	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("unexpected notification order: %v", order)
	}
}

func TestContainerMutateReplacesWholesale(t *testing.T) {
	c := New(personView{Name: "ada"})
	var got personView
	c.OnStateChanged(func(next personView) { got = next })

	c.Mutate(func(prior personView) personView {
		prior.Selected = true
		return prior
	})

	if !got.Selected || got.Name != "ada" {
		t.Fatalf("expected copy-with-modification snapshot, got %+v", got)
	}

	c.Mutate(nil)
	if c.State() != got {
		t.Fatalf("expected nil mutator to leave snapshot untouched")
	}
}

func TestContainerSetWithoutSubscribersIsNoop(t *testing.T) {
	c := New(1)
	c.Set(2)
	if c.State() != 2 {
		t.Fatalf("expected snapshot replaced, got %d", c.State())
	}
}

func TestContainerCheckpointRequiresStore(t *testing.T) {
	c := New(personView{})
	if err := c.Checkpoint(context.Background()); err != ErrNoStore {
		t.Fatalf("expected ErrNoStore, got %v", err)
	}
	if _, err := c.Restore(context.Background()); err != ErrNoStore {
		t.Fatalf("expected ErrNoStore, got %v", err)
	}
}

func TestContainerCheckpointRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore[personView]()
	c := New(personView{Name: "ada"}, WithStore[personView](store, "views/person"))

	if err := c.Checkpoint(ctx); err != nil {
		t.Fatalf("checkpoint: %v", err)
	}

	c.Set(personView{Name: "grace"})
	var restored []personView
	c.OnStateChanged(func(next personView) { restored = append(restored, next) })

	ok, err := c.Restore(ctx)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !ok {
		t.Fatalf("expected stored snapshot to exist")
	}
	if c.State().Name != "ada" {
		t.Fatalf("expected restored snapshot, got %+v", c.State())
	}
	if len(restored) != 1 {
		t.Fatalf("expected restore to broadcast once, got %d", len(restored))
	}
}

func TestContainerRestoreMissingRecord(t *testing.T) {
	c := New(personView{Name: "ada"}, WithStore[personView](NewMemoryStore[personView](), "views/none"))
	ok, err := c.Restore(context.Background())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if ok {
		t.Fatalf("expected ok=false for missing record")
	}
	if c.State().Name != "ada" {
		t.Fatalf("expected snapshot untouched, got %+v", c.State())
	}
}

func TestContainerEmitsStateReplacedEvents(t *testing.T) {
	capture := &activity.CaptureHook{}
	emitter := activity.NewEmitter(activity.Hooks{capture}, activity.Config{Enabled: true})
	c := New(0, WithEmitter[int](emitter, "counter"))

	c.Set(1)
	c.Set(2)

	if len(capture.Events) != 2 {
		t.Fatalf("expected one event per replacement, got %d", len(capture.Events))
	}
	if capture.Events[0].Verb != "state.replaced" || capture.Events[0].ObjectID != "counter" {
		t.Fatalf("unexpected event: %+v", capture.Events[0])
	}
}

func TestMemoryStoreRequiresKey(t *testing.T) {
	store := NewMemoryStore[int]()
	if _, err := store.Save(context.Background(), "", 1, Meta{}); err == nil {
		t.Fatalf("expected error for empty key")
	}
	if _, _, _, err := store.Load(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty key")
	}
}

func TestMemoryStoreClonesMeta(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore[int]()
	extra := map[string]string{"origin": "test"}
	if _, err := store.Save(ctx, "k", 7, Meta{SnapshotID: "snap-1", Extra: extra}); err != nil {
		t.Fatalf("save: %v", err)
	}
	extra["origin"] = "mutated"

	_, meta, ok, err := store.Load(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if meta.Extra["origin"] != "test" {
		t.Fatalf("expected stored meta isolated from caller mutation: %+v", meta.Extra)
	}
}
