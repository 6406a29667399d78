package observe

import "testing"

func TestBroadcasterNotifiesInSubscriptionOrder(t *testing.T) {
	b := NewBroadcaster[int]()
	var order []string
	b.Subscribe(func(int) { order = append(order, "first") })
	b.Subscribe(func(int) { order = append(order, "second") })
	b.Subscribe(func(int) { order = append(order, "third") })

	b.Notify(1)

	if len(order) != 3 {
		t.Fatalf("expected 3 deliveries, got %d", len(order))
	}
	if order[0] != "first" || order[1] != "second" || order[2] != "third" {
		t.Fatalf("unexpected delivery order: %v", order)
	}
}

func TestBroadcasterNotifyWithoutSubscribersIsNoop(t *testing.T) {
	b := NewBroadcaster[string]()
	b.Notify("ignored")
}

func TestBroadcasterDeliversEachNotificationOnce(t *testing.T) {
	b := NewBroadcaster[int]()
	var got []int
	b.Subscribe(func(v int) { got = append(got, v) })

	b.Notify(1)
	b.Notify(2)
	b.Notify(2)

	if len(got) != 3 {
		t.Fatalf("expected 3 deliveries with no deduplication, got %d", len(got))
	}
	if got[0] != 1 || got[1] != 2 || got[2] != 2 {
		t.Fatalf("unexpected values: %v", got)
	}
}

func TestSubscriptionCancelRemovesExactlyOneObserver(t *testing.T) {
	b := NewBroadcaster[int]()
	var first, second int
	sub := b.Subscribe(func(int) { first++ })
	b.Subscribe(func(int) { second++ })

	b.Notify(1)
	sub.Cancel()
	sub.Cancel()
	b.Notify(2)

	if first != 1 {
		t.Fatalf("expected cancelled observer to receive 1 delivery, got %d", first)
	}
	if second != 2 {
		t.Fatalf("expected remaining observer to receive 2 deliveries, got %d", second)
	}
	if b.Len() != 1 {
		t.Fatalf("expected 1 remaining observer, got %d", b.Len())
	}
}

func TestBroadcasterNilObserverIsSkipped(t *testing.T) {
	b := NewBroadcaster[int]()
	sub := b.Subscribe(nil)
	b.Notify(1)
	sub.Cancel()
	if b.Len() != 0 {
		t.Fatalf("expected empty observer list, got %d", b.Len())
	}
}

func TestChangeNotifierAnnouncesEveryProperty(t *testing.T) {
	n := NewChangeNotifier()
	var names []string
	n.OnPropertyChanged(func(change PropertyChange) {
		names = append(names, change.Name)
		if change.OccurredAt.IsZero() {
			t.Fatalf("expected OccurredAt to be set")
		}
	})

	n.NotifyPropertyChanged("Items")
	n.NotifyPropertyChanged("Loading")
	n.NotifyPropertyChanged("")

	if len(names) != 3 {
		t.Fatalf("expected 3 announcements, got %d", len(names))
	}
	if names[0] != "Items" || names[1] != "Loading" || names[2] != "" {
		t.Fatalf("unexpected names: %v", names)
	}
}
