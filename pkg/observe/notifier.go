package observe

import "time"

// PropertyChange describes one property mutation announced by a notifier. An
// empty Name means "any or all properties may have changed".
type PropertyChange struct {
	Name       string
	OccurredAt time.Time
}

// Notifier is the property-change broadcast capability consumed by commands.
// Implementations announce every property mutation; observers receive changes
// synchronously on the mutating goroutine.
type Notifier interface {
	OnPropertyChanged(fn func(PropertyChange)) Subscription
}

// ChangeNotifier is the reference Notifier implementation: an ordered
// observer list plus a notify helper. Embed it in a view-model or service to
// gain the property-change capability.
type ChangeNotifier struct {
	changed Broadcaster[PropertyChange]
}

// NewChangeNotifier constructs a notifier with no observers.
func NewChangeNotifier() *ChangeNotifier {
	return &ChangeNotifier{}
}

// OnPropertyChanged registers fn for every subsequent property change.
func (n *ChangeNotifier) OnPropertyChanged(fn func(PropertyChange)) Subscription {
	return n.changed.Subscribe(fn)
}

// NotifyPropertyChanged announces that the named property changed. Callers
// invoke it after the backing field has been assigned so observers reading
// the owner during handling see the new value.
func (n *ChangeNotifier) NotifyPropertyChanged(name string) {
	n.changed.Notify(PropertyChange{Name: name, OccurredAt: time.Now()})
}
