// Package notify delivers configuration change events to subscribed
// observers. Delivery is synchronous and in subscription order; observers
// that need async work schedule it themselves.
package notify

import "sync"

// Change describes one configuration mutation.
type Change struct {
	// Path is the dot-separated setting path, or the file path for
	// Reload changes.
	Path string

	// OldValue and NewValue are the effective merged values before and
	// after the change.
	OldValue any
	NewValue any

	// Source names who made the change ("user", "environment", ...).
	Source string

	// Reload marks a whole-file reload rather than a single-path set.
	Reload bool
}

// Observer receives change events.
type Observer func(Change)

// Subscription is a handle for cancelling an observer.
type Subscription struct {
	cancel func()
	once   sync.Once
}

// Unsubscribe removes the observer; safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.once.Do(s.cancel)
}

type subscriber struct {
	id       uint64
	observer Observer
	path     string // "" = all changes
}

// Notifier fans changes out to subscribers.
type Notifier struct {
	mu     sync.Mutex
	nextID uint64
	subs   []subscriber
	closed bool
}

// New returns a Notifier.
func New() *Notifier {
	return &Notifier{}
}

// Subscribe registers an observer for every change.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	return n.subscribe(observer, "")
}

// SubscribePath registers an observer for changes at or under path.
func (n *Notifier) SubscribePath(path string, observer Observer) *Subscription {
	return n.subscribe(observer, path)
}

func (n *Notifier) subscribe(observer Observer, path string) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nextID++
	id := n.nextID
	n.subs = append(n.subs, subscriber{id: id, observer: observer, path: path})
	return &Subscription{cancel: func() { n.remove(id) }}
}

func (n *Notifier) remove(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, s := range n.subs {
		if s.id == id {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			return
		}
	}
}

// NotifySet publishes a single-path value change.
func (n *Notifier) NotifySet(path string, oldValue, newValue any, source string) {
	n.publish(Change{Path: path, OldValue: oldValue, NewValue: newValue, Source: source})
}

// NotifyReload publishes a whole-source reload.
func (n *Notifier) NotifyReload(source string) {
	n.publish(Change{Path: source, Source: source, Reload: true})
}

func (n *Notifier) publish(change Change) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	subs := make([]subscriber, len(n.subs))
	copy(subs, n.subs)
	n.mu.Unlock()

	for _, s := range subs {
		if s.path == "" || pathCovers(s.path, change.Path) || change.Reload {
			s.observer(change)
		}
	}
}

// Close stops delivery; subsequent publishes are dropped.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.subs = nil
}

// pathCovers reports whether a subscription path matches a change path:
// exact, or the change lives under the subscribed prefix.
func pathCovers(sub, change string) bool {
	if sub == change {
		return true
	}
	return len(change) > len(sub) && change[:len(sub)] == sub && change[len(sub)] == '.'
}
