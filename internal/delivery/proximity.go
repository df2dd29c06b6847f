package delivery

import (
	"sync"
	"time"
)

// Proximity events fired at most once per order.
const (
	EventNearby  = "rider_nearby"
	EventArrived = "rider_arrived"
)

// ProximityNotifier decides when to fire the one-time "rider nearby" and
// "rider arrived" notifications for an order. Location ticks arrive
// continuously; a minimum interval between notifications per order keeps
// them from re-firing on every tick. State is in-memory and
// process-local.
type ProximityNotifier struct {
	mu           sync.Mutex
	nearbyKm     float64
	arrivedKm    float64
	minInterval  time.Duration
	nearbySent   map[string]bool
	arrivedSent  map[string]bool
	lastNotified map[string]time.Time
	now          func() time.Time
}

// NewProximityNotifier creates a notifier. Non-positive thresholds and
// interval select the defaults: nearby 0.5 km, arrived 0.05 km, interval
// 5 minutes.
func NewProximityNotifier(nearbyKm, arrivedKm float64, minInterval time.Duration) *ProximityNotifier {
	if nearbyKm <= 0 {
		nearbyKm = 0.5
	}
	if arrivedKm <= 0 {
		arrivedKm = 0.05
	}
	if minInterval <= 0 {
		minInterval = 5 * time.Minute
	}
	return &ProximityNotifier{
		nearbyKm:     nearbyKm,
		arrivedKm:    arrivedKm,
		minInterval:  minInterval,
		nearbySent:   make(map[string]bool),
		arrivedSent:  make(map[string]bool),
		lastNotified: make(map[string]time.Time),
		now:          time.Now,
	}
}

// Observe records a location tick for an order and returns the event to
// fire, if any. Each event fires at most once per order, and no two
// events for the same order fire closer together than the minimum
// interval.
func (n *ProximityNotifier) Observe(orderID string, distanceKm float64) (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()
	if last, ok := n.lastNotified[orderID]; ok && now.Sub(last) < n.minInterval {
		return "", false
	}

	if distanceKm <= n.arrivedKm && !n.arrivedSent[orderID] {
		n.arrivedSent[orderID] = true
		n.lastNotified[orderID] = now
		return EventArrived, true
	}

	if NearDestination(distanceKm, n.nearbyKm) && !n.nearbySent[orderID] {
		n.nearbySent[orderID] = true
		n.lastNotified[orderID] = now
		return EventNearby, true
	}

	return "", false
}

// Forget drops all notification state for an order, typically once it is
// delivered.
func (n *ProximityNotifier) Forget(orderID string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	delete(n.nearbySent, orderID)
	delete(n.arrivedSent, orderID)
	delete(n.lastNotified, orderID)
}
