package delivery

import (
	"testing"
	"time"
)

func TestProximityNotifier_FiresOncePerOrder(t *testing.T) {
	n := NewProximityNotifier(0.5, 0.05, 5*time.Minute)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return now }

	// First tick inside the nearby threshold fires.
	event, fire := n.Observe("order-1", 0.4)
	if !fire || event != EventNearby {
		t.Fatalf("Observe(0.4) = (%q, %v), want (%q, true)", event, fire, EventNearby)
	}

	// Subsequent ticks inside the interval stay quiet.
	if event, fire := n.Observe("order-1", 0.3); fire {
		t.Errorf("Observe within interval fired %q", event)
	}

	// Past the interval, nearby does not re-fire.
	now = now.Add(6 * time.Minute)
	if event, fire := n.Observe("order-1", 0.3); fire {
		t.Errorf("nearby re-fired as %q", event)
	}

	// Arrival is a separate one-time event.
	event, fire = n.Observe("order-1", 0.02)
	if !fire || event != EventArrived {
		t.Fatalf("Observe(0.02) = (%q, %v), want (%q, true)", event, fire, EventArrived)
	}

	now = now.Add(6 * time.Minute)
	if event, fire := n.Observe("order-1", 0.01); fire {
		t.Errorf("arrived re-fired as %q", event)
	}

	// Other orders are tracked independently.
	if _, fire := n.Observe("order-2", 0.4); !fire {
		t.Error("Observe for a second order did not fire")
	}
}

func TestProximityNotifier_IntervalGatesArrival(t *testing.T) {
	n := NewProximityNotifier(0.5, 0.05, 5*time.Minute)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return now }

	if _, fire := n.Observe("order-1", 0.4); !fire {
		t.Fatal("nearby did not fire")
	}

	// Arrival inside the minimum interval is held back.
	now = now.Add(time.Minute)
	if event, fire := n.Observe("order-1", 0.02); fire {
		t.Fatalf("arrival fired %q inside the interval", event)
	}

	now = now.Add(5 * time.Minute)
	if event, fire := n.Observe("order-1", 0.02); !fire || event != EventArrived {
		t.Errorf("Observe after interval = (%q, %v), want (%q, true)", event, fire, EventArrived)
	}
}

func TestProximityNotifier_Forget(t *testing.T) {
	n := NewProximityNotifier(0.5, 0.05, 5*time.Minute)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return now }

	if _, fire := n.Observe("order-1", 0.4); !fire {
		t.Fatal("nearby did not fire")
	}

	n.Forget("order-1")

	if event, fire := n.Observe("order-1", 0.4); !fire || event != EventNearby {
		t.Errorf("Observe after Forget = (%q, %v), want (%q, true)", event, fire, EventNearby)
	}
}
