package telemetry

import "github.com/evdnx/zonerecovery/zone"

// Fanout forwards each event to every listener in order.
type Fanout []zone.Listener

func (f Fanout) OnCycleEvent(ev zone.Event) {
	for _, l := range f {
		if l != nil {
			l.OnCycleEvent(ev)
		}
	}
}
