package transport

import "sync/atomic"

// Stats are cumulative transport counters across sessions.
type Stats struct {
	Received    uint64
	Delivered   uint64
	Transmitted uint64
	RxDropped   uint64
	TxDropped   uint64
	SendErrors  uint64

	// Truncated counts received datagrams larger than MaxDatagramSize.
	// They are dropped rather than delivered cut short.
	Truncated uint64
}

type counters struct {
	received    atomic.Uint64
	delivered   atomic.Uint64
	transmitted atomic.Uint64
	rxDropped   atomic.Uint64
	txDropped   atomic.Uint64
	sendErrors  atomic.Uint64
	truncated   atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Received:    c.received.Load(),
		Delivered:   c.delivered.Load(),
		Transmitted: c.transmitted.Load(),
		RxDropped:   c.rxDropped.Load(),
		TxDropped:   c.txDropped.Load(),
		SendErrors:  c.sendErrors.Load(),
		Truncated:   c.truncated.Load(),
	}
}
