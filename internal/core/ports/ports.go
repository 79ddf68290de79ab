// Package ports declares the collaborator interfaces spec.md §6 names but
// treats as external to the core: a frame source, an Ethernet/raw-frame
// sink and a diagnostic sink. The core handler depends only on these, never
// on a concrete transport.
package ports

import "github.com/lcalzada-xor/airbridge/internal/core/domain"

// FrameSource yields raw captured-frame byte views. Implementations own the
// bytes only until the next call to Next; the core never retains a view
// past its next Update call (§5).
type FrameSource interface {
	// Next blocks until a frame is available or the source is closed.
	// ok is false once the source is exhausted.
	Next() (frame []byte, ok bool, err error)
	Close() error
}

// FrameSink accepts Ethernet II frames produced by ConvertToEthernet for
// forwarding to the bridging endpoint.
type FrameSink interface {
	Forward(frame domain.EthernetII) error
}

// RawFrameSink accepts wire-ready byte buffers produced by FrameBuilder
// (Ack / Ad-Hoc Data), for injection back onto the air interface.
type RawFrameSink interface {
	Inject(frame []byte) error
}

// DiagnosticSink accepts level-tagged diagnostic messages. It is the sole
// process-wide collaborator the core may call and must be safe to call
// from the single driver thread (§5, §9).
type DiagnosticSink interface {
	Emit(level, msg string, fields ...any)
}

// NullSink discards every diagnostic; it is the default used by tests.
type NullSink struct{}

func (NullSink) Emit(string, string, ...any) {}
