package capture

import "fmt"

// Injector implements ports.RawFrameSink by writing wire-ready buffers
// (FrameBuilder's Ack / Ad-Hoc Data output) back onto the same monitor
// handle a LiveSource reads from, grounded in the teacher's Injector.Inject
// (internal/adapters/sniffer/injection/injector.go).
type Injector struct {
	handle *LiveSource
}

// NewInjector wraps an already-open LiveSource for outbound injection.
func NewInjector(src *LiveSource) *Injector {
	return &Injector{handle: src}
}

// Inject writes frame to the wire (ports.RawFrameSink).
func (i *Injector) Inject(frame []byte) error {
	if err := i.handle.handle.WritePacketData(frame); err != nil {
		return fmt.Errorf("capture: inject: %w", err)
	}
	return nil
}
