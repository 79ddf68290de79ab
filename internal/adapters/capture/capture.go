// Package capture implements ports.FrameSource over two transports: a live
// monitor-mode pcap handle and an offline pcap-file replay, grounded in the
// teacher's internal/adapters/sniffer/injection/injector.go (pcap.OpenLive
// monitor handle) and internal/adapters/sniffer/handshake/handshake_manager.go
// (pcapgo.NewReader for file playback). Only raw byte views are handed to
// the core handler - gopacket's own Dot11 layer decoding is never used for
// classification, per spec.md §9's explicit-reader design note.
package capture

import (
	"fmt"
	"io"
	"os"

	"github.com/google/gopacket/pcap"
	"github.com/google/gopacket/pcapgo"
)

// LiveSource reads frames from a monitor-mode interface via libpcap.
type LiveSource struct {
	handle *pcap.Handle
}

// OpenLive opens iface in promiscuous mode with a 65536-byte snaplen and an
// unbounded read timeout, matching the teacher's pcap.OpenLive call shape.
// It does not switch the interface into monitor mode; iface must already
// be a monitor-mode interface.
func OpenLive(iface string) (*LiveSource, error) {
	handle, err := pcap.OpenLive(iface, 65536, true, pcap.BlockForever)
	if err != nil {
		return nil, fmt.Errorf("capture: open %s: %w", iface, err)
	}
	return &LiveSource{handle: handle}, nil
}

// Next blocks for the next captured frame (ports.FrameSource).
func (s *LiveSource) Next() ([]byte, bool, error) {
	data, _, err := s.handle.ZeroCopyReadPacketData()
	if err == pcap.NextErrorTimeoutExpired {
		return nil, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Close releases the pcap handle.
func (s *LiveSource) Close() error {
	s.handle.Close()
	return nil
}

// FileSource replays frames from a previously captured .pcap file.
type FileSource struct {
	f      *os.File
	reader *pcapgo.Reader
}

// OpenFile opens path for pcapgo-based replay.
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("capture: open %s: %w", path, err)
	}
	r, err := pcapgo.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("capture: read pcap header: %w", err)
	}
	return &FileSource{f: f, reader: r}, nil
}

// Next returns the next frame recorded in the file (ports.FrameSource).
func (s *FileSource) Next() ([]byte, bool, error) {
	data, _, err := s.reader.ReadPacketData()
	if err == io.EOF {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Close releases the underlying file handle.
func (s *FileSource) Close() error {
	return s.f.Close()
}
