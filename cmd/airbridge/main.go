// Command airbridge runs the capture-and-bridge driver loop: read frames
// from a monitor-mode interface (or pcap replay), feed them through the
// core handler, forward convertible Data frames over the gRPC bridge, and
// expose a control API for filter mutation and live diagnostics. Grounded
// in the teacher's cmd/wmap/main.go bootstrap order (structured logging,
// signal-cancelled root context, config load, component wiring, graceful
// shutdown).
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/lcalzada-xor/airbridge/internal/adapters/audit"
	"github.com/lcalzada-xor/airbridge/internal/adapters/bridge"
	"github.com/lcalzada-xor/airbridge/internal/adapters/capture"
	"github.com/lcalzada-xor/airbridge/internal/adapters/controlapi"
	"github.com/lcalzada-xor/airbridge/internal/adapters/report"
	"github.com/lcalzada-xor/airbridge/internal/adapters/sniffer/builder"
	"github.com/lcalzada-xor/airbridge/internal/adapters/sniffer/handler"
	"github.com/lcalzada-xor/airbridge/internal/config"
	"github.com/lcalzada-xor/airbridge/internal/core/domain"
	"github.com/lcalzada-xor/airbridge/internal/core/ports"
	"github.com/lcalzada-xor/airbridge/internal/telemetry"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	sessionID := uuid.NewString()
	slog.Info("airbridge starting", "session", sessionID, "interface", cfg.Interface)

	telemetry.InitMetrics()
	shutdownTracer, err := telemetry.InitTracer(sessionID)
	if err != nil {
		log.Fatalf("tracer init: %v", err)
	}
	defer shutdownTracer(context.Background())

	auditStore, err := audit.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("audit store: %v", err)
	}
	defer auditStore.Close()

	feed := controlapi.NewFeed()
	h := handler.New(feed)
	ctrl := controlapi.New(cfg.Addr, h, feed)

	h.SetWhitelist(parseMACs(cfg.Whitelist))
	h.SetBlacklist(parseMACs(cfg.Blacklist))
	h.SetSSIDFilter(cfg.SSIDs)

	var source ports.FrameSource
	if cfg.PcapFile != "" {
		source, err = capture.OpenFile(cfg.PcapFile)
	} else {
		source, err = capture.OpenLive(cfg.Interface)
	}
	if err != nil {
		log.Fatalf("capture source: %v", err)
	}
	defer source.Close()

	var sink ports.FrameSink = noopSink{}
	if cfg.GRPCAddr != "" {
		client, err := bridge.Dial(ctx, cfg.GRPCAddr)
		if err != nil {
			log.Fatalf("bridge dial: %v", err)
		}
		defer client.Close()
		sink = client
	}

	var rawSink ports.RawFrameSink = noopRawSink{}
	if live, ok := source.(*capture.LiveSource); ok {
		rawSink = capture.NewInjector(live)
	}

	go func() {
		if err := ctrl.Run(ctx); err != nil {
			slog.Error("control API exited", "err", err)
		}
	}()

	stats := runDriverLoop(ctx, sessionID, source, h, sink, rawSink, auditStore)

	if cfg.ReportPath != "" {
		writeReport(sessionID, h, auditStore, stats, cfg.ReportPath)
	}
}

// driverStats accumulates the per-session counts the end-of-session report
// renders; it mirrors what the telemetry counters track but is read back
// locally instead of scraped, since the report is generated in-process.
type driverStats struct {
	framesByKind    map[string]int
	framesConverted int
	acksBuilt       int
	framesDropped   int
}

func runDriverLoop(ctx context.Context, sessionID string, source ports.FrameSource, h *handler.Handler, sink ports.FrameSink, rawSink ports.RawFrameSink, auditStore *audit.Store) *driverStats {
	stats := &driverStats{framesByKind: make(map[string]int)}

	for {
		select {
		case <-ctx.Done():
			return stats
		default:
		}

		frame, ok, err := source.Next()
		if err != nil {
			slog.Error("capture read failed", "err", err)
			return stats
		}
		if !ok {
			return stats
		}
		if frame == nil {
			continue
		}

		_, span := telemetry.StartUpdateIteration(ctx, len(frame))
		h.Update(frame)
		span.End()

		if reason, dropped := h.DropReason(); dropped {
			telemetry.FramesDropped.WithLabelValues(reason).Inc()
			stats.framesDropped++
		} else {
			kind := h.CurrentKind().String()
			telemetry.FramesClassified.WithLabelValues(kind).Inc()
			stats.framesByKind[kind]++
		}

		if bssid, locked := h.LockedBSSID(); locked {
			_ = auditStore.Record(sessionID, audit.EventBSSIDLocked, bssid.String())
		}

		if h.IsAckable() {
			ack := builder.BuildAck(h.DestinationMAC(), h.DataParams())
			if err := rawSink.Inject(ack); err != nil {
				slog.Warn("ack injection failed", "err", err)
			} else {
				telemetry.AcksBuilt.Inc()
				stats.acksBuilt++
			}
		}

		if h.IsConvertible() {
			eth := h.ConvertToEthernet()
			if !eth.Empty() {
				if err := sink.Forward(eth); err != nil {
					slog.Warn("bridge forward failed", "err", err)
				}
				telemetry.FramesConverted.Inc()
				stats.framesConverted++
			}
		}
	}
}

func writeReport(sessionID string, h *handler.Handler, auditStore *audit.Store, stats *driverStats, path string) {
	highlights, err := auditStore.Highlights(sessionID, 20)
	if err != nil {
		slog.Warn("report: audit highlights unavailable", "err", err)
	}
	bssid, _ := h.LockedBSSID()
	summary := report.Summary{
		SessionID:       sessionID,
		LockedSSID:      h.LockedSSID(),
		LockedBSSID:     bssid,
		FramesByKind:    stats.framesByKind,
		FramesConverted: stats.framesConverted,
		AcksBuilt:       stats.acksBuilt,
		FramesDropped:   stats.framesDropped,
		AuditHighlights: highlights,
	}
	pdf, err := report.NewExporter().Export(summary)
	if err != nil {
		slog.Error("report generation failed", "err", err)
		return
	}
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		slog.Error("report write failed", "err", err)
	}
}

func parseMACs(raw []string) []domain.MAC {
	out := make([]domain.MAC, 0, len(raw))
	for _, s := range raw {
		m, err := domain.ParseMAC(s)
		if err != nil {
			slog.Warn("skipping invalid MAC in configuration", "mac", s, "err", err)
			continue
		}
		out = append(out, m)
	}
	return out
}

type noopSink struct{}

func (noopSink) Forward(domain.EthernetII) error { return nil }

type noopRawSink struct{}

func (noopRawSink) Inject([]byte) error { return nil }
