package dispatch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rickgao/mocap-bridge/internal/model"
	"github.com/rickgao/mocap-bridge/internal/record"
	"github.com/rickgao/mocap-bridge/internal/transform"
)

// Sender delivers one encoded frame. It reports whether delivery succeeded.
type Sender interface {
	Send(data []byte) bool
}

// Stats contains runtime statistics.
type Stats struct {
	FramesReceived int64 // Frames passed to Dispatch
	BodiesEncoded  int64 // Valid bodies encoded, whether or not the send succeeded
	BodiesSkipped  int64 // Bodies dropped for invalid tracking
	EmptyFrames    int64 // Frames with no valid body (no send)
	SendsOK        int64
	SendsFailed    int64
	Panics         int64 // Recovered panics inside Dispatch
}

// Dispatcher is the frame callback.
type Dispatcher struct {
	sender  Sender
	adapter transform.Adapter
	encoder *record.Encoder
	logger  *slog.Logger

	// Stats
	mu    sync.RWMutex
	stats Stats
	last  model.FrameSummary
	seen  bool
}

// New creates a Dispatcher. A nil adapter forwards poses untouched; a nil
// encoder uses record.DefaultPrecision.
func New(sender Sender, adapter transform.Adapter, encoder *record.Encoder, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if adapter == nil {
		adapter = transform.Identity
	}
	if encoder == nil {
		encoder = record.NewEncoder(record.DefaultPrecision)
	}

	return &Dispatcher{
		sender:  sender,
		adapter: adapter,
		encoder: encoder,
		logger:  logger,
	}
}

// HandleFrame implements capture.FrameHandler.
func (d *Dispatcher) HandleFrame(frame model.Frame) {
	d.Dispatch(frame)
}

// Dispatch processes one frame and reports whether a record was sent
// successfully. It never panics.
func (d *Dispatcher) Dispatch(frame model.Frame) (sent bool) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("frame dispatch panicked",
				"frame", frame.Index,
				"panic", r,
			)
			d.mu.Lock()
			d.stats.Panics++
			d.mu.Unlock()
			sent = false
		}
	}()

	d.logFrame(frame)

	buf := d.encode(frame)
	attempted := len(buf) > 0
	if attempted {
		sent = d.sender.Send(buf)
	}

	switch {
	case !attempted:
		d.logger.Debug("sending data: nothing to send", "frame", frame.Index)
	case sent:
		d.logger.Debug("sending data: ok", "frame", frame.Index, "bytes", len(buf))
	default:
		d.logger.Debug("sending data: socket closed", "frame", frame.Index, "bytes", len(buf))
	}

	d.record(frame, attempted, sent)
	return sent
}

// Stats returns current statistics.
func (d *Dispatcher) Stats() Stats {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.stats
}

// LastFrame returns a summary of the most recently dispatched frame.
func (d *Dispatcher) LastFrame() (model.FrameSummary, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.last, d.seen
}

// encode builds the frame record from valid bodies.
func (d *Dispatcher) encode(frame model.Frame) []byte {
	var buf []byte
	for _, body := range frame.Bodies {
		d.logger.Debug("rigid body",
			"id", body.ID,
			"error", body.MeanError,
			"valid", body.Valid,
			"x", body.Pose.Position.X,
			"y", body.Pose.Position.Y,
			"z", body.Pose.Position.Z,
		)
		if !body.Valid {
			continue
		}

		adapted := body
		adapted.Pose = d.adapter.Adapt(body.Pose)
		buf = d.encoder.Append(buf, adapted, frame.Timestamp)
	}
	return buf
}

func (d *Dispatcher) record(frame model.Frame, attempted, sent bool) {
	valid := frame.ValidCount()

	d.mu.Lock()
	defer d.mu.Unlock()

	d.stats.FramesReceived++
	d.stats.BodiesEncoded += int64(valid)
	d.stats.BodiesSkipped += int64(len(frame.Bodies) - valid)
	switch {
	case !attempted:
		d.stats.EmptyFrames++
	case sent:
		d.stats.SendsOK++
	default:
		d.stats.SendsFailed++
	}

	d.last = model.FrameSummary{
		Index:     frame.Index,
		Timestamp: frame.Timestamp,
		Bodies:    len(frame.Bodies),
		Valid:     valid,
		Sent:      sent,
	}
	d.seen = true
}

func (d *Dispatcher) logFrame(frame model.Frame) {
	if !d.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	d.logger.Debug("frame",
		"frame", frame.Index,
		"timestamp", frame.Timestamp,
		"latency", frame.Latency,
		"recording", frame.Recording,
		"models_changed", frame.ModelsChanged,
		"bodies", len(frame.Bodies),
	)
}
