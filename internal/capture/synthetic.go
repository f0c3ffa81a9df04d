package capture

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rickgao/mocap-bridge/internal/model"
)

// ErrAlreadyStarted is returned by Start on a running source.
var ErrAlreadyStarted = errors.New("capture source already started")

const (
	rollAmplitude  = 35.0 * math.Pi / 180.0
	pitchAmplitude = 25.0 * math.Pi / 180.0
	yawAmplitude   = 40.0 * math.Pi / 180.0

	rollFreqHz  = 0.23
	pitchFreqHz = 0.31
	yawFreqHz   = 0.17

	baseMeanError = 0.0002
)

// Body describes one synthetic rigid body.
type Body struct {
	ID           int
	Radius       float64       // Circle radius in metres
	Height       float64       // Height above the floor (capture Y axis)
	Period       time.Duration // Time for one lap (default: 4s)
	DropoutEvery int           // Mark every Nth frame untracked; 0 disables
}

// Config holds synthetic source configuration.
type Config struct {
	RateHz int // Frames per second (default: 120)
	Bodies []Body
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		RateHz: 120,
		Bodies: []Body{
			{ID: 1, Radius: 1.0, Height: 1.5, Period: 4 * time.Second},
		},
	}
}

// Synthetic generates frames from a closed-form motion model.
type Synthetic struct {
	cfg     Config
	handler FrameHandler
	logger  *slog.Logger
	now     func() time.Time

	mu      sync.Mutex
	start   time.Time
	index   int
	changed bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSynthetic creates a synthetic source delivering frames to handler.
func NewSynthetic(cfg Config, handler FrameHandler, logger *slog.Logger) *Synthetic {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RateHz <= 0 {
		cfg.RateHz = DefaultConfig().RateHz
	}
	bodies := make([]Body, len(cfg.Bodies))
	copy(bodies, cfg.Bodies)
	for i := range bodies {
		if bodies[i].Period <= 0 {
			bodies[i].Period = 4 * time.Second
		}
	}
	cfg.Bodies = bodies

	s := &Synthetic{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
		now:     time.Now,
	}
	s.start = s.now()
	s.changed = true
	return s
}

// Start begins the frame loop.
func (s *Synthetic) Start(ctx context.Context) error {
	if s.cancel != nil {
		return ErrAlreadyStarted
	}
	s.Reset()
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.run()

	s.logger.Info("capture source started",
		"rate_hz", s.cfg.RateHz,
		"bodies", len(s.cfg.Bodies),
	)
	return nil
}

// Stop halts the frame loop and waits for the in-flight frame. A stopped
// source may be started again.
func (s *Synthetic) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancel = nil
		s.logger.Info("capture source stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reset restarts the frame index and the motion clock.
func (s *Synthetic) Reset() {
	s.mu.Lock()
	s.start = s.now()
	s.index = 0
	s.changed = true
	s.mu.Unlock()

	s.logger.Info("capture source reset")
}

func (s *Synthetic) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.RateHz))
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.handler.HandleFrame(s.next())
		}
	}
}

// next builds the frame for the current instant and advances the index.
func (s *Synthetic) next() model.Frame {
	tick := s.now()

	s.mu.Lock()
	index := s.index
	s.index++
	changed := s.changed
	s.changed = false
	t := tick.Sub(s.start).Seconds()
	s.mu.Unlock()

	frame := model.Frame{
		Index:         index,
		Timestamp:     t,
		ModelsChanged: changed,
		Bodies:        make([]model.RigidBodySample, 0, len(s.cfg.Bodies)),
	}

	n := len(s.cfg.Bodies)
	for i, b := range s.cfg.Bodies {
		phase := 2 * math.Pi * float64(i) / float64(n)
		frame.Bodies = append(frame.Bodies, model.RigidBodySample{
			ID: b.ID,
			Pose: model.Pose{
				Position:    circlePosition(b, t, phase),
				Orientation: wobble(t + phase),
			},
			Valid:     !droppedOut(b, index),
			MeanError: baseMeanError * (1 + 0.5*math.Sin(2*math.Pi*t+phase)),
		})
	}

	frame.Latency = s.now().Sub(tick).Seconds()
	return frame
}

func droppedOut(b Body, index int) bool {
	return b.DropoutEvery > 0 && (index+1)%b.DropoutEvery == 0
}

func circlePosition(b Body, t, phase float64) r3.Vec {
	angle := 2*math.Pi*t/b.Period.Seconds() + phase
	s, c := math.Sincos(angle)
	return r3.Vec{X: b.Radius * c, Y: b.Height, Z: b.Radius * s}
}

// wobble returns an oscillating unit orientation.
func wobble(t float64) quat.Number {
	roll := rollAmplitude * math.Sin(2*math.Pi*rollFreqHz*t)
	pitch := pitchAmplitude * math.Sin(2*math.Pi*pitchFreqHz*t+math.Pi/3)
	yaw := yawAmplitude * math.Sin(2*math.Pi*yawFreqHz*t+2*math.Pi/3)

	sr, cr := math.Sincos(roll * 0.5)
	sp, cp := math.Sincos(pitch * 0.5)
	sy, cy := math.Sincos(yaw * 0.5)

	// ZYX intrinsic (yaw, pitch, roll).
	q := quat.Number{
		Real: cr*cp*cy + sr*sp*sy,
		Imag: sr*cp*cy - cr*sp*sy,
		Jmag: cr*sp*cy + sr*cp*sy,
		Kmag: cr*cp*sy - sr*sp*cy,
	}
	return quat.Scale(1/quat.Abs(q), q)
}
