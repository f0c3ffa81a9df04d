package capture

import (
	"context"

	"github.com/rickgao/mocap-bridge/internal/model"
)

// FrameHandler receives captured frames.
type FrameHandler interface {
	HandleFrame(frame model.Frame)
}

// FrameHandlerFunc is a function adapter for FrameHandler.
type FrameHandlerFunc func(model.Frame)

func (f FrameHandlerFunc) HandleFrame(frame model.Frame) {
	f(frame)
}

// Source is a frame producer.
type Source interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Reset()
}
