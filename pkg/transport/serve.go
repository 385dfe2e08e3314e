package transport

import (
	"errors"
	"io"
	"net"

	"go.uber.org/zap"

	"github.com/nidefawl/yabridge/pkg/wire"
)

// Handler processes one decoded request and produces the response. The
// onMainThread hint tells GUI-affine handlers whether they may touch the
// main thread directly or must queue the work for the next host idle.
type Handler[Req, Resp wire.Message] func(req Req, onMainThread bool) Resp

// Serve runs the receive loop for one channel: read a frame, decode it into
// a fresh request, invoke the handler, write the encoded response. It
// returns when the channel closes. Decode failures during steady state are
// logged and terminate the loop, surfacing as transport failure to the
// peer's call in progress.
func Serve[Req, Resp wire.Message](ch *Channel, newReq func() Req, handler Handler[Req, Resp], logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	for {
		req := newReq()
		if err := ch.Receive(req); err != nil {
			if isClosed(err) {
				return nil
			}
			logger.Error("receive loop failed",
				zap.String("channel", ch.Name()), zap.Error(err))
			return err
		}
		resp := handler(req, false)
		if err := ch.Send(resp); err != nil {
			if isClosed(err) {
				return nil
			}
			logger.Error("sending response failed",
				zap.String("channel", ch.Name()), zap.Error(err))
			return err
		}
	}
}

func isClosed(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, net.ErrClosed)
}
