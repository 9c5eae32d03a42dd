package bridgedaemon

import (
	"context"
	"fmt"

	"github.com/scriptedit/bridge/src/bridge/entity"
	"github.com/scriptedit/bridge/src/bridge/internal/errors"
	"github.com/scriptedit/bridge/src/bridge/mapper"
)

func (c *controller) Handshake(ctx context.Context, req *entity.Request, peerAddress string) (*entity.Response, error) {
	declared := c.normalizePath(req.ProjectRoot)
	if declared == "" {
		return nil, &errors.ValidationError{Msg: "handshake missing projectRoot"}
	}
	port, ok := mapper.UnityPort(req)
	if !ok {
		return nil, &errors.ValidationError{Msg: "handshake missing or invalid unityPort"}
	}
	if !c.acceptsRoot(declared) {
		return nil, c.mismatchedRoot(req.ProjectRoot)
	}

	s := entity.Session{PeerAddress: peerAddress, CallbackPort: port}
	if err := c.sessions.Record(ctx, s); err != nil {
		return nil, fmt.Errorf("recording session: %w", err)
	}
	c.logger.Infow("handshake accepted", "peerAddress", s.PeerAddress, "callbackPort", s.CallbackPort, "declaredRoot", req.ProjectRoot)

	return &entity.Response{
		RequestID:   req.RequestID,
		Status:      entity.StatusOK,
		Message:     entity.HandshakeAck,
		ProjectRoot: c.projectRoot,
	}, nil
}
