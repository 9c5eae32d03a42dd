package bridgedaemon

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/gofrs/uuid"
	controller "github.com/scriptedit/bridge/src/bridge/controller/bridge-daemon"
	"github.com/scriptedit/bridge/src/bridge/controller/responder"
	"github.com/scriptedit/bridge/src/bridge/entity"
	"github.com/scriptedit/bridge/src/bridge/internal/errors"
	"github.com/scriptedit/bridge/src/bridge/mapper"
	"github.com/uber-go/tally"
	"go.uber.org/zap"
)

const _errUnknownAction = "Unknown action '%s'"

type router struct {
	uuid        uuid.UUID
	conn        net.Conn
	peerAddress string
	ctrl        controller.Controller
	responder   responder.Responder
	inflight    *sync.WaitGroup
	logger      *zap.SugaredLogger
	stats       tally.Scope
}

// HandleMessage handles routing for a single message.
// Handshakes are answered before returning, batches are answered from their own goroutine.
func (r *router) HandleMessage(ctx context.Context, msg json.RawMessage) {
	var req *entity.Request
	defer func() {
		if p := recover(); p != nil {
			r.recovered(ctx, req, p)
		}
	}()

	req, err := mapper.MessageToRequest(msg)
	if err != nil {
		r.count("invalid")
		r.deliver(ctx, mapper.ErrorToResponse(req.RequestID, err), r.callbackDelivery(req))
		return
	}

	switch req.Action {
	case entity.ActionHandshake:
		r.count(req.Action)
		r.handshake(ctx, req)

	case entity.ActionBatchRename, entity.ActionRename:
		r.count(req.Action)
		r.batchRename(ctx, req)

	default:
		r.count("unknown")
		err := &errors.ProtocolError{Msg: fmt.Sprintf(_errUnknownAction, req.Action)}
		r.deliver(ctx, mapper.ErrorToResponse(req.RequestID, err), r.callbackDelivery(req))
	}
}

func (r *router) UUID() uuid.UUID {
	return r.uuid
}

// handshake answers on the request connection and closes it.
// A rejected handshake is also sent to the declared callback port.
func (r *router) handshake(ctx context.Context, req *entity.Request) {
	resp, err := r.ctrl.Handshake(ctx, req, r.peerAddress)
	if err != nil {
		r.logger.Warnw("handshake rejected", zap.Error(err))
		d := r.callbackDelivery(req)
		d.CloseAfter = true
		// Without a declared port the registry would route the rejection to another peer.
		if d.CallbackPort == 0 {
			d.SkipCallback = true
		}
		r.deliver(ctx, mapper.ErrorToResponse(req.RequestID, err), d)
		return
	}

	r.deliver(ctx, resp, responder.Delivery{
		Conn:         r.conn,
		PeerAddress:  r.peerAddress,
		CloseAfter:   true,
		SkipCallback: true,
	})
}

// batchRename runs the batch in its own goroutine so that the connection keeps reading.
// The batch outlives both the connection and the listener.
func (r *router) batchRename(ctx context.Context, req *entity.Request) {
	batchCtx := context.WithoutCancel(ctx)
	d := r.callbackDelivery(req)

	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		defer func() {
			if p := recover(); p != nil {
				r.recovered(batchCtx, req, p)
			}
		}()

		resp, err := r.ctrl.BatchRename(batchCtx, req)
		if err != nil {
			r.logBatchError(req, err)
			resp = mapper.ErrorToResponse(req.RequestID, err)
			resp.ProjectRoot = r.ctrl.ProjectRoot()
		}
		r.deliver(batchCtx, resp, d)
	}()
}

func (r *router) logBatchError(req *entity.Request, err error) {
	requestID := string(req.RequestID)
	switch {
	case errors.IsBadRequest(err):
		r.logger.Infow("batch rejected", "requestId", requestID, zap.Error(err))
	case errors.IsFatalToBatch(err):
		r.logger.Warnw("batch failed", "requestId", requestID, zap.Error(err))
	default:
		r.logger.Errorw("batch failed", "requestId", requestID, zap.Error(err))
	}
}

// callbackDelivery targets the request connection and the callback listener, keeping the connection open.
func (r *router) callbackDelivery(req *entity.Request) responder.Delivery {
	d := responder.Delivery{
		Conn:        r.conn,
		PeerAddress: r.peerAddress,
	}
	if port, ok := mapper.UnityPort(req); ok {
		d.CallbackPort = port
	}
	return d
}

func (r *router) deliver(ctx context.Context, resp *entity.Response, d responder.Delivery) {
	if err := r.responder.Deliver(ctx, resp, d); err != nil {
		r.logger.Warnw("response delivery incomplete", "requestId", string(resp.RequestID), zap.Error(err))
	}
}

func (r *router) recovered(ctx context.Context, req *entity.Request, p interface{}) {
	r.stats.Counter("panics").Inc(1)
	r.logger.Errorw("recovered from panic", "panic", p, zap.Stack("stack"))

	var requestID json.RawMessage
	if req != nil {
		requestID = req.RequestID
	}
	r.deliver(ctx, mapper.ErrorToResponse(requestID, fmt.Errorf("internal error: %v", p)), r.callbackDelivery(req))
}

func (r *router) count(action string) {
	r.stats.Tagged(map[string]string{"action": action}).Counter("requests").Inc(1)
}
