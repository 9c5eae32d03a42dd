package mapper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/scriptedit/bridge/src/bridge/entity"
	"github.com/scriptedit/bridge/src/bridge/internal/errors"
	"github.com/scriptedit/bridge/src/bridge/model"
)

const (
	_minPort = 1
	_maxPort = 65535
)

// MessageToRequest decodes one framed message into a Request.
// When the message can be identified but not decoded, the returned Request still carries
// the RequestID so that the error response can be correlated by the peer.
func MessageToRequest(msg json.RawMessage) (*entity.Request, error) {
	var generic map[string]json.RawMessage
	if err := json.Unmarshal(msg, &generic); err != nil {
		// Well-formed JSON that isn't an object has no action to dispatch on.
		if json.Valid(msg) {
			return &entity.Request{}, errors.MissingActionError
		}
		return &entity.Request{}, &errors.ProtocolError{Msg: fmt.Sprintf("message is not a JSON object: %v", err)}
	}

	partial := &entity.Request{RequestID: requestIDFromRaw(generic["requestId"])}

	rawAction, ok := generic["action"]
	if !ok {
		return partial, errors.MissingActionError
	}
	if err := json.Unmarshal(rawAction, &partial.Action); err != nil || partial.Action == "" {
		return partial, errors.MissingActionError
	}

	req := entity.Request{}
	if err := json.Unmarshal(msg, &req); err != nil {
		return partial, &errors.ProtocolError{Msg: fmt.Sprintf("malformed %s request: %v", partial.Action, err)}
	}
	req.RequestID = partial.RequestID
	return &req, nil
}

// UnityPort returns the callback port declared on a request and whether it is a valid port number.
func UnityPort(req *entity.Request) (int, bool) {
	if req == nil || len(req.UnityPort) == 0 || bytes.Equal(req.UnityPort, []byte("null")) {
		return 0, false
	}

	var f float64
	if err := json.Unmarshal(req.UnityPort, &f); err != nil {
		return 0, false
	}
	if f != math.Trunc(f) || f < _minPort || f > _maxPort {
		return 0, false
	}
	return int(f), true
}

// RequestToEntries returns the rename entries carried by a request.
// The single-entry "rename" action carries its entry inline.
func RequestToEntries(req *entity.Request) []entity.RenameEntry {
	if req.Action == entity.ActionRename {
		return []entity.RenameEntry{req.RenameEntry}
	}
	return req.Requests
}

// ResponseToLine encodes a Response as one newline terminated JSON line.
func ResponseToLine(resp *entity.Response) ([]byte, error) {
	b, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("marshalling response: %w", err)
	}
	return append(b, '\n'), nil
}

// NewOKResponse creates a successful Response for the given request id.
func NewOKResponse(requestID json.RawMessage, projectRoot string) *entity.Response {
	return &entity.Response{
		RequestID:   requestID,
		Status:      entity.StatusOK,
		ProjectRoot: projectRoot,
	}
}

// ErrorToResponse maps an error into an error Response for the given request id.
func ErrorToResponse(requestID json.RawMessage, err error) *entity.Response {
	return &entity.Response{
		RequestID: requestID,
		Status:    entity.StatusError,
		Message:   err.Error(),
	}
}

// SessionToModel maps a Session entity to its model equivalent.
func SessionToModel(s *entity.Session, recordedAt time.Time) *model.Session {
	return &model.Session{
		PeerAddress:  s.PeerAddress,
		CallbackPort: s.CallbackPort,
		RecordedAt:   recordedAt,
	}
}

// ModelToSession maps a model Session to its entity equivalent.
func ModelToSession(s *model.Session) *entity.Session {
	return &entity.Session{
		PeerAddress:  s.PeerAddress,
		CallbackPort: s.CallbackPort,
	}
}

func requestIDFromRaw(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	return raw
}
