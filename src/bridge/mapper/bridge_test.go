package mapper

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/scriptedit/bridge/src/bridge/entity"
	"github.com/scriptedit/bridge/src/bridge/factory"
	"github.com/scriptedit/bridge/src/bridge/internal/errors"
	"github.com/scriptedit/bridge/src/bridge/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageToRequest(t *testing.T) {
	tests := []struct {
		name          string
		msg           string
		wantAction    string
		wantRequestID string
		wantErr       error
		wantBadReq    bool
	}{
		{
			name:          "handshake",
			msg:           `{"action":"handshake","requestId":7,"projectRoot":"/p","unityPort":40000}`,
			wantAction:    entity.ActionHandshake,
			wantRequestID: "7",
		},
		{
			name:          "string request id is echoed verbatim",
			msg:           `{"action":"batchRename","requestId":"abc","projectRoot":"/p","requests":[]}`,
			wantAction:    entity.ActionBatchRename,
			wantRequestID: `"abc"`,
		},
		{
			name:          "missing action",
			msg:           `{"requestId":3}`,
			wantRequestID: "3",
			wantErr:       errors.MissingActionError,
			wantBadReq:    true,
		},
		{
			name:       "non string action",
			msg:        `{"action":5}`,
			wantErr:    errors.MissingActionError,
			wantBadReq: true,
		},
		{
			name:       "empty action",
			msg:        `{"action":""}`,
			wantErr:    errors.MissingActionError,
			wantBadReq: true,
		},
		{
			name:       "array",
			msg:        `[1,2]`,
			wantErr:    errors.MissingActionError,
			wantBadReq: true,
		},
		{
			name:       "number",
			msg:        `42`,
			wantErr:    errors.MissingActionError,
			wantBadReq: true,
		},
		{
			name:       "string",
			msg:        `"x"`,
			wantErr:    errors.MissingActionError,
			wantBadReq: true,
		},
		{
			name:       "null",
			msg:        `null`,
			wantErr:    errors.MissingActionError,
			wantBadReq: true,
		},
		{
			name:          "malformed requests",
			msg:           `{"action":"batchRename","requestId":9,"requests":"nope"}`,
			wantAction:    entity.ActionBatchRename,
			wantRequestID: "9",
			wantBadReq:    true,
		},
		{
			name:       "unknown action still decodes",
			msg:        `{"action":"launch"}`,
			wantAction: "launch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := MessageToRequest(json.RawMessage(tt.msg))
			require.NotNil(t, req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantBadReq {
				assert.True(t, errors.IsBadRequest(err))
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantAction, req.Action)
			assert.Equal(t, tt.wantRequestID, string(req.RequestID))
		})
	}
}

func TestMessageToRequestEntries(t *testing.T) {
	msg := `{"action":"batchRename","projectRoot":"/p","requests":[` +
		`{"oldNamespace":"A","newNamespace":"B"},` +
		`{"oldClass":"Foo","newClass":"Bar","oldFile":"/p/Foo.cs","newFile":"/p/Bar.cs"}]}`

	req, err := MessageToRequest(json.RawMessage(msg))
	require.NoError(t, err)
	require.Len(t, req.Requests, 2)
	assert.True(t, req.Requests[0].HasNamespace())
	assert.False(t, req.Requests[0].HasClass())
	assert.True(t, req.Requests[1].HasClass())
	assert.True(t, req.Requests[1].HasFileMove())
	assert.Nil(t, req.RequestID)
}

func TestUnityPort(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   int
		wantOK bool
	}{
		{name: "valid", raw: "40000", want: 40000, wantOK: true},
		{name: "integral float", raw: "40000.0", want: 40000, wantOK: true},
		{name: "absent", raw: ""},
		{name: "null", raw: "null"},
		{name: "string", raw: `"40000"`},
		{name: "fraction", raw: "1.5"},
		{name: "zero", raw: "0"},
		{name: "too large", raw: "65536"},
		{name: "max", raw: "65535", want: 65535, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			port, ok := UnityPort(&entity.Request{UnityPort: json.RawMessage(tt.raw)})
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, port)
		})
	}

	_, ok := UnityPort(nil)
	assert.False(t, ok)
}

func TestRequestToEntries(t *testing.T) {
	single := &entity.Request{
		Action:      entity.ActionRename,
		RenameEntry: factory.ClassRename("Foo", "Bar", ""),
	}
	assert.Equal(t, []entity.RenameEntry{factory.ClassRename("Foo", "Bar", "")}, RequestToEntries(single))

	batch := factory.BatchRenameRequest(1, "/p", factory.NamespaceRename("A", "B"), factory.FileMove("/p/a.cs", "/p/b.cs"))
	assert.Len(t, RequestToEntries(batch), 2)
}

func TestResponseToLine(t *testing.T) {
	line, err := ResponseToLine(NewOKResponse(factory.RequestID(4), "/proj"))
	require.NoError(t, err)
	assert.Equal(t, `{"requestId":4,"status":"ok","projectRoot":"/proj"}`+"\n", string(line))

	line, err = ResponseToLine(ErrorToResponse(nil, errors.MissingActionError))
	require.NoError(t, err)
	assert.Equal(t, `{"status":"error","message":"Missing or invalid action field"}`+"\n", string(line))
}

func TestSessionMapping(t *testing.T) {
	s := factory.Session()
	now := time.Now()

	m := SessionToModel(&s, now)
	assert.Equal(t, &model.Session{PeerAddress: s.PeerAddress, CallbackPort: s.CallbackPort, RecordedAt: now}, m)
	assert.Equal(t, &s, ModelToSession(m))
}
