package factory

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"github.com/gofrs/uuid"
	"github.com/scriptedit/bridge/src/bridge/entity"
)

// UUID is a user-defined factory for a random uuid.UUID.
func UUID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

// RequestID is a factory for a raw numeric request id.
func RequestID(id int) json.RawMessage {
	return json.RawMessage(fmt.Sprintf("%d", id))
}

// Port is a factory for a random unprivileged port number.
func Port() int {
	return 1024 + rand.Intn(65535-1024)
}

// Session is a factory for a loopback session with a random callback port.
func Session() entity.Session {
	return entity.Session{
		PeerAddress:  "127.0.0.1",
		CallbackPort: Port(),
	}
}

// ClassRename is a factory for an entry renaming a class declared in the given file.
func ClassRename(oldClass, newClass, oldFile string) entity.RenameEntry {
	return entity.RenameEntry{
		OldClass: oldClass,
		NewClass: newClass,
		OldFile:  oldFile,
	}
}

// NamespaceRename is a factory for an entry renaming a namespace.
func NamespaceRename(oldNamespace, newNamespace string) entity.RenameEntry {
	return entity.RenameEntry{
		OldNamespace: oldNamespace,
		NewNamespace: newNamespace,
	}
}

// FileMove is a factory for an entry that only moves a file.
func FileMove(oldFile, newFile string) entity.RenameEntry {
	return entity.RenameEntry{
		OldFile: oldFile,
		NewFile: newFile,
	}
}

// HandshakeRequest is a factory for a decoded handshake request.
func HandshakeRequest(id int, projectRoot string, unityPort int) *entity.Request {
	return &entity.Request{
		Action:      entity.ActionHandshake,
		RequestID:   RequestID(id),
		ProjectRoot: projectRoot,
		UnityPort:   json.RawMessage(fmt.Sprintf("%d", unityPort)),
	}
}

// BatchRenameRequest is a factory for a decoded batchRename request without a declared callback port.
func BatchRenameRequest(id int, projectRoot string, entries ...entity.RenameEntry) *entity.Request {
	return &entity.Request{
		Action:      entity.ActionBatchRename,
		RequestID:   RequestID(id),
		ProjectRoot: projectRoot,
		Requests:    entries,
	}
}

// Message is a factory for one encoded wire message.
func Message(v interface{}) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
