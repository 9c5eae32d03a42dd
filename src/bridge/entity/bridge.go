// Package entity contains the domain types for the scriptedit bridge daemon.
package entity

import (
	"encoding/json"
)

// Action names accepted on the wire.
const (
	ActionHandshake   = "handshake"
	ActionRename      = "rename"
	ActionBatchRename = "batchRename"
)

// Status values carried by a Response.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// HandshakeAck is the message sent with a successful handshake.
const HandshakeAck = "handshake-ack"

// SymbolKind identifies the kind of code construct being renamed.
type SymbolKind int

const (
	// SymbolKindNamespace is a namespace declaration.
	SymbolKindNamespace SymbolKind = iota + 1
	// SymbolKindClass is a class declaration.
	SymbolKindClass
)

// String implements fmt.Stringer.
func (k SymbolKind) String() string {
	switch k {
	case SymbolKindNamespace:
		return "namespace"
	case SymbolKindClass:
		return "class"
	default:
		return "unknown"
	}
}

// Request is a single decoded message received from the peer.
// RequestID is kept as raw JSON so that it can be echoed back verbatim.
type Request struct {
	Action      string          `json:"action"`
	RequestID   json.RawMessage `json:"requestId,omitempty"`
	ProjectRoot string          `json:"projectRoot,omitempty"`
	UnityPort   json.RawMessage `json:"unityPort,omitempty"`
	Requests    []RenameEntry   `json:"requests,omitempty"`

	// Single-entry fields used by the "rename" action.
	RenameEntry
}

// RenameEntry is one unit of work inside a batch.
type RenameEntry struct {
	OldNamespace string `json:"oldNamespace,omitempty"`
	NewNamespace string `json:"newNamespace,omitempty"`
	OldClass     string `json:"oldClass,omitempty"`
	NewClass     string `json:"newClass,omitempty"`
	OldFile      string `json:"oldFile,omitempty"`
	NewFile      string `json:"newFile,omitempty"`
}

// HasNamespace reports whether the entry renames a namespace.
func (e RenameEntry) HasNamespace() bool {
	return e.OldNamespace != "" && e.NewNamespace != ""
}

// HasClass reports whether the entry renames a class.
func (e RenameEntry) HasClass() bool {
	return e.OldClass != "" && e.NewClass != ""
}

// HasFileMove reports whether the entry moves a file.
func (e RenameEntry) HasFileMove() bool {
	return e.OldFile != "" && e.NewFile != ""
}

// Response is the single reply produced for a completed Request.
type Response struct {
	RequestID   json.RawMessage `json:"requestId,omitempty"`
	Status      string          `json:"status"`
	Message     string          `json:"message,omitempty"`
	ProjectRoot string          `json:"projectRoot,omitempty"`
}

// OK reports whether the response carries a successful status.
func (r *Response) OK() bool {
	return r != nil && r.Status == StatusOK
}

// Session is the most recently validated remote peer.
type Session struct {
	PeerAddress  string `json:"peerAddress"`
	CallbackPort int    `json:"callbackPort"`
}

// Location identifies a symbol declaration within a file.
// Line and Character are zero based, Character counted in UTF-16 code units.
type Location struct {
	// Name is the declared name of the symbol found at this location.
	Name      string `json:"name"`
	Path      string `json:"path"`
	Line      uint32 `json:"line"`
	Character uint32 `json:"character"`
}

// FileMove is a queued file rename collected during the symbol edit phase.
type FileMove struct {
	// Entry is the one-based index of the batch entry that requested the move.
	Entry   int
	OldPath string
	NewPath string
}
