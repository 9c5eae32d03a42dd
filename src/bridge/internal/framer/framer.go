// Package framer splits a byte stream into newline-delimited JSON messages.
package framer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"

	"go.uber.org/zap"
)

const _readChunkSize = 4096

// Framer buffers partial input and emits one message per complete line.
// A Framer is owned by a single connection and is not safe for concurrent use.
type Framer struct {
	logger *zap.SugaredLogger
	buf    bytes.Buffer
}

// New creates a Framer that logs dropped lines to logger.
func New(logger *zap.SugaredLogger) *Framer {
	return &Framer{logger: logger}
}

// Push appends a chunk and returns every complete JSON message it finished, in order.
// Blank lines are skipped and lines that are not valid JSON are logged and dropped.
func (f *Framer) Push(chunk []byte) []json.RawMessage {
	f.buf.Write(chunk)

	var msgs []json.RawMessage
	for {
		idx := bytes.IndexByte(f.buf.Bytes(), '\n')
		if idx < 0 {
			break
		}
		line := make([]byte, idx)
		copy(line, f.buf.Next(idx+1))

		line = bytes.TrimSuffix(line, []byte("\r"))
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if !json.Valid(line) {
			f.logger.Warnw("dropping malformed message", "line", string(line))
			continue
		}
		msgs = append(msgs, json.RawMessage(line))
	}
	return msgs
}

// Buffered returns the number of bytes held for an incomplete line.
func (f *Framer) Buffered() int {
	return f.buf.Len()
}

// Run reads r until EOF, a closed connection or a cancelled context, calling emit for every message.
// emit is called from the reading goroutine, so a slow emit delays subsequent reads.
func (f *Framer) Run(ctx context.Context, r io.Reader, emit func(json.RawMessage)) error {
	chunk := make([]byte, _readChunkSize)
	for {
		if ctx.Err() != nil {
			return nil
		}

		n, err := r.Read(chunk)
		if n > 0 {
			for _, msg := range f.Push(chunk[:n]) {
				emit(msg)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				if f.Buffered() > 0 {
					f.logger.Debugw("discarding incomplete message at end of stream", "bytes", f.Buffered())
				}
				return nil
			}
			return err
		}
	}
}
