// Package server implements the per-connection request loop and the
// accept loop that spawns one goroutine per connection, no event loop or
// cooperative scheduler involved.
//
// Grounded on original_source/src/Handler.cpp and src/server.cpp (accept
// loop detaching a thread per connection, handler owning the shared map),
// adapted to Go's net.Listen/goroutine-per-Accept idiom with a
// sync.WaitGroup tracking live connections and signal-driven shutdown.
package server

import (
	"errors"
	"io"
	"net"

	"github.com/akashmaji946/resp-kv/internal/command"
	"github.com/akashmaji946/resp-kv/internal/logging"
	"github.com/akashmaji946/resp-kv/internal/resp"
	"github.com/akashmaji946/resp-kv/internal/store"
)

// Store is the subset of store.Map this handler needs, parameterized over
// string keys and optional bulk-string values (nil means a stored null
// bulk string, matching resp.Value's own BulkString convention).
type Store = store.Map[string, []byte]

// Handler owns the shared store and runs the read-frame-parse-classify-
// dispatch-write loop for one connection at a time; a single Handler
// value is shared by every connection goroutine since it holds no
// per-connection state of its own.
type Handler struct {
	store Store
	log   *logging.Logger
}

// NewHandler builds a Handler over the given store.
func NewHandler(s Store, log *logging.Logger) *Handler {
	return &Handler{store: s, log: log}
}

// HandleConnection runs the request loop for conn until the peer closes
// the connection, a malformed value is seen, or a transport error occurs.
// It always closes conn before returning.
func (h *Handler) HandleConnection(conn net.Conn) {
	defer conn.Close()
	addr := conn.RemoteAddr().String()
	h.log.Info("connection accepted", "addr", addr)

	framer := resp.NewFramer()
	readBuf := make([]byte, resp.ConnBufCap)

	for {
		drained, err := h.drainFramer(framer, conn)
		if err != nil {
			h.closeWithReason(addr, err)
			return
		}
		if drained {
			continue
		}

		n, err := conn.Read(readBuf)
		if n > 0 {
			framer.Push(readBuf[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				h.log.Info("connection closed by peer", "addr", addr)
			} else {
				h.log.Error("transport error", "addr", addr, "error", err)
			}
			return
		}
	}
}

// drainFramer pops and handles every value currently buffered in framer,
// writing a response for each to conn in the order popped. It reports
// drained=true if at least one value was handled, and a non-nil error
// for a malformed value or a failed write; either is fatal and closes the
// connection.
func (h *Handler) drainFramer(framer *resp.Framer, conn net.Conn) (drained bool, err error) {
	for {
		v, ok, perr := framer.Pop()
		if perr != nil {
			return drained, perr
		}
		if !ok {
			return drained, nil
		}
		drained = true

		wire := h.dispatch(v)
		if _, werr := conn.Write(wire); werr != nil {
			return drained, werr
		}
	}
}

func (h *Handler) closeWithReason(addr string, err error) {
	if errors.Is(err, resp.ErrMalformed) {
		h.log.Error("malformed request, closing connection", "addr", addr, "error", err)
		return
	}
	h.log.Error("closing connection", "addr", addr, "error", err)
}

// dispatch classifies v and executes it against the store, returning the
// wire-encoded response to send back. It never returns an error: every
// outcome (success, unknown command, internal failure) has its own RESP
// encoding instead. Extract's error is ignored here — its Kind already
// says everything dispatch needs, including KindUnknown for anything
// well-formed that didn't match GET/SET/DEL.
func (h *Handler) dispatch(v resp.Value) []byte {
	cmd, _ := command.Extract(v)

	switch cmd.Kind {
	case command.KindGet:
		return h.handleGet(cmd)
	case command.KindSet:
		return h.handleSet(cmd)
	case command.KindDel:
		return h.handleDel(cmd)
	default:
		return resp.Bytes(resp.SimpleError("ERR Unknown subcommand or command"))
	}
}

func (h *Handler) handleGet(cmd command.Command) (out []byte) {
	defer h.recoverAsStoreFailure(&out)
	v, ok := h.store.Lookup(cmd.Key)
	if !ok {
		return resp.Bytes(resp.NullBulkString())
	}
	return resp.Bytes(resp.BulkStringOf(v))
}

func (h *Handler) handleSet(cmd command.Command) (out []byte) {
	defer h.recoverAsStoreFailure(&out)
	h.store.Insert(cmd.Key, cmd.Value.Bulk)
	return resp.Bytes(resp.SimpleString("OK"))
}

// handleDel always reports one key removed, a deliberate simplification
// rather than real Redis's removed-count semantics.
func (h *Handler) handleDel(cmd command.Command) (out []byte) {
	defer h.recoverAsStoreFailure(&out)
	h.store.Remove(cmd.Key)
	return resp.Bytes(resp.Integer(1))
}

// recoverAsStoreFailure turns a panic from the underlying store into the
// StoreFailure response kind, leaving the connection open.
func (h *Handler) recoverAsStoreFailure(out *[]byte) {
	if r := recover(); r != nil {
		h.log.Error("store operation panicked", "recovered", r)
		*out = resp.Bytes(resp.SimpleError("ERR internal error"))
	}
}
