// Package fakenamenode is an in-process stand-in for a name-node's
// ClientProtocol RPC endpoint: a net.Listener goroutine that speaks the
// exact wire framing of the handshake and per-call request/response
// groups (spec: spec.md §4.1/§4.2), used to drive pkg/rpcengine,
// pkg/ha, and pkg/listing tests without a real Hadoop cluster. It is
// the raw-TCP generalization of the teacher's httptest.NewServer fakes.
package fakenamenode

import (
	"net"
	"sync"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/marmos91/gohdfs/pkg/wire"
	"github.com/marmos91/gohdfs/pkg/wire/rpcpb"
)

// Request is one decoded call received from a client connection.
type Request struct {
	CallID int32
	Op     rpcpb.OperationProto
	Method string // empty for the handshake and the close-connection shutdown frame
	Body   []byte // the raw method request message; nil for handshake/shutdown
}

// Response describes how to answer a Request.
type Response struct {
	Status         rpcpb.RpcStatus
	Body           []byte // marshaled response message; only sent on StatusSuccess
	ExceptionClass string
	ErrorMsg       string
}

// Handler computes the Response for each decoded method call. It is not
// invoked for the handshake (which gets no reply) or the
// close-connection shutdown frame (which ends the connection).
type Handler func(req Request) Response

// Server accepts connections on a loopback listener and serves each one
// with Handler until the client sends the close-connection shutdown
// frame or the connection errors.
type Server struct {
	ln      net.Listener
	handler Handler

	mu    sync.Mutex
	calls []Request

	// ClosedCallID receives the call-id of each close-connection
	// shutdown frame a client sends, one per connection. Buffered
	// generously so serve goroutines never block on it.
	ClosedCallID chan int32

	// Preambles receives the raw 7-byte connection preamble of each
	// accepted connection, in arrival order.
	Preambles chan [7]byte
}

// Start listens on loopback, picking a free port, and begins serving
// connections in the background with handler.
func Start(handler Handler) (*Server, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	s := &Server{
		ln:           ln,
		handler:      handler,
		ClosedCallID: make(chan int32, 16),
		Preambles:    make(chan [7]byte, 16),
	}
	go s.acceptLoop()
	return s, nil
}

// Addr returns the "host:port" clients should dial.
func (s *Server) Addr() string { return s.ln.Addr().String() }

// Close stops accepting new connections.
func (s *Server) Close() error { return s.ln.Close() }

// Calls returns every method call (excluding the handshake and
// shutdown frame) received so far, in arrival order.
func (s *Server) Calls() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *Server) acceptLoop() {
	for {
		nc, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.serve(nc)
	}
}

func (s *Server) serve(nc net.Conn) {
	defer nc.Close()

	var preamble [7]byte
	if _, err := readFull(nc, preamble[:]); err != nil {
		return
	}
	s.Preambles <- preamble

	// Handshake group: [RpcRequestHeader, IpcConnectionContext]. No reply.
	if _, err := wire.ReadFrame(nc); err != nil {
		return
	}

	for {
		payload, err := wire.ReadFrame(nc)
		if err != nil {
			return
		}
		msgs, err := splitAll(payload)
		if err != nil || len(msgs) == 0 {
			return
		}

		op, callID, ok := decodeRequestHeader(msgs[0])
		if !ok {
			return
		}
		if op == rpcpb.RpcCloseConnection {
			s.ClosedCallID <- callID
			return
		}
		if len(msgs) < 3 {
			return
		}
		method, ok := decodeMethodName(msgs[1])
		if !ok {
			return
		}

		req := Request{CallID: callID, Op: op, Method: method, Body: msgs[2]}
		s.mu.Lock()
		s.calls = append(s.calls, req)
		s.mu.Unlock()

		resp := s.handler(req)
		respHeader := marshalResponseHeader(callID, resp)
		var err2 error
		if resp.Status == rpcpb.StatusSuccess {
			err2 = wire.WriteGroup(nc, respHeader, resp.Body)
		} else {
			err2 = wire.WriteGroup(nc, respHeader)
		}
		if err2 != nil {
			return
		}
	}
}

func readFull(nc net.Conn, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := nc.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// splitAll splits a frame payload into every length-delimited message it
// contains, however many there are (unlike wire.SplitDelimited, which
// expects a known count).
func splitAll(payload []byte) ([][]byte, error) {
	var out [][]byte
	b := payload
	for len(b) > 0 {
		msg, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		out = append(out, msg)
		b = b[n:]
	}
	return out, nil
}

func decodeRequestHeader(b []byte) (op rpcpb.OperationProto, callID int32, ok bool) {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return 0, 0, false
		}
		b = b[n:]
		switch {
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return 0, 0, false
			}
			op = rpcpb.OperationProto(v)
			b = b[n:]
		case num == 3 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return 0, 0, false
			}
			callID = int32(protowire.DecodeZigZag(v))
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return 0, 0, false
			}
			b = b[n:]
		}
	}
	return op, callID, true
}

func decodeMethodName(b []byte) (string, bool) {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return "", false
		}
		b = b[n:]
		if num == 1 && typ == protowire.BytesType {
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return "", false
			}
			return v, true
		}
		n2 := protowire.ConsumeFieldValue(num, typ, b)
		if n2 < 0 {
			return "", false
		}
		b = b[n2:]
	}
	return "", false
}

func marshalResponseHeader(callID int32, resp Response) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(uint32(callID)))
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(resp.Status))
	if resp.ExceptionClass != "" {
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendString(b, resp.ExceptionClass)
	}
	if resp.ErrorMsg != "" {
		b = protowire.AppendTag(b, 5, protowire.BytesType)
		b = protowire.AppendString(b, resp.ErrorMsg)
	}
	return b
}
