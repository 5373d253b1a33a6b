package rpcpb

import "google.golang.org/protobuf/encoding/protowire"

// RpcKind identifies the payload encoding of an RPC call. This client
// only ever sends RPC_PROTOCOL_BUFFER.
type RpcKind int32

const RpcProtocolBuffer RpcKind = 0

// OperationProto marks whether a frame is the final packet of a call, a
// continuation of one, or the connection's shutdown notice. This client
// never streams a call across multiple frames, so it only ever sends
// RpcFinalPacket or, once per connection, RpcCloseConnection.
type OperationProto int32

const (
	RpcFinalPacket     OperationProto = 0
	RpcContinuationPkt OperationProto = 1
	RpcCloseConnection OperationProto = 2
)

// RpcRequestHeader precedes every message group sent to the namenode,
// including the connection handshake (callId -3, retryCount -1) and every
// subsequent call (callId from a monotonic sequence, retryCount -1).
type RpcRequestHeader struct {
	RpcKind    RpcKind
	RpcOp      OperationProto
	CallID     int32
	ClientID   []byte
	RetryCount int32
}

func (h *RpcRequestHeader) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(h.RpcKind))
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(h.RpcOp))
	b = protowire.AppendTag(b, 3, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(h.CallID)))
	b = protowire.AppendTag(b, 4, protowire.BytesType)
	b = protowire.AppendBytes(b, h.ClientID)
	b = protowire.AppendTag(b, 5, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(h.RetryCount)))
	return b
}

// RpcStatus is the three-valued outcome of a call: SUCCESS, a non-fatal
// ERROR (connection stays usable), or a FATAL error (connection must be
// discarded).
type RpcStatus int32

const (
	StatusSuccess RpcStatus = 0
	StatusError   RpcStatus = 1
	StatusFatal   RpcStatus = 2
)

func (s RpcStatus) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusError:
		return "ERROR"
	case StatusFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// RpcErrorCode further classifies ERROR/FATAL responses. Values mirror
// org.apache.hadoop.ipc.RpcConstants' RpcErrorCodeProto; this client
// treats it as opaque and only ever reports it back to the caller.
type RpcErrorCode int32

// RpcResponseHeader is the first message in every response group. Its
// Status field determines whether a second, typed message follows
// (SUCCESS) or the remaining fields describe the failure (ERROR/FATAL).
type RpcResponseHeader struct {
	CallID             uint32
	Status             RpcStatus
	ExceptionClassName string
	ErrorMsg           string
	ErrorDetail        RpcErrorCode
}

func (h *RpcResponseHeader) Unmarshal(b []byte) error {
	return rangeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			h.CallID = uint32(v)
			return n, nil
		case 2:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			h.Status = RpcStatus(v)
			return n, nil
		case 4:
			v, n, err := consumeString(b)
			if err != nil {
				return 0, err
			}
			h.ExceptionClassName = v
			return n, nil
		case 5:
			v, n, err := consumeString(b)
			if err != nil {
				return 0, err
			}
			h.ErrorMsg = v
			return n, nil
		case 6:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			h.ErrorDetail = RpcErrorCode(v)
			return n, nil
		default:
			return 0, nil
		}
	})
}

// RequestHeader names the protocol and method being invoked; it follows
// the RpcRequestHeader and precedes the method's own request message.
type RequestHeader struct {
	MethodName                 string
	DeclaringClassProtocolName string
	ClientProtocolVersion      uint64
}

func (h *RequestHeader) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, h.MethodName)
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendString(b, h.DeclaringClassProtocolName)
	b = protowire.AppendTag(b, 4, protowire.VarintType)
	b = protowire.AppendVarint(b, h.ClientProtocolVersion)
	return b
}

// UserInformation carries the effective user for the connection; sent
// once, inside the handshake's IpcConnectionContext.
type UserInformation struct {
	EffectiveUser string
}

func (u *UserInformation) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, u.EffectiveUser)
	return b
}

// IpcConnectionContext is sent once, immediately after the 7-byte
// connection preamble, to declare the user and target protocol for the
// lifetime of the TCP connection.
type IpcConnectionContext struct {
	UserInfo UserInformation
	Protocol string
}

func (c *IpcConnectionContext) Marshal() []byte {
	var b []byte
	userInfo := c.UserInfo.Marshal()
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, userInfo)
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendString(b, c.Protocol)
	return b
}
