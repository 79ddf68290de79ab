// Package bridge forwards converted Ethernet II frames to a remote
// collector over a gRPC bidirectional stream, grounded in the teacher's
// internal/core/services/grpc server and its wiring in internal/app/app.go.
// Frames are carried as wrapperspb.BytesValue rather than a bespoke
// generated message: the payload is an opaque wire-ready Ethernet II
// buffer with no structured fields of its own, and wrapperspb is already a
// stable, pre-generated protobuf type - no .proto/protoc step is needed.
package bridge

import (
	"context"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/lcalzada-xor/airbridge/internal/core/domain"
)

const (
	serviceName = "airbridge.Bridge"
	methodName  = "Stream"
	fullMethod  = "/" + serviceName + "/" + methodName
)

// FrameHandler receives each frame the server side of the stream accepts.
type FrameHandler func(ctx context.Context, frame []byte) error

// serviceDesc builds the grpc.ServiceDesc for the bridge's single
// bidirectional-streaming RPC (the server only receives on it), bound to
// handler for every received frame.
func serviceDesc(handler FrameHandler) grpc.ServiceDesc {
	return grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*any)(nil),
		Streams: []grpc.StreamDesc{
			{
				StreamName:    methodName,
				ClientStreams: true,
				ServerStreams: true,
				Handler: func(_ any, stream grpc.ServerStream) error {
					for {
						var msg wrapperspb.BytesValue
						if err := stream.RecvMsg(&msg); err != nil {
							if err == io.EOF {
								return nil
							}
							return err
						}
						if err := handler(stream.Context(), msg.GetValue()); err != nil {
							return err
						}
					}
				},
			},
		},
	}
}

// NewServer returns a grpc.Server with the bridge service registered,
// invoking handler for every frame a connected agent streams in.
func NewServer(handler FrameHandler) *grpc.Server {
	s := grpc.NewServer()
	desc := serviceDesc(handler)
	s.RegisterService(&desc, nil)
	return s
}

// Client implements ports.FrameSink over the bridge's gRPC stream.
type Client struct {
	conn   *grpc.ClientConn
	stream grpc.ClientStream
}

// Dial connects to addr and opens the bridge stream.
func Dial(ctx context.Context, addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	stream, err := conn.NewStream(ctx, &grpc.StreamDesc{ClientStreams: true, ServerStreams: true}, fullMethod)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &Client{conn: conn, stream: stream}, nil
}

// Forward sends frame as a BytesValue over the stream (ports.FrameSink).
func (c *Client) Forward(frame domain.EthernetII) error {
	return c.stream.SendMsg(wrapperspb.Bytes(frame.Bytes()))
}

// Close ends the outbound stream and tears down the connection.
func (c *Client) Close() error {
	_ = c.stream.CloseSend()
	return c.conn.Close()
}
