package prelude

import (
	"context"

	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/funvibe/weave/internal/ext"
	"github.com/funvibe/weave/internal/function"
	"github.com/funvibe/weave/internal/value"
)

// grpcConnTag tags an Extension wrapping a live *grpc.ClientConn,
// grounded directly on the teacher's GrpcConnObject
// (internal/evaluator/builtins_grpc.go) — the concrete realization of
// spec §6.4's Extension interface for network I/O.
const grpcConnTag value.Symbol = "grpc-conn"

func grpcBuiltins() []binding {
	return []binding{
		{"grpc-connect", function.NewPrim("grpc-connect", value.TierFree, evalArrow, primGrpcConnect)},
		{"grpc-close", function.NewPrim("grpc-close", value.TierFree, evalArrow, primGrpcClose)},
		{"grpc-invoke", function.NewPrim("grpc-invoke", value.TierFree, evalArrow, primGrpcInvoke)},
	}
}

// primGrpcConnect: input Text target -> Extension(grpc-conn).
func primGrpcConnect(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	target, ok := input.(value.Text)
	if !ok {
		return value.Unit{}
	}
	conn, err := grpc.NewClient(string(target), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return value.Unit{}
	}
	return ext.New(grpcConnTag, conn, nil)
}

// primGrpcClose: input Extension(grpc-conn) -> Unit, closing the
// connection.
func primGrpcClose(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	conn, ok := grpcConn(input)
	if !ok {
		return value.Unit{}
	}
	_ = conn.Close()
	return value.Unit{}
}

func grpcConn(v value.Value) (*grpc.ClientConn, bool) {
	ev, ok := v.(ext.Value)
	if !ok || ev.Tag != grpcConnTag {
		return nil, false
	}
	conn, ok := ev.Payload.(*grpc.ClientConn)
	return conn, ok
}

// primGrpcInvoke: input Pair(conn, Pair(methodPath Text, requestMap
// Map)) -> Map, the response message's fields. methodPath is
// "package.Service/Method" (the grpc.Invoke wire form, without the
// descriptor lookup's leading slash).
func primGrpcInvoke(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	p, ok := input.(value.Pair)
	if !ok {
		return value.Unit{}
	}
	conn, ok := grpcConn(p.First())
	if !ok {
		return value.Unit{}
	}
	rest, ok := p.Second().(value.Pair)
	if !ok {
		return value.Unit{}
	}
	methodPath, ok := rest.First().(value.Text)
	if !ok {
		return value.Unit{}
	}
	reqData, ok := rest.Second().(value.Map)
	if !ok {
		return value.Unit{}
	}

	md, err := findMethodDescriptor(string(methodPath))
	if err != nil {
		return value.Unit{}
	}
	reqMsg := dynamic.NewMessage(md.GetInputType())
	if err := mapToDynamicMessage(reqData, reqMsg); err != nil {
		return value.Unit{}
	}
	respMsg := dynamic.NewMessage(md.GetOutputType())

	wirePath := string(methodPath)
	if len(wirePath) == 0 || wirePath[0] != '/' {
		wirePath = "/" + wirePath
	}
	if err := conn.Invoke(context.Background(), wirePath, reqMsg, respMsg); err != nil {
		return value.Unit{}
	}
	return dynamicMessageToMap(respMsg)
}
