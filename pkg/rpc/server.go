package rpc

import (
	"context"
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"

	"github.com/funvibe/pyrite/internal/config"
	"github.com/funvibe/pyrite/internal/modules"
	"github.com/funvibe/pyrite/internal/pipeline"
)

// CompileFunc resolves and compiles mainFile given a map of already-read
// source texts (path -> contents) and the raw compile options. The server
// takes this as a dependency rather than hard-wiring internal/modules
// directly, so a caller can plug in whatever ParseFile strategy it has —
// Pyrite's lexer and parser are excluded collaborators of this core
//, so turning "sources map" into an *ast.Program is the
// driver's job, not this package's.
type CompileFunc func(mainFile string, sources map[string]string, opts config.Options) *pipeline.PipelineContext

// Server serves CompileService over gRPC.
type Server struct {
	grpcServer *grpc.Server
	sd *desc.ServiceDescriptor
	compile CompileFunc
}

// NewServer builds a CompileService server backed by compile. grpcOpts are
// passed through to grpc.NewServer verbatim (TLS credentials, interceptors).
func NewServer(compile CompileFunc, grpcOpts...grpc.ServerOption) (*Server, error) {
	sd, err := compileServiceDescriptor()
	if err != nil {
		return nil, err
	}
	s := &Server{sd: sd, compile: compile}
	s.grpcServer = grpc.NewServer(grpcOpts...)
	s.grpcServer.RegisterService(s.serviceDesc(), s)
	return s, nil
}

// serviceDesc builds the grpc.ServiceDesc protoreflect needs a concrete Go
// type for, wiring every RPC method on s.sd to handleUnary — the same
// single-generic-handler shape funxy's FunxyGrpcHandler.HandleUnary uses
// for arbitrary user-declared services.
func (s *Server) serviceDesc() *grpc.ServiceDesc {
	methods := make([]grpc.MethodDesc, 0, len(s.sd.GetMethods()))
	for _, md := range s.sd.GetMethods() {
		md := md
		methods = append(methods, grpc.MethodDesc{
				MethodName: md.GetName(),
				Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
					return s.handleUnary(ctx, md, dec)
				},
		})
	}
	return &grpc.ServiceDesc{
		ServiceName: s.sd.GetFullyQualifiedName(),
		HandlerType: (*any)(nil),
		Methods: methods,
		Metadata: "compile_service.proto",
	}
}

func (s *Server) handleUnary(_ context.Context, md *desc.MethodDescriptor, dec func(interface{}) error) (interface{}, error) {
	reqMsg := dynamic.NewMessage(md.GetInputType())
	if err := dec(reqMsg); err != nil {
		return nil, err
	}

	mainFile, _ := reqMsg.TryGetFieldByName("main_file")
	sourcesRaw, _ := reqMsg.TryGetFieldByName("sources")
	emitIR, _ := reqMsg.TryGetFieldByName("emit_ir_only")
	deterministic, _ := reqMsg.TryGetFieldByName("deterministic_build")
	timeline, _ := reqMsg.TryGetFieldByName("ownership_timeline")
	costWarning, _ := reqMsg.TryGetFieldByName("cost_warning")

	sources := map[string]string{}
	if m, ok := sourcesRaw.(map[interface{}]interface{}); ok {
		for k, v := range m {
			sources[fmt.Sprint(k)] = fmt.Sprint(v)
		}
	}

	opts := config.Options{
		EmitIROnly: asBool(emitIR),
		DeterministicBuild: asBool(deterministic),
		OwnershipTimeline: asBool(timeline),
		CostWarning: asBool(costWarning),
	}

	ctx := s.compile(fmt.Sprint(mainFile), sources, opts)

	respMsg := dynamic.NewMessage(md.GetOutputType())
	respMsg.SetFieldByName("success", ctx.Ok())
	respMsg.SetFieldByName("ir_text", ctx.IRText)
	respMsg.SetFieldByName("diagnostics", diagnosticsToDynamic(md, ctx))
	return respMsg, nil
}

func asBool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}

// diagnosticsToDynamic builds the repeated Diagnostic messages for the
// response, resolving the nested message type off the output descriptor
// rather than the service descriptor (protoreflect has no shortcut for
// "the element type of this repeated message field" besides the field's
// own GetMessageType).
func diagnosticsToDynamic(md *desc.MethodDescriptor, ctx *pipeline.PipelineContext) []*dynamic.Message {
	field := md.GetOutputType().FindFieldByName("diagnostics")
	if field == nil {
		return nil
	}
	elemType := field.GetMessageType()
	out := make([]*dynamic.Message, 0, len(ctx.Diagnostics))
	for _, d := range ctx.Diagnostics {
		m := dynamic.NewMessage(elemType)
		m.SetFieldByName("code", string(d.Code))
		m.SetFieldByName("file", d.Span.File)
		m.SetFieldByName("start_line", int32(d.Span.StartLine))
		m.SetFieldByName("start_col", int32(d.Span.StartCol))
		m.SetFieldByName("message", d.Message)
		out = append(out, m)
	}
	return out
}

// GRPCServer returns the underlying *grpc.Server without starting it: the
// caller runs its Serve over the caller's own net.Listener, so the
// server's lifecycle is owned by whoever calls it, the same split funxy's
// builtinGrpcServe/builtinGrpcServeAsync draw between building and running
// a server.
func (s *Server) GRPCServer() *grpc.Server { return s.grpcServer }
