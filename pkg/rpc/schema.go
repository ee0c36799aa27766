// Package rpc exposes compile entry point over gRPC as a
// CompileService, so a remote driver (an editor plugin, a build-farm
// worker) can invoke the core without shelling out to a CLI.
//
// Grounded directly on funxy's own internal/evaluator/builtins_grpc.go:
// the same protoparse.Parser-over-an-in-memory-schema-string approach (no
// protoc codegen step), the same dynamic.Message request/response
// marshaling, and the same "one grpc.ServiceDesc with a generic unary
// handler dispatched through desc.MethodDescriptor" server shape funxy's
// FunxyGrpcHandler uses for its own user-defined services.
package rpc

import (
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
)

// compileServiceProto is CompileService's schema, compiled in-memory via
// protoparse rather than generated by protoc — there is no.proto file on
// disk and no generated Go stubs.
const compileServiceProto = `
syntax = "proto3";
package pyrite.rpc;

message CompileRequest {
	string main_file = 1;
	map<string, string> sources = 2;
	bool emit_ir_only = 3;
	bool deterministic_build = 4;
	bool ownership_timeline = 5;
	bool cost_warning = 6;
}

message Diagnostic {
	string code = 1;
	string file = 2;
	int32 start_line = 3;
	int32 start_col = 4;
	string message = 5;
}

message CompileResponse {
	bool success = 1;
	string ir_text = 2;
	repeated Diagnostic diagnostics = 3;
}

service CompileService {
	rpc Compile(CompileRequest) returns (CompileResponse);
}
`

// compileServiceDescriptor parses compileServiceProto and returns its
// CompileService ServiceDescriptor, the input/output message descriptors
// a server or client needs to build dynamic.Message values.
func compileServiceDescriptor() (*desc.ServiceDescriptor, error) {
	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(map[string]string{
				"compile_service.proto": compileServiceProto,
		}),
	}
	fds, err := parser.ParseFiles("compile_service.proto")
	if err != nil {
		return nil, fmt.Errorf("rpc: parsing in-memory schema: %w", err)
	}
	fd := fds[0]
	sd := fd.FindService("pyrite.rpc.CompileService")
	if sd == nil {
		return nil, fmt.Errorf("rpc: CompileService not found in compiled schema")
	}
	return sd, nil
}
