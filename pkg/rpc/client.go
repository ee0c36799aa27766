package rpc

import (
	"context"
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"github.com/jhump/protoreflect/dynamic/grpcdynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client invokes a remote CompileService without generated stubs, the
// same dynamic.NewMessage-plus-grpcdynamic.Stub approach
// funxy's builtinGrpcInvoke uses against an arbitrary user-loaded proto
// service.
type Client struct {
	conn   *grpc.ClientConn
	stub   grpcdynamic.Stub
	method *desc.MethodDescriptor
}

// Dial connects to target (e.g. "localhost:9090") and resolves the
// CompileService schema for later Compile calls.
func Dial(target string) (*Client, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("rpc: dialing %s: %w", target, err)
	}
	sd, err := compileServiceDescriptor()
	if err != nil {
		conn.Close()
		return nil, err
	}
	method := sd.FindMethodByName("Compile")
	if method == nil {
		conn.Close()
		return nil, fmt.Errorf("rpc: CompileService has no Compile method")
	}
	return &Client{
		conn:   conn,
		stub:   grpcdynamic.NewStub(conn),
		method: method,
	}, nil
}

func (c *Client) Close() error { return c.conn.Close() }

// CompileResult is the client-side decoded shape of a CompileResponse.
type CompileResult struct {
	Success     bool
	IRText      string
	Diagnostics []string
}

// Compile sends one CompileRequest and decodes its CompileResponse.
func (c *Client) Compile(ctx context.Context, mainFile string, sources map[string]string, opts CompileOptions) (CompileResult, error) {
	req := dynamic.NewMessage(c.method.GetInputType())
	req.SetFieldByName("main_file", mainFile)
	sourcesMap := make(map[interface{}]interface{}, len(sources))
	for k, v := range sources {
		sourcesMap[k] = v
	}
	req.SetFieldByName("sources", sourcesMap)
	req.SetFieldByName("emit_ir_only", opts.EmitIROnly)
	req.SetFieldByName("deterministic_build", opts.DeterministicBuild)
	req.SetFieldByName("ownership_timeline", opts.OwnershipTimeline)
	req.SetFieldByName("cost_warning", opts.CostWarning)

	respAny, err := c.stub.InvokeRpc(ctx, c.method, req)
	if err != nil {
		return CompileResult{}, err
	}
	resp, ok := respAny.(*dynamic.Message)
	if !ok {
		return CompileResult{}, fmt.Errorf("rpc: unexpected response type %T", respAny)
	}

	result := CompileResult{}
	if v, err := resp.TryGetFieldByName("success"); err == nil {
		result.Success, _ = v.(bool)
	}
	if v, err := resp.TryGetFieldByName("ir_text"); err == nil {
		result.IRText, _ = v.(string)
	}
	if diags, err := resp.TryGetFieldByName("diagnostics"); err == nil {
		if list, ok := diags.([]interface{}); ok {
			for _, d := range list {
				if dm, ok := d.(*dynamic.Message); ok {
					result.Diagnostics = append(result.Diagnostics, dm.String())
				}
			}
		}
	}
	return result, nil
}

// CompileOptions mirrors config.Options' driver-relevant subset for a
// remote call, avoiding a dependency from the wire client back onto
// internal/config (a remote caller may not even be a Go process).
type CompileOptions struct {
	EmitIROnly         bool
	DeterministicBuild bool
	OwnershipTimeline  bool
	CostWarning        bool
}
