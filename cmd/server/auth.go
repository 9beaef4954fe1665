package main

import (
	"context"

	protov1 "github.com/abhk-odoo/odoo-printer-agent/api/v1"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

type spiffeIdContextKey struct{}

func extractSpiffeIdFromContext(ctx context.Context) *string {
	if v := ctx.Value(spiffeIdContextKey{}); v != nil {
		if spiffeId, ok := v.(string); ok {
			return &spiffeId
		}
	}
	return nil
}

func extractSpiffeIdFromTls(ctx context.Context) *string {
	// First, check if it was already injected into context.
	if v := extractSpiffeIdFromContext(ctx); v != nil {
		return v
	}

	p, ok := peer.FromContext(ctx)
	if !ok || p == nil {
		return nil
	}

	ti, ok := p.AuthInfo.(credentials.TLSInfo)
	if !ok {
		return nil
	}

	state := ti.State

	if len(state.PeerCertificates) == 0 || state.PeerCertificates[0] == nil {
		return nil
	}

	leaf := state.PeerCertificates[0]

	// Find the first SPIFFE URI SAN
	for _, uri := range leaf.URIs {
		if uri == nil {
			continue
		}
		if uri.Scheme == "spiffe" {
			// The whole URI is the ID, e.g. spiffe://agent/ui
			id := uri.String()
			return &id
		}
	}

	return nil
}

func injectSpiffeId(ctx context.Context, spiffeId string) context.Context {
	ctx = context.WithValue(ctx, spiffeIdContextKey{}, spiffeId)

	return ctx
}

// injectSpiffeIdUnary extracts the SPIFFE ID from the TLS certificate.
func injectSpiffeIdUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	spiffeId := extractSpiffeIdFromTls(ctx)

	if spiffeId == nil {
		return nil, status.Error(codes.Unauthenticated, "client must have SPIFFE ID")
	}

	ctx = injectSpiffeId(ctx, *spiffeId)

	return handler(ctx, req)
}

type streamWithCtx struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *streamWithCtx) Context() context.Context { return s.ctx }

// injectSpiffeIdStream extracts the SPIFFE ID from the TLS certificate.
func injectSpiffeIdStream(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	ctx := ss.Context()

	spiffeId := extractSpiffeIdFromTls(ctx)

	if spiffeId == nil {
		return status.Error(codes.Unauthenticated, "client must have SPIFFE ID")
	}

	ctx = injectSpiffeId(ctx, *spiffeId)

	return handler(srv, &streamWithCtx{ServerStream: ss, ctx: ctx})
}

// callerID returns the SPIFFE ID of the caller, empty on plaintext connections.
func callerID(ctx context.Context) string {
	if id := extractSpiffeIdFromContext(ctx); id != nil {
		return *id
	}
	return ""
}

// mutatingMethods change backend or agent state and are subject to the allow-list.
var mutatingMethods = map[string]bool{
	protov1.AgentService_StartServer_FullMethodName:    true,
	protov1.AgentService_StopServer_FullMethodName:     true,
	protov1.AgentService_NotifyShutdown_FullMethodName: true,
}

// allowList holds the SPIFFE IDs allowed to call mutating methods. Empty allows any verified client.
type allowList map[string]struct{}

func newAllowList(ids []string) allowList {
	a := make(allowList, len(ids))
	for _, id := range ids {
		a[id] = struct{}{}
	}
	return a
}

// authorizeUnary must run after injectSpiffeIdUnary.
func (a allowList) authorizeUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if len(a) == 0 || !mutatingMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	spiffeId := extractSpiffeIdFromContext(ctx)
	if spiffeId == nil {
		return nil, status.Error(codes.Unauthenticated, "client must have SPIFFE ID")
	}
	if _, ok := a[*spiffeId]; !ok {
		return nil, status.Errorf(codes.PermissionDenied, "%s may not call %s", *spiffeId, info.FullMethod)
	}
	return handler(ctx, req)
}
