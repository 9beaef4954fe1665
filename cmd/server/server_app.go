package main

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"time"

	protov1 "github.com/abhk-odoo/odoo-printer-agent/api/v1"
	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib/config"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
)

// gracefulStopTimeout bounds GracefulStop before open streams are cut.
const gracefulStopTimeout = 2 * time.Second

// GRPCServer encapsulates TLS/mTLS configuration, gRPC server instance and listener.
type GRPCServer struct {
	lis net.Listener
	s   *grpc.Server
}

// NewGRPCServer listens on cfg.Address and registers srv. With TLS material configured the
// server requires client certificates (mTLS) carrying a SPIFFE ID; otherwise it serves plaintext,
// which is only sensible on a loopback address.
func NewGRPCServer(cfg config.ServerConfig, srv protov1.AgentServiceServer) (*GRPCServer, error) {
	var opts []grpc.ServerOption
	if cfg.TLS.Enabled() {
		tlsConfig, err := serverTLSConfig(cfg.TLS)
		if err != nil {
			return nil, err
		}
		opts = append(opts,
			grpc.Creds(credentials.NewTLS(tlsConfig)),
			grpc.ChainUnaryInterceptor(injectSpiffeIdUnary, newAllowList(cfg.AllowedClients).authorizeUnary),
			grpc.StreamInterceptor(injectSpiffeIdStream),
		)
	}

	lis, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	s := grpc.NewServer(opts...)
	protov1.RegisterAgentServiceServer(s, srv)

	return &GRPCServer{lis: lis, s: s}, nil
}

func serverTLSConfig(t config.TLSConfig) (*tls.Config, error) {
	cert, err := tls.X509KeyPair([]byte(t.Cert), []byte(t.Key))
	if err != nil {
		return nil, fmt.Errorf("failed to load server key pair: %w", err)
	}

	caPool := x509.NewCertPool()
	if ok := caPool.AppendCertsFromPEM([]byte(t.CACert)); !ok {
		return nil, fmt.Errorf("failed to append CA certificate to pool")
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		RootCAs:      caPool,
		ClientCAs:    caPool,
		ClientAuth:   tls.RequireAndVerifyClientCert,
		MinVersion:   tls.VersionTLS13,
	}, nil
}

// Serve starts serving gRPC on the configured listener.
func (g *GRPCServer) Serve() error {
	return g.s.Serve(g.lis)
}

// Addr returns the network address the server is bound to.
func (g *GRPCServer) Addr() net.Addr { return g.lis.Addr() }

// Stop gracefully stops the gRPC server, cutting streams that outlive gracefulStopTimeout.
func (g *GRPCServer) Stop() {
	done := make(chan struct{})
	go func() {
		g.s.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(gracefulStopTimeout):
		g.s.Stop()
		<-done
	}
}
