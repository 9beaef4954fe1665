package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	protov1 "github.com/abhk-odoo/odoo-printer-agent/api/v1"
	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib/config"
)

// callTimeout bounds unary calls; stop may wait out the backend grace period.
const callTimeout = 15 * time.Second

// dial connects to the agent. TLS is used when PRN_TLS_* material is present.
func dial(ctx context.Context) (*grpc.ClientConn, error) {
	addr := os.Getenv(config.EnvAddress)
	if strings.TrimSpace(addr) == "" {
		addr = config.DefaultAddress
	}

	creds, err := transportCredentials()
	if err != nil {
		return nil, err
	}

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func transportCredentials() (credentials.TransportCredentials, error) {
	keyPEM := os.Getenv(config.EnvTLSKey)
	certPEM := os.Getenv(config.EnvTLSCert)
	caPEM := os.Getenv(config.EnvCATLSCert)
	if strings.TrimSpace(keyPEM) == "" && strings.TrimSpace(certPEM) == "" && strings.TrimSpace(caPEM) == "" {
		return insecure.NewCredentials(), nil
	}
	if strings.TrimSpace(keyPEM) == "" || strings.TrimSpace(certPEM) == "" || strings.TrimSpace(caPEM) == "" {
		return nil, fmt.Errorf("incomplete TLS environment variables; require %s, %s, %s", config.EnvTLSKey, config.EnvTLSCert, config.EnvCATLSCert)
	}

	cert, err := tls.X509KeyPair([]byte(certPEM), []byte(keyPEM))
	if err != nil {
		return nil, fmt.Errorf("failed to parse TLS cert/key from env: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM([]byte(caPEM)) {
		return nil, fmt.Errorf("failed to parse CA cert from env")
	}

	return credentials.NewTLS(&tls.Config{
		Certificates: []tls.Certificate{cert},
		RootCAs:      pool,
		MinVersion:   tls.VersionTLS13,
	}), nil
}

// withClient dials, runs fn with a timeout-bound context and closes the connection.
func withClient(ctx context.Context, timeout time.Duration, fn func(context.Context, protov1.AgentServiceClient) error) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	conn, err := dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(ctx, protov1.NewAgentServiceClient(conn))
}

func grpcCode(err error) codes.Code {
	st, ok := status.FromError(err)
	if !ok {
		return codes.Unknown
	}
	return st.Code()
}
