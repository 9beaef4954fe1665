package main

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	protov1 "github.com/abhk-odoo/odoo-printer-agent/api/v1"
	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib"
	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib/runner"
	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib/shutdown"
	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib/supervisor"
)

type fakeSupervisor struct {
	mu       sync.Mutex
	running  bool
	startErr error
	stopErr  error
	stdout   []string
}

func (f *fakeSupervisor) Start(context.Context) (lib.StartOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return "", f.startErr
	}
	if f.running {
		return lib.AlreadyRunning, nil
	}
	f.running = true
	return lib.Started, nil
}

func (f *fakeSupervisor) Stop(context.Context) (lib.StopOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stopErr != nil {
		return "", f.stopErr
	}
	if !f.running {
		return lib.NotRunning, nil
	}
	f.running = false
	return lib.Stopped, nil
}

func (f *fakeSupervisor) IsRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

func (f *fakeSupervisor) Status() lib.ServerStatus {
	if f.IsRunning() {
		return lib.ServerStatus{State: lib.ServerStateRunning, Pid: 321, LaunchID: "l-1", StartTime: time.Now()}
	}
	return lib.ServerStatus{State: lib.ServerStateStopped}
}

func (f *fakeSupervisor) Output(context.Context) (<-chan []byte, <-chan []byte, error) {
	if !f.IsRunning() {
		return nil, nil, supervisor.ErrNotRunning
	}
	out := make(chan []byte, len(f.stdout))
	for _, s := range f.stdout {
		out <- []byte(s)
	}
	close(out)
	errs := make(chan []byte, 1)
	errs <- []byte("warning\n")
	close(errs)
	return out, errs, nil
}

type fakeDevices []lib.DeviceRecord

func (f fakeDevices) ListDevices(context.Context) []lib.DeviceRecord { return f }

type recordingTrigger struct {
	mu      sync.Mutex
	reasons []string
}

func (r *recordingTrigger) Trigger(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reasons = append(r.reasons, reason)
}

// dialBufconn serves srv in memory and returns a connected client.
func dialBufconn(t *testing.T, srv protov1.AgentServiceServer, opts ...grpc.ServerOption) protov1.AgentServiceClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(opts...)
	protov1.RegisterAgentServiceServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return protov1.NewAgentServiceClient(conn)
}

func codeOf(err error) codes.Code {
	st, _ := status.FromError(err)
	return st.Code()
}

func TestHostRPCs(t *testing.T) {
	devices := fakeDevices{{VendorID: "04b8", ProductID: "0e15", Manufacturer: "EPSON", Product: "TM-T20III"}}
	client := dialBufconn(t, NewAgentServiceServer(&fakeSupervisor{}, devices, &recordingTrigger{}, func() string { return "192.168.1.5" }))
	ctx := context.Background()

	ip, err := client.GetIPAddress(ctx, &emptypb.Empty{})
	if err != nil || ip.GetValue() != "192.168.1.5" {
		t.Fatalf("GetIPAddress = %v, %v", ip, err)
	}

	list, err := client.ListUSBDevices(ctx, &emptypb.Empty{})
	if err != nil {
		t.Fatalf("ListUSBDevices failed: %v", err)
	}
	got := protov1.DevicesFromList(list)
	if len(got) != 1 || got[0] != devices[0] {
		t.Fatalf("ListUSBDevices = %+v", got)
	}
}

func TestEmptyDeviceListIsNotAnError(t *testing.T) {
	client := dialBufconn(t, NewAgentServiceServer(&fakeSupervisor{}, fakeDevices{}, &recordingTrigger{}, func() string { return "127.0.0.1" }))
	list, err := client.ListUSBDevices(context.Background(), &emptypb.Empty{})
	if err != nil || len(list.GetValues()) != 0 {
		t.Fatalf("ListUSBDevices = %v, %v", list, err)
	}
}

func TestLifecycleRPCs(t *testing.T) {
	sup := &fakeSupervisor{stdout: []string{"booting\n", "ready\n"}}
	client := dialBufconn(t, NewAgentServiceServer(sup, fakeDevices{}, &recordingTrigger{}, func() string { return "" }))
	ctx := context.Background()

	for _, want := range []string{"started", "already_running"} {
		resp, err := client.StartServer(ctx, &emptypb.Empty{})
		if err != nil || resp.GetValue() != want {
			t.Fatalf("StartServer = %v, %v; want %s", resp, err, want)
		}
	}

	running, err := client.IsServerRunning(ctx, &emptypb.Empty{})
	if err != nil || !running.GetValue() {
		t.Fatalf("IsServerRunning = %v, %v", running, err)
	}
	st, err := client.GetServerStatus(ctx, &emptypb.Empty{})
	if err != nil {
		t.Fatalf("GetServerStatus failed: %v", err)
	}
	if v := protov1.StatusFromStruct(st); v.State != "running" || v.Pid != 321 {
		t.Fatalf("unexpected status %+v", v)
	}

	stream, err := client.StreamServerOutput(ctx, &emptypb.Empty{})
	if err != nil {
		t.Fatalf("StreamServerOutput failed: %v", err)
	}
	var stdout, stderr strings.Builder
	for {
		msg, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Recv failed: %v", err)
		}
		streamName, data := protov1.ParseOutputChunk(msg)
		if streamName == runner.StreamStderr {
			stderr.WriteString(data)
		} else {
			stdout.WriteString(data)
		}
	}
	if stdout.String() != "booting\nready\n" || stderr.String() != "warning\n" {
		t.Fatalf("stream got stdout=%q stderr=%q", stdout.String(), stderr.String())
	}

	for _, want := range []string{"stopped", "not_running"} {
		resp, err := client.StopServer(ctx, &emptypb.Empty{})
		if err != nil || resp.GetValue() != want {
			t.Fatalf("StopServer = %v, %v; want %s", resp, err, want)
		}
	}
}

func TestOutputWhenStoppedIsNotFound(t *testing.T) {
	client := dialBufconn(t, NewAgentServiceServer(&fakeSupervisor{}, fakeDevices{}, &recordingTrigger{}, func() string { return "" }))
	stream, err := client.StreamServerOutput(context.Background(), &emptypb.Empty{})
	if err != nil {
		t.Fatalf("StreamServerOutput failed: %v", err)
	}
	if _, err := stream.Recv(); codeOf(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestErrorCodes(t *testing.T) {
	cases := []struct {
		name string
		sup  *fakeSupervisor
		call func(protov1.AgentServiceClient) error
		want codes.Code
	}{
		{
			name: "spawn error",
			sup:  &fakeSupervisor{startErr: &runner.SpawnError{Path: "/missing", Err: os.ErrNotExist}},
			call: func(c protov1.AgentServiceClient) error {
				_, err := c.StartServer(context.Background(), &emptypb.Empty{})
				return err
			},
			want: codes.FailedPrecondition,
		},
		{
			name: "start while stopping",
			sup:  &fakeSupervisor{startErr: supervisor.ErrTransitionInProgress},
			call: func(c protov1.AgentServiceClient) error {
				_, err := c.StartServer(context.Background(), &emptypb.Empty{})
				return err
			},
			want: codes.Aborted,
		},
		{
			name: "start after shutdown",
			sup:  &fakeSupervisor{startErr: supervisor.ErrShuttingDown},
			call: func(c protov1.AgentServiceClient) error {
				_, err := c.StartServer(context.Background(), &emptypb.Empty{})
				return err
			},
			want: codes.Unavailable,
		},
		{
			name: "kill failed",
			sup:  &fakeSupervisor{stopErr: runner.ErrKillFailed},
			call: func(c protov1.AgentServiceClient) error {
				_, err := c.StopServer(context.Background(), &emptypb.Empty{})
				return err
			},
			want: codes.Internal,
		},
	}
	for _, tc := range cases {
		client := dialBufconn(t, NewAgentServiceServer(tc.sup, fakeDevices{}, &recordingTrigger{}, func() string { return "" }))
		if got := codeOf(tc.call(client)); got != tc.want {
			t.Fatalf("%s: code = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestToStatusErrorContext(t *testing.T) {
	if got := codeOf(toStatusError("op", context.DeadlineExceeded)); got != codes.DeadlineExceeded {
		t.Fatalf("code = %v", got)
	}
	if got := codeOf(toStatusError("op", errors.New("boom"))); got != codes.Internal {
		t.Fatalf("code = %v", got)
	}
}

func TestNotifyShutdown(t *testing.T) {
	trigger := &recordingTrigger{}
	client := dialBufconn(t, NewAgentServiceServer(&fakeSupervisor{}, fakeDevices{}, trigger, func() string { return "" }))
	ctx := context.Background()

	if _, err := client.NotifyShutdown(ctx, wrapperspb.String("reboot")); codeOf(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
	for _, reason := range []string{shutdown.WindowClosed, shutdown.Quit} {
		if _, err := client.NotifyShutdown(ctx, wrapperspb.String(reason)); err != nil {
			t.Fatalf("NotifyShutdown(%s) failed: %v", reason, err)
		}
	}
	trigger.mu.Lock()
	defer trigger.mu.Unlock()
	if len(trigger.reasons) != 2 || trigger.reasons[0] != shutdown.WindowClosed {
		t.Fatalf("unexpected triggers %v", trigger.reasons)
	}
}

// TestBackendLifecycleOverRPC drives a real backend through the real supervisor.
func TestBackendLifecycleOverRPC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main")
	if err := os.WriteFile(path, []byte("#!/bin/sh\necho listening on 8069\nexec sleep 30\n"), 0o755); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	sup := supervisor.New(supervisor.Options{
		Resolver:    supervisor.StaticResolver{Path: path},
		GracePeriod: time.Second,
	})
	coord := shutdown.New(sup, 5*time.Second, nil)
	client := dialBufconn(t, NewAgentServiceServer(sup, fakeDevices{}, coord, func() string { return "" }))
	ctx := context.Background()

	if resp, err := client.StartServer(ctx, &emptypb.Empty{}); err != nil || resp.GetValue() != "started" {
		t.Fatalf("StartServer = %v, %v", resp, err)
	}

	stream, err := client.StreamServerOutput(ctx, &emptypb.Empty{})
	if err != nil {
		t.Fatalf("StreamServerOutput failed: %v", err)
	}
	msg, err := stream.Recv()
	if err != nil {
		t.Fatalf("Recv failed: %v", err)
	}
	if _, data := protov1.ParseOutputChunk(msg); data != "listening on 8069\n" {
		t.Fatalf("first chunk = %q", data)
	}

	// window close and quit arrive together; only one stop may run
	_, _ = client.NotifyShutdown(ctx, wrapperspb.String(shutdown.WindowClosed))
	_, _ = client.NotifyShutdown(ctx, wrapperspb.String(shutdown.Quit))
	select {
	case <-coord.Done():
	case <-time.After(5 * time.Second):
		t.Fatalf("shutdown did not complete")
	}
	if coord.Err() != nil || coord.Reason() != shutdown.WindowClosed {
		t.Fatalf("shutdown reason=%q err=%v", coord.Reason(), coord.Err())
	}

	running, err := client.IsServerRunning(ctx, &emptypb.Empty{})
	if err != nil || running.GetValue() {
		t.Fatalf("IsServerRunning = %v, %v", running, err)
	}
	if _, err := client.StartServer(ctx, &emptypb.Empty{}); codeOf(err) != codes.Unavailable {
		t.Fatalf("StartServer after shutdown: expected Unavailable, got %v", err)
	}
	// the output stream ends once the backend is gone
	for {
		if _, err := stream.Recv(); err != nil {
			if err != io.EOF {
				t.Fatalf("stream ended with %v", err)
			}
			break
		}
	}
}

func TestMissingBackendOverRPC(t *testing.T) {
	sup := supervisor.New(supervisor.Options{
		Resolver: supervisor.StaticResolver{Path: filepath.Join(t.TempDir(), "server", "dist", "main")},
	})
	client := dialBufconn(t, NewAgentServiceServer(sup, fakeDevices{}, &recordingTrigger{}, func() string { return "" }))
	if _, err := client.StartServer(context.Background(), &emptypb.Empty{}); codeOf(err) != codes.FailedPrecondition {
		t.Fatalf("expected FailedPrecondition, got %v", err)
	}
	running, err := client.IsServerRunning(context.Background(), &emptypb.Empty{})
	if err != nil || running.GetValue() {
		t.Fatalf("IsServerRunning = %v, %v", running, err)
	}
}
