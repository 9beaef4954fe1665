//go:build linux

package runner

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestReadStatSelf(t *testing.T) {
	ppid, state, ok := readStat(os.Getpid())
	if !ok {
		t.Fatalf("readStat(self) failed")
	}
	if ppid != os.Getppid() {
		t.Fatalf("ppid = %d, want %d", ppid, os.Getppid())
	}
	if state == 'Z' || state == 'X' {
		t.Fatalf("unexpected state %q for the test process", state)
	}
}

func TestTerminateReachesDescendantInOwnSession(t *testing.T) {
	if _, err := exec.LookPath("setsid"); err != nil {
		t.Skip("Skipping: setsid not available")
	}

	h := launchShell(t, "setsid sleep 30 & echo $!; wait", nil)

	stdout, _ := h.Output(context.Background())
	var line []byte
	select {
	case chunk := <-stdout:
		line = chunk
	case <-time.After(2 * time.Second):
		t.Fatalf("did not receive grandchild pid")
	}
	sc := bufio.NewScanner(bytes.NewReader(line))
	sc.Scan()
	grandchild, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil {
		t.Fatalf("parse grandchild pid from %q: %v", line, err)
	}

	found := false
	for _, pid := range descendantsOf(h.Pid()) {
		if pid == grandchild {
			found = true
		}
	}
	if !found {
		t.Fatalf("descendantsOf(%d) does not include %d", h.Pid(), grandchild)
	}

	if _, err := h.Terminate(context.Background(), 2*time.Second); err != nil {
		t.Fatalf("Terminate failed: %v", err)
	}

	if processAlive(grandchild) {
		t.Fatalf("grandchild %d survived termination", grandchild)
	}
}
