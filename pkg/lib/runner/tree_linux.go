//go:build linux

package runner

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"syscall"

	"golang.org/x/sys/unix"
)

const procRoot = "/proc"

func detachedSysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		// New session: own process group, no controlling terminal
		Setsid: true,
	}
}

// descendantsOf walks /proc and returns every live descendant of pid, children first.
// Descendants that moved to another process group are only reachable this way.
func descendantsOf(pid int) []int {
	entries, err := os.ReadDir(procRoot)
	if err != nil {
		logger.Debug("read /proc failed", "error", err)
		return nil
	}

	children := make(map[int][]int)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		p, err := strconv.Atoi(e.Name())
		if err != nil || p <= 0 {
			continue
		}
		ppid, _, ok := readStat(p)
		if !ok {
			continue
		}
		children[ppid] = append(children[ppid], p)
	}

	var out []int
	queue := []int{pid}
	seen := map[int]bool{pid: true}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, c := range children[cur] {
			if seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
			queue = append(queue, c)
		}
	}
	return out
}

// processAlive treats zombies as gone: their parent may never reap them.
func processAlive(pid int) bool {
	_, state, ok := readStat(pid)
	if ok {
		return state != 'Z' && state != 'X'
	}
	// stat unreadable (e.g. hidepid): fall back to a null signal
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}

// readStat parses ppid and state from /proc/<pid>/stat. The command name may contain
// spaces and parentheses, so fields are taken after the last ')'.
func readStat(pid int) (ppid int, state byte, ok bool) {
	data, err := os.ReadFile(filepath.Join(procRoot, strconv.Itoa(pid), "stat"))
	if err != nil {
		return 0, 0, false
	}
	i := bytes.LastIndexByte(data, ')')
	if i < 0 || i+2 >= len(data) {
		return 0, 0, false
	}
	fields := bytes.Fields(data[i+1:])
	if len(fields) < 2 || len(fields[0]) != 1 {
		return 0, 0, false
	}
	ppid, err = strconv.Atoi(string(fields[1]))
	if err != nil {
		return 0, 0, false
	}
	return ppid, fields[0][0], true
}
