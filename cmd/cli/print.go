package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	protov1 "github.com/abhk-odoo/odoo-printer-agent/api/v1"
	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib"
)

func printStatusTable(w io.Writer, st protov1.StatusView) {
	pid, started := "", ""
	if st.Pid > 0 {
		pid = strconv.Itoa(st.Pid)
	}
	if !st.StartTime.IsZero() {
		started = st.StartTime.Local().Format(time.DateTime)
	}
	printTable(w,
		[]string{"STATE", "PID", "STARTED", "LAST EXIT", "EXECUTABLE"},
		[][]string{{st.State, pid, started, st.LastExit, st.Executable}},
	)
}

func printDeviceTable(w io.Writer, devices []lib.DeviceRecord) {
	if len(devices) == 0 {
		fmt.Fprintln(w, "no USB devices found")
		return
	}
	rows := make([][]string, 0, len(devices))
	for _, d := range devices {
		rows = append(rows, []string{d.VendorID, d.ProductID, d.Manufacturer, d.Product})
	}
	printTable(w, []string{"VENDOR", "PRODUCT ID", "MANUFACTURER", "PRODUCT"}, rows)
}

func printTable(w io.Writer, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = maxInt(widths[i], len(cell))
		}
	}

	parts := make([]string, len(widths))
	for i, wd := range widths {
		parts[i] = strings.Repeat("-", wd)
	}
	sep := "+-" + strings.Join(parts, "-+-") + "-+\n"

	line := func(cells []string) {
		padded := make([]string, len(cells))
		for i, c := range cells {
			padded[i] = pad(c, widths[i])
		}
		fmt.Fprintf(w, "| %s |\n", strings.Join(padded, " | "))
	}

	fmt.Fprint(w, sep)
	line(header)
	fmt.Fprint(w, sep)
	for _, row := range rows {
		line(row)
	}
	fmt.Fprint(w, sep)
}

func pad(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
