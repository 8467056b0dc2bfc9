//go:build !windows

package main

import (
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

// detectTerminalWidth reports the column count of the attached terminal,
// preferring the winsize ioctl over the COLUMNS variable. Zero means
// unknown (e.g. output is piped).
func detectTerminalWidth() int {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err == nil && ws != nil && ws.Col > 0 {
		return int(ws.Col)
	}
	return widthFromColumnsEnv()
}

func widthFromColumnsEnv() int {
	n, err := strconv.Atoi(os.Getenv("COLUMNS"))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
