//go:build windows

package main

import (
	"os"
	"strconv"
)

// detectTerminalWidth reports the column count of the attached terminal.
// Without a winsize ioctl the COLUMNS variable is the only hint; zero
// means unknown.
func detectTerminalWidth() int {
	n, err := strconv.Atoi(os.Getenv("COLUMNS"))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
