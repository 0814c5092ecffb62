package ttyhost

import (
	"os"

	"golang.org/x/sys/unix"
)

// Puts the terminal into raw mode, returning a function that restores the
// original mode. Output processing is kept, so that "\n" still moves to the
// start of the next line.
func makeRaw(file *os.File) (func() error, error) {
	fd := int(file.Fd())
	old, err := unix.IoctlGetTermios(fd, getAttrIOCTL)
	if err != nil {
		return nil, err
	}
	raw := *old
	raw.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	raw.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	raw.Cflag &^= unix.CSIZE | unix.PARENB
	raw.Cflag |= unix.CS8
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, setAttrIOCTL, &raw); err != nil {
		return nil, err
	}
	return func() error { return unix.IoctlSetTermios(fd, setAttrIOCTL, old) }, nil
}

// Returns the size of the terminal, falling back to 24 rows and 80 columns
// when it is unknown.
func winSize(file *os.File) (rows, cols int) {
	ws, err := unix.IoctlGetWinsize(int(file.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 24, 80
	}
	// Pick up a reasonable value for row and col if they equal zero in
	// special cases, e.g. serial consoles.
	if ws.Col == 0 {
		ws.Col = 80
	}
	if ws.Row == 0 {
		ws.Row = 24
	}
	return int(ws.Row), int(ws.Col)
}
