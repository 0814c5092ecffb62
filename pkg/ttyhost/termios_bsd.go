//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package ttyhost

import "golang.org/x/sys/unix"

const (
	getAttrIOCTL = unix.TIOCGETA
	setAttrIOCTL = unix.TIOCSETA
)
