// Released under an MIT license. See LICENSE.

//go:build unix

package process

import (
	"os"

	"golang.org/x/sys/unix"
)

//nolint:gochecknoglobals
var watched = []os.Signal{unix.SIGINT, unix.SIGQUIT, unix.SIGTERM}

func relay(c Canceler, s os.Signal) {
	switch s {
	case unix.SIGINT:
		c.CancelEvaluate(false, "")
	case unix.SIGQUIT:
		c.CancelEvaluate(true, "")
	case unix.SIGTERM:
		c.HaltEvaluate("")
	}
}
