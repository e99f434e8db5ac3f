// Released under an MIT license. See LICENSE.

//go:build !unix

package process

import (
	"os"
)

//nolint:gochecknoglobals
var watched = []os.Signal{os.Interrupt}

func relay(c Canceler, s os.Signal) {
	if s == os.Interrupt {
		c.CancelEvaluate(false, "")
	}
}
