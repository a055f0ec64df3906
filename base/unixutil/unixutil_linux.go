package unixutil

import (
	"time"

	"golang.org/x/sys/unix"
)

func DurationFromTimespec(ts unix.Timespec) time.Duration {
	sec, nsec := ts.Unix()
	return time.Duration(sec)*time.Second + time.Duration(nsec)
}
