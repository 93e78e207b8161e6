// SPDX-License-Identifier: MIT

package route6

import "github.com/sirupsen/logrus"

// NewLogger returns a logrus.Logger configured the way this package's
// callers are expected to use it: structured fields, text output. It
// is a convenience for programs that don't already carry their own
// logrus.Logger; WorkerConfig and workerpool.Config accept any
// *logrus.Logger, including one wired into a larger program's own
// logging setup.
func NewLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// workerLogger returns the per-worker logging context every log call
// in this package attaches to, analogous to the "[%d] %s:" lcore-id
// prefix a DPDK lcore loop writes by hand in C.
func workerLogger(l *logrus.Logger, id WorkerID, master bool) *logrus.Entry {
	return l.WithFields(logrus.Fields{"worker": int(id), "master": master})
}
