// Package netprobe busy-polls a TCP endpoint until it accepts a connection
// or a fixed attempt budget is exhausted.
package netprobe

import (
	"net"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	maxAttempts = 10001
	dialTimeout = time.Millisecond
	retrySleep  = time.Millisecond
)

// WaitForPort probes ip:port with a 1ms-timeout connect, sleeping 1ms between
// failures, up to 10001 attempts. It returns true on the first successful
// connect and logs the retry count at debug level; false once the budget is
// exhausted. Transient dial errors and refused connections are treated
// identically.
func WaitForPort(ip string, port uint16) bool {
	addr := net.JoinHostPort(ip, strconv.Itoa(int(port)))
	for attempt := 0; attempt < maxAttempts; attempt++ {
		conn, err := net.DialTimeout("tcp", addr, dialTimeout)
		if err == nil {
			conn.Close()
			logrus.WithFields(logrus.Fields{
				"addr":    addr,
				"retries": attempt,
			}).Debug("netprobe: port became reachable")
			return true
		}
		time.Sleep(retrySleep)
	}
	logrus.WithField("addr", addr).Debug("netprobe: exhausted attempt budget")
	return false
}
