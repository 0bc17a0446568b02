package api

import (
	"fmt"
	"strings"
)

// ServerName is the unique identity of a region-hosting process. The
// start time distinguishes incarnations of the same host:port, so
// equality is the exact tuple.
type ServerName struct {
	Host      string
	Port      int
	StartTime int64
}

var ZeroServerName ServerName

// String returns a string like: host,1234,1613234567890
func (sn ServerName) String() string {
	return fmt.Sprintf("%s,%d,%d", sn.Host, sn.Port, sn.StartTime)
}

// IsBlank reports whether the server name is missing or
// whitespace-only. Callers must reject blank names before issuing any
// RPC which requires one.
func (sn ServerName) IsBlank() bool {
	return strings.TrimSpace(sn.Host) == ""
}
