// internal/model/sample.go
package model

import "time"

// Sample is a snapshot of cumulative traffic counters
type Sample struct {
	RxBytes   uint64 // Total bytes received
	TxBytes   uint64 // Total bytes transmitted
	Timestamp time.Time
}

// TimestampMillis returns the sample time as unix milliseconds
func (s Sample) TimestampMillis() int64 {
	return s.Timestamp.UnixMilli()
}

// Rate is throughput derived from two samples, in bytes per second
type Rate struct {
	Download uint64
	Upload   uint64
}

// Total returns download + upload
func (r Rate) Total() uint64 {
	return r.Download + r.Upload
}
