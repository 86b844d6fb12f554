// File: internal/infra/metrics/metrics.go
package metrics

import "strings"

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Status labels shared by the counters below.
const (
	StatusOK   = "ok"
	StatusFail = "failed"
)

// StatusOf maps an error to StatusOK or StatusFail.
func StatusOf(err error) string {
	if err != nil {
		return StatusFail
	}
	return StatusOK
}
