package polyglot

import "strings"

// Sentinel markers bracket the JSON payload a guest program prints to
// report its return value back across the process boundary (spec §6.2).
// They must appear on their own lines; anything the guest writes to
// stdout before or after them is ordinary program output and is ignored
// for value-extraction purposes.
const (
	sentinelStart = "---NAAB-RETURN---"
	sentinelEnd   = "---END-NAAB-RETURN---"
)

// extractSentinelPayload scans stdout for a sentinel-delimited JSON
// payload and returns it along with whether one was found. Only the
// first occurrence is honored; a guest program that prints the markers
// more than once is malformed and the extra output is left alone.
func extractSentinelPayload(stdout string) (string, bool) {
	startIdx := strings.Index(stdout, sentinelStart)
	if startIdx < 0 {
		return "", false
	}
	rest := stdout[startIdx+len(sentinelStart):]
	endIdx := strings.Index(rest, sentinelEnd)
	if endIdx < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:endIdx]), true
}
