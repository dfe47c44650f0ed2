package identity

import (
	"strings"

	"github.com/mssola/useragent"
)

// DescribeDevice condenses a User-Agent header into a short human-readable
// description for the audit record. Empty input yields empty output; the
// device is informational, never required.
func DescribeDevice(rawUA string) string {
	if rawUA == "" {
		return ""
	}
	ua := useragent.New(rawUA)
	name, version := ua.Browser()
	parts := make([]string, 0, 3)
	if name != "" {
		if version != "" {
			parts = append(parts, name+" "+version)
		} else {
			parts = append(parts, name)
		}
	}
	if os := ua.OS(); os != "" {
		parts = append(parts, os)
	}
	if ua.Mobile() {
		parts = append(parts, "mobile")
	}
	if len(parts) == 0 {
		return rawUA
	}
	return strings.Join(parts, ", ")
}
