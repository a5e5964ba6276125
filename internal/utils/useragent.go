package utils

import "strings"

// NormalizeUserAgent reduces a raw User-Agent header to a stable device
// fingerprint of the form "Browser-Major_OS", e.g. "Chrome-120_Windows".
// The fingerprint scopes refresh tokens to one active session per device,
// so it deliberately ignores minor versions and build metadata.
func NormalizeUserAgent(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "Unknown"
	}

	browser, version := detectBrowser(raw)
	os := detectOS(raw)
	return browser + "-" + version + "_" + os
}

// Order matters: Edge and Opera embed "Chrome", Chrome embeds "Safari".
var browserMarkers = []struct {
	marker string
	name   string
}{
	{"Edg/", "Edge"},
	{"OPR/", "Opera"},
	{"Opera/", "Opera"},
	{"Chrome/", "Chrome"},
	{"Firefox/", "Firefox"},
	{"Version/", "Safari"}, // Safari reports its version via Version/x.y
	{"MSIE ", "IE"},
	{"okhttp/", "okhttp"},
	{"Dalvik/", "Android"},
	{"CFNetwork/", "CFNetwork"},
}

func detectBrowser(raw string) (name, major string) {
	for _, m := range browserMarkers {
		idx := strings.Index(raw, m.marker)
		if idx == -1 {
			continue
		}
		rest := raw[idx+len(m.marker):]
		return m.name, majorVersion(rest)
	}
	if strings.Contains(raw, "Safari") {
		return "Safari", "0"
	}
	return "UnknownBrowser", "0"
}

func majorVersion(s string) string {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return "0"
	}
	return s[:end]
}

func detectOS(raw string) string {
	switch {
	case strings.Contains(raw, "Windows"):
		return "Windows"
	case strings.Contains(raw, "iPhone"), strings.Contains(raw, "iPad"):
		return "iOS"
	case strings.Contains(raw, "Android"):
		return "Android"
	case strings.Contains(raw, "Mac OS X"), strings.Contains(raw, "Macintosh"):
		return "macOS"
	case strings.Contains(raw, "Linux"):
		return "Linux"
	default:
		return "UnknownOS"
	}
}
