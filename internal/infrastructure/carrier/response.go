package carrier

import (
	"regexp"
	"strings"
)

// The carrier's response XML drifts in small ways between deployments
// (namespace prefixes come and go, self-closing tags appear). Extraction
// therefore locates known tag boundaries instead of validating a schema;
// this file is the only place allowed to do that.

// SetOrderResponse is the typed result of a shipment creation call
type SetOrderResponse struct {
	IsError        bool
	ErrorMessage   string
	TrackingNumber string
}

// tagPattern matches <Tag>, <ns:Tag>, with any attributes, capturing the text content
func tagPattern(tag string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)<(?:\w+:)?` + tag + `(?:\s[^>]*)?>(.*?)</(?:\w+:)?` + tag + `>`)
}

var (
	isErrorPattern      = tagPattern("IsError")
	errorMessagePattern = tagPattern("ErrorMessage")
	cargoKeyPattern     = tagPattern("CargoKey")
)

// extractTag returns the trimmed text of the first occurrence of tag, and
// whether the tag was found at all.
func extractTag(body []byte, pattern *regexp.Regexp) (string, bool) {
	m := pattern.FindSubmatch(body)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(string(m[1])), true
}

// parseSetOrderResponse extracts the error flag, message and tracking
// number. A response whose error flag is "true", absent or unparseable is
// an error response.
func parseSetOrderResponse(body []byte) SetOrderResponse {
	resp := SetOrderResponse{IsError: true}

	flag, found := extractTag(body, isErrorPattern)
	if !found {
		resp.ErrorMessage = "carrier response missing error flag"
		return resp
	}
	switch strings.ToLower(flag) {
	case "false", "0":
		resp.IsError = false
	case "true", "1":
		resp.IsError = true
	default:
		resp.ErrorMessage = "carrier response carries unreadable error flag: " + flag
		return resp
	}

	if msg, ok := extractTag(body, errorMessagePattern); ok {
		resp.ErrorMessage = msg
	}
	if key, ok := extractTag(body, cargoKeyPattern); ok {
		resp.TrackingNumber = key
	}
	return resp
}

// isErrorResponse applies the same error-flag rule to query responses
func isErrorResponse(body []byte) bool {
	flag, found := extractTag(body, isErrorPattern)
	if !found {
		return true
	}
	switch strings.ToLower(flag) {
	case "false", "0":
		return false
	default:
		return true
	}
}

// errorMessageOf returns the carrier's message or a generic fallback
func errorMessageOf(body []byte) string {
	if msg, ok := extractTag(body, errorMessagePattern); ok && msg != "" {
		return msg
	}
	return "carrier reported an error"
}
