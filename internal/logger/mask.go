package logger

import "strings"

// MaskEmail keeps the first two characters of the local part and the domain,
// so addresses can appear in logs without being readable.
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return "***"
	}
	runes := []rune(local)
	if len(runes) <= 2 {
		return local + "***@" + domain
	}
	return string(runes[:2]) + "***@" + domain
}
