package common

import (
	"log/slog"
	"regexp"
	"strings"
)

// Masked replaces every sensitive value.
const Masked = "***MASKED***"

// SensitivePattern detects one kind of secret in free text and by attribute key.
type SensitivePattern struct {
	Name        string
	Regex       *regexp.Regexp
	Replacement string
	Keys        []string // attribute keys masked outright, case-insensitive
}

// DefaultSensitivePatterns covers the secrets that travel through a Xentral call:
// the password/init key, the Basic auth header and any tokens a proxy may add.
var DefaultSensitivePatterns = []SensitivePattern{
	{
		Name:        "password",
		Regex:       regexp.MustCompile(`(?i)("?(?:password|passwd|pwd|initkey)"?\s*[:=]\s*)"?[^"',}\]\s]+"?`),
		Replacement: `${1}"` + Masked + `"`,
		Keys:        []string{"password", "passwd", "pwd", "initkey"},
	},
	{
		Name:        "basic_auth",
		Regex:       regexp.MustCompile(`(?i)Basic\s+[A-Za-z0-9+/]+=*`),
		Replacement: "Basic " + Masked,
		Keys:        []string{"authorization"},
	},
	{
		Name:        "bearer_token",
		Regex:       regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9\-._~+/]+=*`),
		Replacement: "Bearer " + Masked,
		Keys:        []string{"token", "access_token", "jwt_secret", "secret"},
	},
}

// Masker masks sensitive information in log output.
type Masker struct {
	patterns []SensitivePattern
	enabled  bool
}

// NewMasker creates a masker with the default patterns.
func NewMasker() *Masker {
	return &Masker{patterns: DefaultSensitivePatterns, enabled: true}
}

// NewMaskerWithPatterns creates a masker with custom patterns.
func NewMaskerWithPatterns(patterns []SensitivePattern) *Masker {
	return &Masker{patterns: patterns, enabled: true}
}

func (m *Masker) SetEnabled(enabled bool) { m.enabled = enabled }

func (m *Masker) IsEnabled() bool { return m.enabled }

// MaskString applies every pattern to input.
func (m *Masker) MaskString(input string) string {
	if !m.enabled {
		return input
	}
	out := input
	for _, p := range m.patterns {
		if p.Regex != nil {
			out = p.Regex.ReplaceAllString(out, p.Replacement)
		}
	}
	return out
}

func (m *Masker) sensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, p := range m.patterns {
		for _, s := range p.Keys {
			if k == s {
				return true
			}
		}
	}
	return false
}

// MaskAttr masks a slog attribute by key, or by content for string values. Groups are walked.
func (m *Masker) MaskAttr(a slog.Attr) slog.Attr {
	if !m.enabled {
		return a
	}
	v := a.Value.Resolve()
	if m.sensitiveKey(a.Key) && v.Kind() != slog.KindGroup {
		return slog.String(a.Key, Masked)
	}
	switch v.Kind() {
	case slog.KindString:
		return slog.String(a.Key, m.MaskString(v.String()))
	case slog.KindGroup:
		group := v.Group()
		masked := make([]any, len(group))
		for i, ga := range group {
			masked[i] = m.MaskAttr(ga)
		}
		return slog.Group(a.Key, masked...)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return slog.String(a.Key, m.MaskString(err.Error()))
		}
	}
	return slog.Attr{Key: a.Key, Value: v}
}

var globalMasker = NewMasker()

// GetGlobalMasker returns the masker used by loggers created in this package.
func GetGlobalMasker() *Masker { return globalMasker }

// MaskSensitiveData masks input with the global masker.
func MaskSensitiveData(input string) string { return globalMasker.MaskString(input) }

// EnableMasking switches global masking on or off.
func EnableMasking(enabled bool) { globalMasker.SetEnabled(enabled) }

// IsMaskingEnabled reports the global masking state.
func IsMaskingEnabled() bool { return globalMasker.IsEnabled() }
