package guard

import (
	"log/slog"
	"net/netip"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const (
	opPath = "validate path"
	opURL  = "validate url"
)

var (
	// DefaultSystemDirs lists directories analysis must never read
	DefaultSystemDirs = []string{"/bin", "/sbin", "/etc", "/sys", "/proc", "/dev"}
	// DefaultSchemes lists accepted clone URL schemes
	DefaultSchemes = []string{"http", "https", "git"}
	// DefaultBlockedHosts lists hosts a clone URL must not target
	DefaultBlockedHosts = []string{"localhost", "127.0.0.1", "0.0.0.0", "::1"}
	// KnownHosts lists hosting services that do not trigger a warning
	KnownHosts = []string{"github.com", "gitlab.com", "bitbucket.org"}
)

// Guard validates local paths and remote URLs before any I/O
type Guard struct {
	systemDirs   []string
	schemes      map[string]bool
	blockedHosts map[string]bool
	logger       *slog.Logger
}

// New creates a guard
func New(options ...Option) *Guard {
	ret := &Guard{logger: slog.Default()}
	WithSystemDirs(DefaultSystemDirs...)(ret)
	WithSchemes(DefaultSchemes...)(ret)
	WithBlockedHosts(DefaultBlockedHosts...)(ret)
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// ValidateLocalPath returns resolved path or SecurityError
func (g *Guard) ValidateLocalPath(location string) (string, error) {
	if strings.TrimSpace(location) == "" {
		return "", newError(opPath, location, "empty path")
	}
	for _, segment := range strings.FieldsFunc(location, isSeparator) {
		if segment == "~" {
			return "", newError(opPath, location, "home directory expansion is not allowed")
		}
	}
	absPath, err := filepath.Abs(location)
	if err != nil {
		return "", newError(opPath, location, "unable to resolve: "+err.Error())
	}
	if _, err = os.Stat(absPath); err != nil {
		return "", newError(opPath, location, "path does not exist")
	}
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", newError(opPath, location, "unable to resolve symlinks: "+err.Error())
	}
	for _, segment := range strings.FieldsFunc(resolved, isSeparator) {
		switch segment {
		case ".", "..", "~":
			return "", newError(opPath, location, "suspicious path component "+segment)
		}
	}
	for _, dir := range g.systemDirs {
		if resolved == dir || strings.HasPrefix(resolved, dir+string(filepath.Separator)) {
			return "", newError(opPath, location, "system directory "+dir)
		}
	}
	return resolved, nil
}

// ValidateRemoteURL returns SecurityError for unsafe clone URLs
func (g *Guard) ValidateRemoteURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return newError(opURL, raw, "empty url")
	}
	lower := strings.ToLower(raw)
	for _, scheme := range []string{"https:/", "http:/"} {
		if strings.HasPrefix(lower, scheme) && !strings.HasPrefix(lower, scheme+"/") {
			return newError(opURL, raw, "malformed scheme separator")
		}
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return newError(opURL, raw, "unparsable url")
	}
	scheme := strings.ToLower(parsed.Scheme)
	if !g.schemes[scheme] {
		return newError(opURL, raw, "scheme not allowed: "+scheme)
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return newError(opURL, raw, "missing hostname")
	}
	if g.blockedHosts[host] {
		return newError(opURL, raw, "blocked host "+host)
	}
	if addr, err := netip.ParseAddr(host); err == nil {
		if addr.IsLoopback() || addr.IsUnspecified() {
			return newError(opURL, raw, "blocked address "+host)
		}
	}
	if !strings.HasSuffix(strings.ToLower(parsed.Path), ".git") && !isKnownHost(host) {
		g.logger.Warn("url does not match a known repository pattern", slog.String("url", raw))
	}
	return nil
}

func isKnownHost(host string) bool {
	for _, known := range KnownHosts {
		if host == known || strings.HasSuffix(host, "."+known) {
			return true
		}
	}
	return false
}

func isSeparator(r rune) bool {
	return r == '/' || r == filepath.Separator
}
