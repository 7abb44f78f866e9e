package sync

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rvergnes/edtcal/internal/config"
)

// BuildFetchURL returns the URL to actually fetch for a calendar source.
// Non-planning URLs pass through unchanged. URLs on the configured
// planning host (under its path prefix) are rewritten through the proxy:
// the proxy's /p-suffixed path is concatenated with the original path,
// and the original query string is preserved. Requesting a planning URL
// with no proxy configured is a configuration error, raised before any
// network call.
func BuildFetchURL(cfg config.Config, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing source url: %w", err)
	}

	if cfg.PlanningHost == "" ||
		!strings.EqualFold(u.Host, cfg.PlanningHost) ||
		!strings.HasPrefix(u.Path, cfg.PlanningPathPrefix) {
		return rawURL, nil
	}

	if cfg.ProxyBase == "" {
		return "", ErrProxyNotConfigured
	}

	out := strings.TrimRight(cfg.ProxyBase, "/") + "/p" + u.Path
	if u.RawQuery != "" {
		out += "?" + u.RawQuery
	}
	return out, nil
}
