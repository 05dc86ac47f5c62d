package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"simas/model"
)

// HTTPSource reads the aggregate from a remote PSB backend. Deployments that
// keep PSB orders in a separate service point analytics.upstream_url at it.
type HTTPSource struct {
	client *http.Client
	url    string
	token  string
}

func NewHTTPSource(url, token string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPSource{
		client: &http.Client{Timeout: timeout},
		url:    url,
		token:  token,
	}
}

func (s *HTTPSource) FetchAnalytics(ctx context.Context) (*model.PSBAnalytics, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build analytics request: %w", err)
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		// No response at all: DNS, TLS, refused connection.
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: upstream status %d", ErrUnreachable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream PSB status %d", resp.StatusCode)
	}

	return normalize(body)
}

// normalize accepts the three wire shapes the PSB backend has shipped over
// time: the {success, data} envelope, a bare analytics object, and anything
// else treated best-effort as data-or-body.
func normalize(body []byte) (*model.PSBAnalytics, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, fmt.Errorf("decode analytics response: %w", err)
	}

	payload := body
	_, hasSuccess := probe["success"]
	data, hasData := probe["data"]
	_, hasSummary := probe["summary"]
	_, hasCluster := probe["clusterStats"]
	_, hasSto := probe["stoStats"]

	switch {
	case hasSuccess && hasData:
		payload = data
	case hasSummary || hasCluster || hasSto:
		// Bare analytics object.
	case hasData:
		payload = data
	}

	out := model.EmptyPSBAnalytics()
	if err := json.Unmarshal(payload, out); err != nil {
		return nil, fmt.Errorf("decode analytics payload: %w", err)
	}
	if out.ClusterStats == nil {
		out.ClusterStats = []model.ClusterStat{}
	}
	if out.StoStats == nil {
		out.StoStats = []model.STOStat{}
	}
	if out.MonthlyTrends == nil {
		out.MonthlyTrends = []model.MonthlyTrend{}
	}
	return out, nil
}

// IsUnreachable classifies a fetch failure as a transport problem. Message
// sniffing mirrors the old dashboard heuristic for errors that are not
// already tagged.
func IsUnreachable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnreachable) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "network") || strings.Contains(msg, "fetch")
}
