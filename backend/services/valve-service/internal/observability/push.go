package observability

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus/push"
)

const pushJob = "valve_import"

// Push sends the registry to a Prometheus Pushgateway. A blank URL is a no-op;
// short-lived CLI runs have nothing to scrape otherwise.
func (m *Metrics) Push(ctx context.Context, url, instance string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}
	pusher := push.New(url, pushJob).Gatherer(m.Registry)
	if instance != "" {
		pusher = pusher.Grouping("instance", instance)
	}
	return pusher.PushContext(ctx)
}
