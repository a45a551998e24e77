package scenario

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jimezsa/proxyprobe/internal/models"
	"github.com/jimezsa/proxyprobe/internal/network"
)

// FanOut launches n independent GETs against the target through a shared
// client and waits for all of them. Each request carries its own deadline;
// one request failing or timing out never cancels its siblings. Outcomes
// come back indexed in launch order, each written only by its own goroutine
// before the join.
func FanOut(ctx context.Context, client *network.Client, target string, n int, timeout time.Duration) []models.Outcome {
	outcomes := make([]models.Outcome, n)

	var group errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		group.Go(func() error {
			reqCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			outcomes[i] = FetchOrigin(reqCtx, client, target)
			return nil
		})
	}
	_ = group.Wait()

	return outcomes
}

// Fanout is the concurrent load-balancing demo: fire N requests at once and
// show how responses distribute across the origins behind the proxy.
type Fanout struct{}

func (Fanout) Name() string  { return NameFanout }
func (Fanout) Title() string { return "Concurrent Requests (Load Balancing)" }

func (Fanout) Run(ctx context.Context, env *Env) models.Outcome {
	client, err := network.NewClient(env.Settings.Proxy, env.clientOptions()...)
	if err != nil {
		return buildFailure(err)
	}

	n := env.Settings.Requests
	env.UI.Printf("Making %d concurrent requests...", n)

	outcomes := FanOut(ctx, client, env.Settings.Target, n, env.Settings.Timeout)

	failed := 0
	for i, outcome := range outcomes {
		if outcome.OK() {
			env.UI.Printf("  Request %d: %s", i, outcome.Origin)
		} else {
			failed++
			env.UI.Warnf("  Request %d: %s error: %s", i, outcome.Kind, outcome.Detail)
		}
		env.Log.Debug().
			Int("request", i).
			Str("kind", string(outcome.Kind)).
			Int64("latency_ms", outcome.LatencyMS).
			Msg("fanout request done")
	}

	report := models.BuildReport(outcomes)
	env.UI.Printf("")
	env.UI.Printf("Origin distribution:")
	for _, origin := range report.Keys() {
		env.UI.Printf("  %s: %d requests", origin, report[origin])
	}

	kind := models.KindSuccess
	if failed == n {
		kind = models.KindOther
	}
	return models.Outcome{
		Kind:   kind,
		Detail: fmt.Sprintf("%d/%d requests succeeded across %d origins", n-failed, n, len(report)),
	}
}
