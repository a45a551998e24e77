package scenario

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/jimezsa/proxyprobe/internal/config"
	"github.com/jimezsa/proxyprobe/internal/models"
	"github.com/jimezsa/proxyprobe/internal/network"
	"github.com/jimezsa/proxyprobe/internal/testutil"
)

func TestFanOutDistribution(t *testing.T) {
	proxy := testutil.NewProxy()
	defer proxy.Close()
	echo := testutil.NewEcho("a", "b", "c")
	defer echo.Close()

	client := proxyClient(t, proxy.URL(), network.WithTimeout(5*time.Second))

	const n = 10
	outcomes := FanOut(context.Background(), client, echo.URL(), n, 5*time.Second)
	if len(outcomes) != n {
		t.Fatalf("got %d outcomes, want %d", len(outcomes), n)
	}
	for i, outcome := range outcomes {
		if !outcome.OK() {
			t.Fatalf("request %d failed: %+v", i, outcome)
		}
	}

	report := models.BuildReport(outcomes)
	if report.Total() != n {
		t.Fatalf("Total() = %d, want %d", report.Total(), n)
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(report.Keys(), want) {
		t.Fatalf("Keys() = %v, want %v", report.Keys(), want)
	}
	if echo.Hits() != n {
		t.Fatalf("echo hits = %d, want %d", echo.Hits(), n)
	}
}

func TestFanOutFailuresDoNotCancelSiblings(t *testing.T) {
	proxy := testutil.NewProxy()
	defer proxy.Close()

	// Every second response fails with a gateway error; the rest of the
	// batch must still complete.
	var mu sync.Mutex
	requests := 0
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests++
		fail := requests%2 == 0
		mu.Unlock()

		if fail {
			http.Error(w, "bad gateway", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"origin": "a"}`))
	}))
	defer target.Close()

	client := proxyClient(t, proxy.URL(), network.WithTimeout(5*time.Second))

	const n = 6
	outcomes := FanOut(context.Background(), client, target.URL, n, 5*time.Second)
	if len(outcomes) != n {
		t.Fatalf("got %d outcomes, want %d", len(outcomes), n)
	}

	failed := 0
	for _, outcome := range outcomes {
		if !outcome.OK() {
			failed++
			if outcome.Kind != models.KindConnect {
				t.Fatalf("failure kind = %s, want connect", outcome.Kind)
			}
		}
	}
	if failed != n/2 {
		t.Fatalf("failed = %d, want %d", failed, n/2)
	}
	if report := models.BuildReport(outcomes); report["a"] != n/2 {
		t.Fatalf("successful requests = %d, want %d", report["a"], n/2)
	}
}

func TestFanoutScenarioAggregates(t *testing.T) {
	proxy := testutil.NewProxy()
	defer proxy.Close()
	echo := testutil.NewEcho("a", "b")
	defer echo.Close()

	settings := config.DefaultSettings()
	proxyCfg, err := config.ParseProxyURL(proxy.URL())
	if err != nil {
		t.Fatalf("ParseProxyURL() error = %v", err)
	}
	settings.Proxy = proxyCfg
	settings.Target = echo.URL()
	settings.Timeout = 5 * time.Second
	settings.Requests = 4

	outcome := Fanout{}.Run(context.Background(), testEnv(settings))
	if !outcome.OK() {
		t.Fatalf("outcome = %+v, want success", outcome)
	}
	if echo.Hits() != 4 {
		t.Fatalf("echo hits = %d, want 4", echo.Hits())
	}
}
