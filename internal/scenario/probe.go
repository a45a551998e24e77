package scenario

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/jimezsa/proxyprobe/internal/models"
	"github.com/jimezsa/proxyprobe/internal/network"
)

const maxBodyBytes = 64 << 10

// FetchOrigin issues one GET and classifies the result. When the payload is
// the echo endpoint's JSON, the origin field is extracted.
func FetchOrigin(ctx context.Context, client *network.Client, target string) models.Outcome {
	start := time.Now()

	resp, err := client.Get(ctx, target)
	if err != nil {
		kind, detail := network.Classify(err)
		return models.Outcome{Kind: kind, Detail: detail, LatencyMS: time.Since(start).Milliseconds()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		kind, detail := network.Classify(err)
		return models.Outcome{Kind: kind, Status: resp.StatusCode, Detail: detail, LatencyMS: time.Since(start).Milliseconds()}
	}

	text := strings.TrimSpace(string(body))
	if kind := network.ClassifyStatus(resp.StatusCode); kind != models.KindSuccess {
		return models.Outcome{
			Kind:      kind,
			Status:    resp.StatusCode,
			Detail:    "status " + resp.Status,
			LatencyMS: time.Since(start).Milliseconds(),
		}
	}

	outcome := models.Outcome{
		Kind:      models.KindSuccess,
		Status:    resp.StatusCode,
		Body:      text,
		LatencyMS: time.Since(start).Milliseconds(),
	}

	var echo struct {
		Origin string `json:"origin"`
	}
	if err := json.Unmarshal(body, &echo); err == nil && echo.Origin != "" {
		outcome.Origin = echo.Origin
	}
	return outcome
}
