package network

import (
	"context"
	"errors"
	"net"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"

	"github.com/jimezsa/proxyprobe/internal/models"
)

// Classify maps a transport error to the failure taxonomy. The proxy dialer
// reports tunnel rejections as plain errors carrying the proxy's status
// line, so string matching is part of the contract here.
func Classify(err error) (models.Kind, string) {
	if err == nil {
		return models.KindSuccess, ""
	}
	msg := err.Error()

	var buildErr *BuildError
	if errors.As(err, &buildErr) {
		return models.KindBuild, msg
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return models.KindTimeout, msg
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return models.KindTimeout, msg
	}
	if containsAny(msg, "Client.Timeout exceeded", "deadline exceeded", "i/o timeout") {
		return models.KindTimeout, msg
	}

	if containsAny(msg, "407", "Proxy Authentication Required", "proxy auth") {
		return models.KindAuth, msg
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return models.KindConnect, msg
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return models.KindConnect, msg
	}
	if containsAny(msg,
		"no such host",
		"connection refused",
		"connection reset",
		"network is unreachable",
		"proxy responded with non 200 code",
		"EOF",
	) {
		return models.KindConnect, msg
	}

	return models.KindOther, msg
}

// ClassifyStatus flags response codes that signal a proxy-level failure:
// 407 for rejected credentials, 502/504 for an upstream the proxy could not
// reach. Everything else is a completed exchange.
func ClassifyStatus(status int) models.Kind {
	switch status {
	case fhttp.StatusProxyAuthRequired:
		return models.KindAuth
	case fhttp.StatusBadGateway, fhttp.StatusGatewayTimeout:
		return models.KindConnect
	default:
		return models.KindSuccess
	}
}

func containsAny(msg string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(msg, needle) {
			return true
		}
	}
	return false
}
