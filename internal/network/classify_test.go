package network

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/jimezsa/proxyprobe/internal/models"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want models.Kind
	}{
		{nil, models.KindSuccess},
		{&BuildError{Err: errors.New("proxy url has no host")}, models.KindBuild},
		{context.DeadlineExceeded, models.KindTimeout},
		{fmt.Errorf("Get \"http://x\": %w", context.DeadlineExceeded), models.KindTimeout},
		{errors.New("dial tcp: i/o timeout"), models.KindTimeout},
		{&net.DNSError{Err: "no such host", Name: "invalid.invalid.invalid", IsNotFound: true}, models.KindConnect},
		{errors.New("dial tcp 127.0.0.1:3128: connect: connection refused"), models.KindConnect},
		{errors.New("proxy responded with non 200 code: 502 Bad Gateway"), models.KindConnect},
		{errors.New("proxy responded with non 200 code: 407 Proxy Authentication Required"), models.KindAuth},
		{errors.New("malformed chunked encoding"), models.KindOther},
	}

	for _, tc := range cases {
		got, _ := Classify(tc.err)
		if got != tc.want {
			t.Fatalf("Classify(%v) = %s, want %s", tc.err, got, tc.want)
		}
	}
}

func TestClassifyNetError(t *testing.T) {
	opErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connect: network is unreachable")}
	if got, _ := Classify(opErr); got != models.KindConnect {
		t.Fatalf("Classify(OpError) = %s, want connect", got)
	}
}

func TestClassifyStatus(t *testing.T) {
	cases := []struct {
		status int
		want   models.Kind
	}{
		{200, models.KindSuccess},
		{404, models.KindSuccess},
		{407, models.KindAuth},
		{502, models.KindConnect},
		{504, models.KindConnect},
	}

	for _, tc := range cases {
		if got := ClassifyStatus(tc.status); got != tc.want {
			t.Fatalf("ClassifyStatus(%d) = %s, want %s", tc.status, got, tc.want)
		}
	}
}
