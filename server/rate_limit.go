// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package server

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimitTransport delays requests so the GitHub client stays below the
// configured request rate. It never retries.
type RateLimitTransport struct {
	limiter *rate.Limiter
	base    http.RoundTripper
}

func (t *RateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}

// NewRateLimitTransport allows limit requests per second with bursts of
// tokens requests on top of base.
func NewRateLimitTransport(limit rate.Limit, tokens int, base http.RoundTripper) *RateLimitTransport {
	return &RateLimitTransport{
		limiter: rate.NewLimiter(limit, tokens),
		base:    base,
	}
}
