// Package ml is the client for the external inference service (the Flask
// backend scoring URLs). The service is an opaque collaborator: requests are
// proxied synchronously with no retry, and its response body is passed
// through untouched.
package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/Kasamvinay/phishformer/internal/log"
	"github.com/Kasamvinay/phishformer/internal/metrics"
	"github.com/Kasamvinay/phishformer/internal/repo"
)

const cacheTTL = time.Hour

type Client struct {
	base  string
	http  *http.Client
	cache *repo.Redis // optional
}

func NewClient(baseURL string, timeout time.Duration, cache *repo.Redis) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		base:  baseURL,
		http:  &http.Client{Timeout: timeout},
		cache: cache,
	}
}

type PredictRequest struct {
	URL       string `json:"url"`
	FetchHTML bool   `json:"fetch_html,omitempty"`
}

// Predict forwards a scoring request and returns the raw verdict document
// (prediction, confidence, phishing_score, risk_level, recommendations, ...).
// Plain-URL requests are served from Redis when a fresh verdict exists;
// cache trouble is logged and ignored.
func (c *Client) Predict(ctx context.Context, in PredictRequest) (json.RawMessage, error) {
	key := "predict:" + in.URL
	if c.cache != nil && !in.FetchHTML {
		if v, err := c.cache.C.Get(ctx, key).Bytes(); err == nil {
			metrics.PredictCacheHits.WithLabelValues("hit").Inc()
			return v, nil
		} else if err != redis.Nil {
			log.WithDD(ctx, log.L()).Warn("predict cache read", zap.Error(err))
		}
		metrics.PredictCacheHits.WithLabelValues("miss").Inc()
	}

	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference service status %d", res.StatusCode)
	}

	if c.cache != nil && !in.FetchHTML {
		if err := c.cache.C.Set(ctx, key, raw, cacheTTL).Err(); err != nil {
			log.WithDD(ctx, log.L()).Warn("predict cache write", zap.Error(err))
		}
	}
	return raw, nil
}

// Health proxies the collaborator's /health endpoint.
func (c *Client) Health(ctx context.Context) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/health", nil)
	if err != nil {
		return nil, err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference service status %d", res.StatusCode)
	}
	return raw, nil
}
