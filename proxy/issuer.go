// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Issuer asks the native proxy service for a locally routable URL.
type Issuer interface {
	Issue(ctx context.Context, originalURL string) (string, error)
}

// HTTPIssuer talks to a proxy service over HTTP.
type HTTPIssuer struct {
	Endpoint string
	Client   *http.Client
}

type issueRequest struct {
	OriginalURL string `json:"original_url"`
}

type issueResponse struct {
	ProxyURL string `json:"proxy_url"`
}

func NewHTTPIssuer(endpoint string, client *http.Client) *HTTPIssuer {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPIssuer{Endpoint: endpoint, Client: client}
}

func (i *HTTPIssuer) Issue(ctx context.Context, originalURL string) (string, error) {
	body, err := json.Marshal(issueRequest{OriginalURL: originalURL})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("[issue] failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := i.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("[issue] failed to make POST request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", fmt.Errorf("[issue] unexpected status code: %d, status: %s", res.StatusCode, res.Status)
	}

	responseBody, err := io.ReadAll(io.LimitReader(res.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("[issue] failed to read response body: %w", err)
	}

	var decoded issueResponse
	if err := json.Unmarshal(responseBody, &decoded); err != nil {
		return "", fmt.Errorf("[issue] failed to unmarshal response body: %w", err)
	}
	if decoded.ProxyURL == "" {
		return "", errors.New("[issue] empty proxy_url")
	}
	return decoded.ProxyURL, nil
}
