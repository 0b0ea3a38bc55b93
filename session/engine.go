// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package session

import (
	"context"
	"net/http"

	"github.com/spezifisch/vidplay/hls"
	"github.com/spezifisch/vidplay/logger"
)

// StreamEngine is an adaptive streaming engine bound to one surface.
type StreamEngine interface {
	OnManifestParsed(fn func(hls.ManifestData))
	OnError(fn func(hls.ErrorData))
	LoadSource(url string)
	AttachMedia(media hls.Media)
	Destroy()
}

// EngineProvider reports engine support and creates stream engines.
type EngineProvider interface {
	Supported() bool
	NewEngine(cfg hls.Config) StreamEngine
}

// Resolver turns a source URL into one the surface can load.
type Resolver interface {
	Resolve(ctx context.Context, url string) string
}

// HLSProvider creates hls.Engine instances.
type HLSProvider struct {
	Enabled          bool
	Client           *http.Client
	MaxManifestBytes int64
	Logger           logger.LoggerInterface
}

var _ EngineProvider = HLSProvider{}

func (p HLSProvider) Supported() bool {
	return p.Enabled
}

func (p HLSProvider) NewEngine(cfg hls.Config) StreamEngine {
	if cfg.Client == nil {
		cfg.Client = p.Client
	}
	if cfg.MaxManifestBytes == 0 {
		cfg.MaxManifestBytes = p.MaxManifestBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = p.Logger
	}
	return hls.New(cfg)
}
