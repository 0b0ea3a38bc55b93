// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/spezifisch/vidplay/logger"
	"github.com/spezifisch/vidplay/proxy"
)

const (
	thumbnailCacheSize = 50
	thumbnailTimeout   = 10 * time.Second
	// thumbnails are small previews, anything bigger is refused
	maxThumbnailBytes = 4 << 20
)

// newThumbnailCache returns a cache of decoded entry thumbnails keyed by URL.
// onFetched runs on the fetch goroutine.
func newThumbnailCache(client *http.Client, onFetched func(url string, img image.Image), logger logger.LoggerInterface) *Cache[image.Image] {
	if client == nil {
		client = &http.Client{Timeout: thumbnailTimeout}
	}
	return NewCache[image.Image](
		nil,
		func(url string) (image.Image, error) {
			return fetchThumbnail(client, url)
		},
		onFetched,
		proxy.NewLRU(thumbnailCacheSize).Touch,
		logger,
	)
}

// fetchThumbnail downloads and decodes a png, jpeg or gif image.
func fetchThumbnail(client *http.Client, url string) (image.Image, error) {
	if url == "" {
		return nil, fmt.Errorf("fetchThumbnail: no URL provided")
	}

	res, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("[fetchThumbnail] failed to make GET request: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("[fetchThumbnail] unexpected status code: %d, status: %s", res.StatusCode, res.Status)
	}

	contentType := res.Header.Get("Content-Type")
	if contentType == "" {
		return nil, fmt.Errorf("[fetchThumbnail] unknown image type (no content-type from server)")
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("[fetchThumbnail] bad content-type %q: %v", contentType, err)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxThumbnailBytes+1))
	if err != nil {
		return nil, fmt.Errorf("[fetchThumbnail] failed to read response body: %v", err)
	}
	if len(body) > maxThumbnailBytes {
		return nil, fmt.Errorf("[fetchThumbnail] image larger than %d bytes", maxThumbnailBytes)
	}

	switch mediaType {
	case "image/png":
		return png.Decode(bytes.NewReader(body))
	case "image/jpeg":
		return jpeg.Decode(bytes.NewReader(body))
	case "image/gif":
		return gif.Decode(bytes.NewReader(body))
	default:
		return nil, fmt.Errorf("[fetchThumbnail] unhandled image type %s", mediaType)
	}
}
