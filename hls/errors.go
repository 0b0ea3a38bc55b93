// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package hls

import "fmt"

type ErrorType string

const (
	NetworkError ErrorType = "networkError"
	MediaError   ErrorType = "mediaError"
	OtherError   ErrorType = "otherError"
)

// ErrorData describes an engine runtime error. Details names the failing
// step, e.g. "manifestLoadError" or "levelParsingError".
type ErrorData struct {
	Type    ErrorType
	Details string
	Fatal   bool
	URL     string
	Err     error
}

func (d ErrorData) Error() string {
	return fmt.Sprintf("%s (%s) %s: %v", d.Type, d.Details, d.URL, d.Err)
}

func (d ErrorData) Unwrap() error {
	return d.Err
}
