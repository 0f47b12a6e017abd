// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package rpc

import (
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gorilla/rpc/v2"
	"github.com/gorilla/rpc/v2/json2"
)

// SesUpCodec is a codec accepting methods written as `module_method`,
// underscore followed by a lower-case letter, instead of the gorilla
// default `Module.Method`
type SesUpCodec struct{}

// NewSesUpCodec creates a new SesUpCodec
func NewSesUpCodec() *SesUpCodec {
	return &SesUpCodec{}
}

// NewRequest returns a new codec request for the http request
func (c *SesUpCodec) NewRequest(r *http.Request) rpc.CodecRequest {
	outerCR := &SesUpCodecRequest{}
	jsonCodec := json2.NewCodec()
	innerCR := jsonCodec.NewRequest(r)
	outerCR.CodecRequest = innerCR.(*json2.CodecRequest)
	return outerCR
}

// SesUpCodecRequest wraps the json2 codec request to rewrite the
// method name
type SesUpCodecRequest struct {
	*json2.CodecRequest
}

// Method returns the decoded method name, rewritten from
// `module_method` to `module.Method`
func (c *SesUpCodecRequest) Method() (string, error) {
	m, err := c.CodecRequest.Method()
	if err != nil {
		return "", err
	}

	parts := strings.SplitN(m, "_", 2)
	if len(parts) != 2 || parts[1] == "" {
		return m, nil
	}

	service, method := parts[0], parts[1]
	first, n := utf8.DecodeRuneInString(method)
	return service + "." + string(unicode.ToUpper(first)) + method[n:], nil
}
