// Copyright 2026
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package healthcheck

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	ErrStatus = errors.New("status code is invalid")
)

// DefaultBaseURL is the healthchecks.io ping endpoint
const DefaultBaseURL = "https://hc-ping.com"

type Pinger struct {
	BaseURL string
	client  *resty.Client
}

func New(baseURL string) *Pinger {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Pinger{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		client:  resty.New().SetTimeout(10 * time.Second).SetRetryCount(2),
	}
}

// Ping signals that the check with the given id completed successfully
func (pinger *Pinger) Ping(ctx context.Context, id string) error {
	return pinger.send(ctx, fmt.Sprintf("%s/%s", pinger.BaseURL, id), "")
}

// Fail signals that the check failed; msg is attached as the ping body
func (pinger *Pinger) Fail(ctx context.Context, id string, msg string) error {
	return pinger.send(ctx, fmt.Sprintf("%s/%s/fail", pinger.BaseURL, id), msg)
}

func (pinger *Pinger) send(ctx context.Context, url, body string) error {
	resp, err := pinger.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "text/plain").
		SetBody(body).
		Post(url)

	if err != nil {
		return err
	}

	if resp.StatusCode() != 200 {
		return fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
	}

	return nil
}
