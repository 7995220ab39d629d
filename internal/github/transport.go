// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/go-github/v75/github"
	"golang.org/x/oauth2"

	"github.com/sirseerhq/changelog-sync/pkg/version"
)

// maxResponseBytes caps a single API response body.
const maxResponseBytes = 10 * 1024 * 1024

// NewHTTPClient returns an HTTP client authenticated with creds:
//   - username and token: HTTP Basic auth
//   - token only: bearer token through an oauth2 static token source
//   - neither: anonymous requests
//
// Every request carries the changelog-sync User-Agent and every response body
// is capped at 10MB.
func NewHTTPClient(ctx context.Context, creds Credentials) *http.Client {
	base := &limitTransport{
		base: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        2,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     30 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			ForceAttemptHTTP2:   true,
		},
	}

	switch {
	case creds.Username != "" && creds.Token != "":
		basic := &github.BasicAuthTransport{
			Username:  creds.Username,
			Password:  creds.Token,
			Transport: base,
		}
		return basic.Client()
	case creds.Token != "":
		ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Transport: base})
		return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.Token}))
	default:
		return &http.Client{Transport: base}
	}
}

// limitTransport adds the User-Agent header and a response size limit.
type limitTransport struct {
	base http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *limitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      maxResponseBytes,
		}
	}

	return resp, nil
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}
