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

package rni

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shurcooL/graphql"
	"github.com/sirseerhq/rni-relay/internal/apierror"
	relayerrors "github.com/sirseerhq/rni-relay/internal/errors"
)

// DefaultTimeout bounds every request to the endpoint.
const DefaultTimeout = 30 * time.Second

// historiasQuery is the one query this client sends:
//
//	query($limit:Int$offset:Int){historias(limit: $limit, offset: $offset){_id,infiel{...},...}}
type historiasQuery struct {
	Historias []Story `graphql:"historias(limit: $limit, offset: $offset)"`
}

// GraphQLClient implements the Client interface against the RNI GraphQL API.
type GraphQLClient struct {
	client    *graphql.Client
	endpoint  string
	timeout   time.Duration
	inspector apierror.Inspector
}

// NewGraphQLClient creates a client for the given endpoint. Each request is
// bounded by timeout (DefaultTimeout when zero or negative), declares JSON
// in Content-Type and Accept, and has its response body capped.
func NewGraphQLClient(endpoint string, timeout time.Duration) *GraphQLClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: newHeaderTransport(http.DefaultTransport),
	}

	return &GraphQLClient{
		client:    graphql.NewClient(endpoint, httpClient),
		endpoint:  endpoint,
		timeout:   timeout,
		inspector: apierror.NewInspector(),
	}
}

// FetchHistorias fetches limit stories starting at offset. A response whose
// data is missing or null yields an empty page. Stories that arrive together
// with a GraphQL errors array are kept and the messages go to Page.Warnings;
// an errors array without stories is an ErrGraphQL failure.
func (c *GraphQLClient) FetchHistorias(ctx context.Context, limit, offset int) (*Page, error) {
	var query historiasQuery

	// Pointer variables declare the arguments as nullable Int, matching the
	// server's schema for historias(limit, offset).
	gqlLimit := graphql.Int(int32(limit))   // #nosec G115 - batch size is validated by config
	gqlOffset := graphql.Int(int32(offset)) // #nosec G115 - offsets stay far below 2^31
	variables := map[string]interface{}{
		"limit":  &gqlLimit,
		"offset": &gqlOffset,
	}

	err := c.client.Query(ctx, &query, variables)
	if err != nil && (!c.inspector.IsGraphQLError(err) || len(query.Historias) == 0) {
		return nil, c.mapError(err, offset)
	}

	page := &Page{
		Historias: query.Historias,
		Limit:     limit,
		Offset:    offset,
		Warnings:  apierror.GraphQLMessages(err),
	}
	if page.Historias == nil {
		page.Historias = []Story{}
	}
	return page, nil
}

// mapError maps GraphQL client errors to our domain errors
func (c *GraphQLClient) mapError(err error, offset int) error {
	if err == nil {
		return nil
	}

	if c.inspector.IsGraphQLError(err) {
		return fmt.Errorf("historias at offset %d: %s: %w", offset, strings.Join(apierror.GraphQLMessages(err), "; "), relayerrors.ErrGraphQL)
	}

	if c.inspector.IsStatusError(err) {
		return fmt.Errorf("historias at offset %d: %v: %w", offset, err, relayerrors.ErrUnexpectedStatus)
	}

	if c.inspector.IsNetworkError(err) {
		return fmt.Errorf("historias at offset %d: cannot reach %s: %v: %w", offset, c.endpoint, err, relayerrors.ErrNetworkFailure)
	}

	if c.inspector.IsDecodeError(err) {
		return fmt.Errorf("historias at offset %d: %v: %w", offset, err, relayerrors.ErrMalformedResponse)
	}

	return fmt.Errorf("historias at offset %d: %v: %w", offset, err, relayerrors.ErrGraphQL)
}
