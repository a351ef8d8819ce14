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

package apierror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shurcooL/graphql"
)

// queryError returns the error shurcooL/graphql produces for body.
func queryError(t *testing.T, body string) error {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	var q struct {
		Historias []struct {
			ID graphql.String `graphql:"_id"`
		} `graphql:"historias"`
	}
	err := graphql.NewClient(server.URL, server.Client()).Query(context.Background(), &q, nil)
	if err == nil {
		t.Fatalf("expected an error for %s", body)
	}
	return err
}

func TestInspector_IsStatusError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "non-200 from graphql client",
			err:  errors.New(`non-200 OK status code: 503 Service Unavailable body: "upstream down"`),
			want: true,
		},
		{
			name: "wrapped status error",
			err:  fmt.Errorf("query historias: %w", errors.New("non-200 OK status code: 404 Not Found body: \"\"")),
			want: true,
		},
		{
			name: "network error",
			err:  errors.New("dial tcp 127.0.0.1:1: connect: connection refused"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsStatusError(tt.err); got != tt.want {
				t.Errorf("IsStatusError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInspector_IsNetworkError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "connection refused",
			err:  errors.New("dial tcp 127.0.0.1:1: connect: connection refused"),
			want: true,
		},
		{
			name: "url error in chain",
			err:  fmt.Errorf("query: %w", &url.Error{Op: "Post", URL: "http://x", Err: errors.New("boom")}),
			want: true,
		},
		{
			name: "deadline exceeded",
			err:  fmt.Errorf("query: %w", context.DeadlineExceeded),
			want: true,
		},
		{
			name: "client timeout text",
			err:  errors.New("Client.Timeout exceeded while awaiting headers"),
			want: true,
		},
		{
			name: "status error mentioning timeout in body",
			err:  errors.New(`non-200 OK status code: 504 Gateway Timeout body: "timeout"`),
			want: false,
		},
		{
			name: "graphql error",
			err:  errors.New("Cannot query field \"historias\" on type \"Query\""),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsNetworkError(tt.err); got != tt.want {
				t.Errorf("IsNetworkError() = %v, want %v", got, tt.want)
			}
		})
	}
}

type decodeFailure struct{}

func (decodeFailure) Error() string       { return "bad shape" }
func (decodeFailure) IsDecodeError() bool { return true }

func TestInspector_IsDecodeError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "invalid character",
			err:  errors.New("invalid character '<' looking for beginning of value"),
			want: true,
		},
		{
			name: "type mismatch",
			err:  errors.New("json: cannot unmarshal string into Go value of type graphql.Int"),
			want: true,
		},
		{
			name: "typed decode error in chain",
			err:  fmt.Errorf("decode: %w", decodeFailure{}),
			want: true,
		},
		{
			name: "size limit",
			err:  errors.New("response size exceeded limit of 10485760 bytes"),
			want: true,
		},
		{
			name: "network error",
			err:  errors.New("no such host"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsDecodeError(tt.err); got != tt.want {
				t.Errorf("IsDecodeError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInspector_IsGraphQLError(t *testing.T) {
	inspector := NewInspector()

	timeoutErr := queryError(t, `{"data":null,"errors":[{"message":"query timeout: unexpected EOF"}]}`)

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"errors array", timeoutErr, true},
		{"wrapped errors array", fmt.Errorf("historias: %w", timeoutErr), true},
		{"plain error with the same text", errors.New("query timeout: unexpected EOF"), false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsGraphQLError(tt.err); got != tt.want {
				t.Errorf("IsGraphQLError() = %v, want %v", got, tt.want)
			}
		})
	}

	if inspector.IsNetworkError(timeoutErr) {
		t.Error("IsNetworkError() = true for a server-reported timeout message")
	}
	if inspector.IsDecodeError(timeoutErr) {
		t.Error("IsDecodeError() = true for a GraphQL errors array")
	}
}

func TestGraphQLMessages(t *testing.T) {
	err := queryError(t, `{"data":{"historias":[{"_id":"a"}]},"errors":[{"message":"first"},{"message":"second","locations":[{"line":1,"column":2}]}]}`)

	if diff := cmp.Diff([]string{"first", "second"}, GraphQLMessages(err)); diff != "" {
		t.Errorf("GraphQLMessages() mismatch (-want +got):\n%s", diff)
	}
	if got := GraphQLMessages(errors.New("first")); got != nil {
		t.Errorf("GraphQLMessages(plain error) = %v, want nil", got)
	}
}
