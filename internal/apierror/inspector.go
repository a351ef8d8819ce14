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
	"encoding/json"
	"errors"
	"net"
	"net/url"
	"reflect"
	"strings"
)

// Inspector provides methods to classify errors from the GraphQL endpoint.
type Inspector interface {
	// IsStatusError returns true if the endpoint answered with a non-200 status.
	IsStatusError(err error) bool

	// IsNetworkError returns true if the request never got a usable response:
	// DNS, dial, TLS or timeout failures.
	IsNetworkError(err error) bool

	// IsDecodeError returns true if the body could not be decoded into the
	// expected response shape.
	IsDecodeError(err error) bool

	// IsGraphQLError returns true if the server answered 200 with a non-empty
	// "errors" array. Any data in that response has already been decoded.
	IsGraphQLError(err error) bool
}

// TextInspector classifies errors by matching their text. shurcooL/graphql
// flattens most failures into plain fmt errors, so the text is all there is.
type TextInspector struct{}

// NewInspector returns the default inspector: error-chain checks first,
// falling back to text matching.
func NewInspector() Inspector {
	return NewErrorChainInspector(&TextInspector{})
}

// IsStatusError checks for the "non-200 OK status code" failure.
func (i *TextInspector) IsStatusError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "non-200 ok status code") ||
		strings.Contains(errStr, "status code")
}

// IsNetworkError checks if the error is a network connectivity error.
func (i *TextInspector) IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") ||
		strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "dial tcp") ||
		strings.Contains(errStr, "tls handshake") ||
		strings.Contains(errStr, "network is unreachable") ||
		strings.Contains(errStr, "eof")
}

// IsDecodeError checks for JSON decoding failures.
func (i *TextInspector) IsDecodeError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "invalid character") ||
		strings.Contains(errStr, "cannot unmarshal") ||
		strings.Contains(errStr, "doesn't exist in any of") ||
		strings.Contains(errStr, "unexpected end of json") ||
		strings.Contains(errStr, "response size exceeded")
}

// IsGraphQLError always reports false: the errors array holds arbitrary
// server text, so only the error's type can identify it.
func (i *TextInspector) IsGraphQLError(err error) bool {
	return false
}

// ErrorChainInspector wraps a base inspector and adds support for checking errors
// in the error chain using errors.Is and errors.As.
type ErrorChainInspector struct {
	base Inspector
}

// NewErrorChainInspector creates a new ErrorChainInspector that checks both
// the error chain and falls back to string-based inspection.
func NewErrorChainInspector(base Inspector) Inspector {
	return &ErrorChainInspector{base: base}
}

// IsStatusError has no typed form in the chain; it defers to the base inspector.
func (e *ErrorChainInspector) IsStatusError(err error) bool {
	return e.base.IsStatusError(err)
}

// IsNetworkError checks the error chain first, then falls back to base inspector.
func (e *ErrorChainInspector) IsNetworkError(err error) bool {
	if err == nil || e.IsGraphQLError(err) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	// Status errors embed the response body, which may mention anything.
	if e.base.IsStatusError(err) {
		return false
	}
	return e.base.IsNetworkError(err)
}

// IsDecodeError checks the error chain first, then falls back to base inspector.
func (e *ErrorChainInspector) IsDecodeError(err error) bool {
	if e.IsGraphQLError(err) {
		return false
	}
	var decodeErr interface{ IsDecodeError() bool }
	if errors.As(err, &decodeErr) && decodeErr.IsDecodeError() {
		return true
	}
	return e.base.IsDecodeError(err)
}

// IsGraphQLError looks for shurcooL/graphql's errors-array type in the chain.
func (e *ErrorChainInspector) IsGraphQLError(err error) bool {
	return graphQLErrors(err) != nil
}

// graphQLPkg is the import path of the package whose unexported errors type
// carries a response's "errors" array.
const graphQLPkg = "github.com/shurcooL/graphql"

func graphQLErrors(err error) error {
	for ; err != nil; err = errors.Unwrap(err) {
		t := reflect.TypeOf(err)
		if t.Kind() == reflect.Slice && t.PkgPath() == graphQLPkg && t.Name() == "errors" {
			return err
		}
	}
	return nil
}

// GraphQLMessages returns every message of the GraphQL errors array found in
// err's chain, or nil if there is none. err.Error() only reports the first.
func GraphQLMessages(err error) []string {
	gqlErr := graphQLErrors(err)
	if gqlErr == nil {
		return nil
	}
	data, merr := json.Marshal(gqlErr)
	if merr != nil {
		return []string{gqlErr.Error()}
	}
	var entries []struct{ Message string }
	if uerr := json.Unmarshal(data, &entries); uerr != nil || len(entries) == 0 {
		return []string{gqlErr.Error()}
	}
	messages := make([]string, len(entries))
	for i, entry := range entries {
		messages[i] = entry.Message
	}
	return messages
}
