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

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
package errors

import "errors"

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrNetworkFailure indicates a transport problem talking to the GraphQL endpoint.
	// The paginator treats it as end of data.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrUnexpectedStatus indicates the endpoint answered with a non-200 status.
	ErrUnexpectedStatus = errors.New("unexpected status code")

	// ErrGraphQL indicates the response carried a GraphQL errors array.
	ErrGraphQL = errors.New("graphql error")

	// ErrMalformedResponse indicates the response body could not be decoded
	// into the expected historias shape.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrInvalidConfig indicates the merged configuration failed validation.
	// Maps to exit code 2.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrExportFailed indicates a required export (JSON or CSV) could not be written.
	// Maps to exit code 4.
	ErrExportFailed = errors.New("export failed")
)
