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

import "context"

// Client defines the interface for querying the historias endpoint.
// This interface allows for easy mocking in tests.
type Client interface {
	// FetchHistorias retrieves one page of stories starting at offset.
	// A response without data is an empty page, not an error.
	FetchHistorias(ctx context.Context, limit, offset int) (*Page, error)
}
