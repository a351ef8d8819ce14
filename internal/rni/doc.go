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

// Package rni provides a client for the RNI GraphQL endpoint that serves
// infidelity stories ("historias"). It issues the single historias query with
// limit/offset paging and returns the records exactly as the server shaped
// them, so they can be exported raw or flattened into rows.
//
// The package includes:
//   - A Client interface for fetching one page of historias
//   - A GraphQL implementation using the shurcooL/graphql library
//   - Mock client for testing
//   - Type definitions for stories, people, reputations and reactions
//
// Basic usage:
//
//	client := rni.NewGraphQLClient("https://example.run.app/graphql", 30*time.Second)
//	page, err := client.FetchHistorias(ctx, 100, 0)
//	if err != nil {
//	    // Handle error
//	}
//	for _, story := range page.Historias {
//	    // Process story
//	}
package rni
