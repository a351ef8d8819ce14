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
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	relayerrors "github.com/sirseerhq/rni-relay/internal/errors"
)

type capturedRequest struct {
	Query     string `json:"query"`
	Variables struct {
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
	} `json:"variables"`
}

func TestNewGraphQLClient(t *testing.T) {
	tests := []struct {
		name        string
		timeout     time.Duration
		wantTimeout time.Duration
	}{
		{name: "explicit timeout", timeout: 5 * time.Second, wantTimeout: 5 * time.Second},
		{name: "zero falls back to default", timeout: 0, wantTimeout: DefaultTimeout},
		{name: "negative falls back to default", timeout: -time.Second, wantTimeout: DefaultTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewGraphQLClient("https://example.invalid/graphql", tt.timeout)
			if client == nil {
				t.Fatal("expected non-nil client")
			}

			if client.timeout != tt.wantTimeout {
				t.Errorf("timeout = %v, want %v", client.timeout, tt.wantTimeout)
			}

			// Verify it implements the Client interface
			var _ Client = client
		})
	}
}

func TestGraphQLClient_FetchHistorias_Request(t *testing.T) {
	var got capturedRequest
	var headers http.Header
	var method string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		headers = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"historias":[]}}`))
	}))
	defer server.Close()

	client := NewGraphQLClient(server.URL, time.Second)
	if _, err := client.FetchHistorias(context.Background(), 25, 50); err != nil {
		t.Fatalf("FetchHistorias failed: %v", err)
	}

	if method != http.MethodPost {
		t.Errorf("method = %s, want POST", method)
	}
	if ct := headers.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if accept := headers.Get("Accept"); accept != "application/json" {
		t.Errorf("Accept = %q, want application/json", accept)
	}
	if ua := headers.Get("User-Agent"); !strings.HasPrefix(ua, "rni-relay/") {
		t.Errorf("User-Agent = %q, want rni-relay/ prefix", ua)
	}

	if got.Variables.Limit != 25 || got.Variables.Offset != 50 {
		t.Errorf("variables = %+v, want limit 25 offset 50", got.Variables)
	}

	for _, fragment := range []string{
		"$limit:Int",
		"$offset:Int",
		"historias(limit: $limit, offset: $offset)",
		"infiel{_id,primer_nombre,iniciales_apellidos,sexo,edad,provincia,canton,parroquia}",
		"reputacion{tipo,votos}",
		"reacciones_list{tipo,cantidad}",
		"fecha_registro_timestamp",
	} {
		if !strings.Contains(got.Query, fragment) {
			t.Errorf("query %q missing %q", got.Query, fragment)
		}
	}
	if strings.Contains(got.Query, "Int!") {
		t.Errorf("query declares non-null arguments: %q", got.Query)
	}
}

func TestGraphQLClient_FetchHistorias(t *testing.T) {
	tests := []struct {
		name         string
		response     string
		responseCode int
		wantCount    int
		wantErr      error
		check        func(t *testing.T, page *Page)
	}{
		{
			name: "full story",
			response: `{"data":{"historias":[{
				"_id":"h1",
				"infiel":{"_id":"p1","primer_nombre":"Andrés","iniciales_apellidos":"P. M.","sexo":"MASCULINO","edad":34,"provincia":"Pichincha","canton":"Quito","parroquia":"Iñaquito"},
				"historia_filtrada":"texto",
				"tiempo_meses":18,
				"tipo_infiel":"PAREJA",
				"reputacion":{"tipo":"NEGATIVA","votos":12},
				"total_reacciones":4,
				"reacciones_list":[{"tipo":"LOVE","cantidad":3},{"tipo":"ANGRY","cantidad":1}],
				"fecha_registro_timestamp":"1700000000000"
			}]}}`,
			responseCode: http.StatusOK,
			wantCount:    1,
			check: func(t *testing.T, page *Page) {
				s := page.Historias[0]
				if s.Infiel == nil {
					t.Fatal("Infiel is nil")
				}
				if got := s.Infiel.Parroquia.String(); got != "Iñaquito" {
					t.Errorf("Parroquia = %q, want Iñaquito", got)
				}
				if age, ok := s.Infiel.Edad.Float64(); !ok || age != 34 {
					t.Errorf("Edad = %v, want 34", s.Infiel.Edad.String())
				}
				if len(s.Reacciones) != 2 || s.Reacciones[0].Tipo.String() != "LOVE" {
					t.Errorf("Reacciones = %+v", s.Reacciones)
				}
				if s.Reputacion == nil || s.Reputacion.Votos.String() != "12" {
					t.Errorf("Reputacion = %+v", s.Reputacion)
				}
			},
		},
		{
			name:         "null nested objects",
			response:     `{"data":{"historias":[{"_id":"h2","infiel":null,"reputacion":null,"reacciones_list":[],"fecha_registro_timestamp":1700000000000}]}}`,
			responseCode: http.StatusOK,
			wantCount:    1,
			check: func(t *testing.T, page *Page) {
				s := page.Historias[0]
				if s.Infiel != nil || s.Reputacion != nil {
					t.Errorf("expected nil nested objects, got %+v %+v", s.Infiel, s.Reputacion)
				}
				if s.FechaRegistro.String() != "1700000000000" {
					t.Errorf("FechaRegistro = %q", s.FechaRegistro.String())
				}
			},
		},
		{
			name:         "empty list",
			response:     `{"data":{"historias":[]}}`,
			responseCode: http.StatusOK,
			wantCount:    0,
		},
		{
			name:         "null data",
			response:     `{"data":null}`,
			responseCode: http.StatusOK,
			wantCount:    0,
		},
		{
			name:         "missing data",
			response:     `{}`,
			responseCode: http.StatusOK,
			wantCount:    0,
		},
		{
			name:         "server error",
			response:     `{"message":"internal"}`,
			responseCode: http.StatusInternalServerError,
			wantErr:      relayerrors.ErrUnexpectedStatus,
		},
		{
			name:         "graphql errors",
			response:     `{"errors":[{"message":"Cannot query field \"historias\""}],"data":null}`,
			responseCode: http.StatusOK,
			wantErr:      relayerrors.ErrGraphQL,
		},
		{
			name: "data alongside graphql errors",
			response: `{"data":{"historias":[
				{"_id":"a","infiel":null,"reputacion":null,"reacciones_list":[]},
				{"_id":"b","infiel":null,"reputacion":null,"reacciones_list":[]}
			]},"errors":[
				{"message":"Cannot return null for non-nullable field Historia.tipo_infiel","path":["historias",0,"tipo_infiel"]},
				{"message":"Cannot return null for non-nullable field Historia.tiempo_meses"}
			]}`,
			responseCode: http.StatusOK,
			wantCount:    2,
			check: func(t *testing.T, page *Page) {
				want := []string{
					"Cannot return null for non-nullable field Historia.tipo_infiel",
					"Cannot return null for non-nullable field Historia.tiempo_meses",
				}
				if diff := cmp.Diff(want, page.Warnings); diff != "" {
					t.Errorf("Warnings mismatch (-want +got):\n%s", diff)
				}
				if page.Historias[1].ID.String() != "b" {
					t.Errorf("second story _id = %q, want b", page.Historias[1].ID.String())
				}
			},
		},
		{
			name:         "graphql errors with empty list",
			response:     `{"data":{"historias":[]},"errors":[{"message":"offset out of range"}]}`,
			responseCode: http.StatusOK,
			wantErr:      relayerrors.ErrGraphQL,
		},
		{
			name:         "graphql error text that looks like a network failure",
			response:     `{"data":null,"errors":[{"message":"query timeout: unexpected EOF from upstream"}]}`,
			responseCode: http.StatusOK,
			wantErr:      relayerrors.ErrGraphQL,
		},
		{
			name:         "html instead of json",
			response:     `<html>maintenance</html>`,
			responseCode: http.StatusOK,
			wantErr:      relayerrors.ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.responseCode)
				_, _ = w.Write([]byte(tt.response))
			}))
			defer server.Close()

			client := NewGraphQLClient(server.URL, time.Second)
			page, err := client.FetchHistorias(context.Background(), 100, 0)

			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("expected error %v, got nil", tt.wantErr)
				}
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if page.Historias == nil {
				t.Error("Historias should never be nil")
			}
			if len(page.Historias) != tt.wantCount {
				t.Fatalf("got %d historias, want %d", len(page.Historias), tt.wantCount)
			}
			if tt.check == nil && page.Warnings != nil {
				t.Errorf("Warnings = %v, want none", page.Warnings)
			}
			if page.Limit != 100 || page.Offset != 0 {
				t.Errorf("page bounds = %d/%d, want 100/0", page.Limit, page.Offset)
			}
			if tt.check != nil {
				tt.check(t, page)
			}
		})
	}
}

func TestGraphQLClient_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewGraphQLClient(url, time.Second)
	_, err := client.FetchHistorias(context.Background(), 10, 0)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, relayerrors.ErrNetworkFailure) {
		t.Errorf("error = %v, want ErrNetworkFailure", err)
	}
}

func TestGraphQLClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"data":{"historias":[]}}`))
	}))
	defer server.Close()

	client := NewGraphQLClient(server.URL, 20*time.Millisecond)
	_, err := client.FetchHistorias(context.Background(), 10, 0)
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !errors.Is(err, relayerrors.ErrNetworkFailure) {
		t.Errorf("error = %v, want ErrNetworkFailure", err)
	}
}

func TestLimitedReader(t *testing.T) {
	body := strings.Repeat("x", 64)
	lr := &limitedReader{
		ReadCloser: nopCloser{strings.NewReader(body)},
		limit:      16,
	}

	buf := make([]byte, 64)
	n, err := lr.Read(buf)
	if err != nil {
		t.Fatalf("first read failed: %v", err)
	}
	if n != 16 {
		t.Errorf("first read = %d bytes, want 16", n)
	}

	if _, err := lr.Read(buf); err == nil {
		t.Error("expected size limit error on second read")
	}
}

type nopCloser struct {
	*strings.Reader
}

func (nopCloser) Close() error { return nil }
