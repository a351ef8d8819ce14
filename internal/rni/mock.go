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

	relayerrors "github.com/sirseerhq/rni-relay/internal/errors"
)

// MockClient is a mock implementation of the Client interface for testing.
// It serves Historias in limit/offset slices the way the real endpoint does.
type MockClient struct {
	// Historias is the full collection to page through
	Historias []Story

	// Error to return
	Error error

	// FailOnCall makes the Nth call (1-based) fail with a network error.
	// Zero never fails.
	FailOnCall int

	// WarnOnCall makes the Nth call (1-based) return Warnings with its page,
	// like a response carrying both data and a GraphQL errors array.
	WarnOnCall int
	Warnings   []string

	// Track calls for verification
	CallCount  int
	LastLimit  int
	LastOffset int
	Offsets    []int
}

// NewMockClient creates a new mock client with default test data
func NewMockClient() *MockClient {
	return &MockClient{
		Historias: generateTestHistorias(),
	}
}

// FetchHistorias implements the Client interface
func (m *MockClient) FetchHistorias(ctx context.Context, limit, offset int) (*Page, error) {
	m.CallCount++
	m.LastLimit = limit
	m.LastOffset = offset
	m.Offsets = append(m.Offsets, offset)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if m.FailOnCall > 0 && m.CallCount == m.FailOnCall {
		return nil, fmt.Errorf("historias at offset %d: connection reset by peer: %w", offset, relayerrors.ErrNetworkFailure)
	}

	if m.Error != nil {
		return nil, m.Error
	}

	page := &Page{
		Historias: []Story{},
		Limit:     limit,
		Offset:    offset,
	}
	if offset < len(m.Historias) {
		end := offset + limit
		if end > len(m.Historias) {
			end = len(m.Historias)
		}
		page.Historias = append(page.Historias, m.Historias[offset:end]...)
	}
	if m.WarnOnCall > 0 && m.CallCount == m.WarnOnCall {
		page.Warnings = m.Warnings
	}

	return page, nil
}

// generateTestHistorias creates sample stories for testing
func generateTestHistorias() []Story {
	return []Story{
		{
			ID: StringValue("h1"),
			Infiel: &Person{
				ID:                 StringValue("p1"),
				PrimerNombre:       StringValue("Andrés"),
				InicialesApellidos: StringValue("P. M."),
				Sexo:               StringValue("MASCULINO"),
				Edad:               IntValue(34),
				Provincia:          StringValue("Pichincha"),
				Canton:             StringValue("Quito"),
				Parroquia:          StringValue("Iñaquito"),
			},
			HistoriaFiltrada: StringValue("Me fue infiel con su compañera de trabajo."),
			TiempoMeses:      IntValue(18),
			TipoInfiel:       StringValue("PAREJA"),
			Reputacion:       &Reputation{Tipo: StringValue("NEGATIVA"), Votos: IntValue(12)},
			TotalReacciones:  IntValue(4),
			Reacciones: []Reaction{
				{Tipo: StringValue("LOVE"), Cantidad: IntValue(3)},
				{Tipo: StringValue("ANGRY"), Cantidad: IntValue(1)},
			},
			FechaRegistro: StringValue("1700000000000"),
		},
		{
			ID: StringValue("h2"),
			Infiel: &Person{
				ID:                 StringValue("p2"),
				PrimerNombre:       StringValue("María"),
				InicialesApellidos: StringValue("G. L."),
				Sexo:               StringValue("FEMENINO"),
				Edad:               IntValue(29),
				Provincia:          StringValue("Guayas"),
				Canton:             StringValue("Guayaquil"),
				Parroquia:          StringValue("Tarqui"),
			},
			HistoriaFiltrada: StringValue("Lo descubrí por mensajes."),
			TiempoMeses:      IntValue(6),
			TipoInfiel:       StringValue("ESPOSO"),
			Reputacion:       &Reputation{Tipo: StringValue("NEGATIVA"), Votos: IntValue(5)},
			TotalReacciones:  IntValue(0),
			Reacciones:       []Reaction{},
			FechaRegistro:    StringValue("1700000500000"),
		},
		{
			ID:               StringValue("h3"),
			HistoriaFiltrada: StringValue("Sin datos de la persona."),
			TiempoMeses:      IntValue(2),
			TipoInfiel:       StringValue("NOVIO"),
			TotalReacciones:  IntValue(2),
			Reacciones: []Reaction{
				{Tipo: StringValue("SAD"), Cantidad: IntValue(2)},
			},
			FechaRegistro: StringValue("1700001000000"),
		},
	}
}

// MockClientOption allows configuring the mock client
type MockClientOption func(*MockClient)

// WithHistorias sets the collection to page through
func WithHistorias(historias []Story) MockClientOption {
	return func(m *MockClient) {
		m.Historias = historias
	}
}

// WithError makes the client return a specific error
func WithError(err error) MockClientOption {
	return func(m *MockClient) {
		m.Error = err
	}
}

// WithFailureOnCall makes the nth call fail with a network error
func WithFailureOnCall(n int) MockClientOption {
	return func(m *MockClient) {
		m.FailOnCall = n
	}
}

// WithWarningsOnCall makes the nth call return messages as page warnings
func WithWarningsOnCall(n int, messages ...string) MockClientOption {
	return func(m *MockClient) {
		m.WarnOnCall = n
		m.Warnings = messages
	}
}

// NewMockClientWithOptions creates a mock client with options
func NewMockClientWithOptions(opts ...MockClientOption) *MockClient {
	mock := NewMockClient()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}

// GenerateHistorias builds n minimal stories with ids h1..hn, for paging tests.
func GenerateHistorias(n int) []Story {
	historias := make([]Story, 0, n)
	for i := 1; i <= n; i++ {
		historias = append(historias, Story{
			ID:              StringValue(fmt.Sprintf("h%d", i)),
			Infiel:          &Person{ID: StringValue(fmt.Sprintf("p%d", i)), Edad: IntValue(20 + i%30)},
			TotalReacciones: IntValue(0),
			Reacciones:      []Reaction{},
		})
	}
	return historias
}
