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

package testutil

import (
	"fmt"
)

var provincias = []string{"Pichincha", "Guayas", "Azuay", "Manabí", "Loja"}

// HistoriaBuilder provides a fluent API for creating historias as the
// endpoint returns them.
type HistoriaBuilder struct {
	id             string
	infiel         map[string]any
	historia       string
	tiempoMeses    any
	tipoInfiel     string
	reputacion     map[string]any
	reacciones     []map[string]any
	fechaRegistro  any
	omitInfiel     bool
	omitReputacion bool
}

// NewHistoriaBuilder creates a historia with deterministic defaults derived
// from n.
func NewHistoriaBuilder(n int) *HistoriaBuilder {
	sexo := "MASCULINO"
	if n%2 == 0 {
		sexo = "FEMENINO"
	}
	return &HistoriaBuilder{
		id: fmt.Sprintf("h%d", n),
		infiel: map[string]any{
			"_id":                 fmt.Sprintf("p%d", n),
			"primer_nombre":       fmt.Sprintf("Nombre%d", n),
			"iniciales_apellidos": "A. B.",
			"sexo":                sexo,
			"edad":                20 + n%40,
			"provincia":           provincias[n%len(provincias)],
			"canton":              "Centro",
			"parroquia":           "Matriz",
		},
		historia:      fmt.Sprintf("Historia número %d", n),
		tiempoMeses:   n % 24,
		tipoInfiel:    "PAREJA",
		reputacion:    map[string]any{"tipo": "NEGATIVA", "votos": n % 10},
		reacciones:    []map[string]any{},
		fechaRegistro: fmt.Sprintf("%d", 1700000000000+int64(n)*1000),
	}
}

// WithoutInfiel sends infiel as null.
func (b *HistoriaBuilder) WithoutInfiel() *HistoriaBuilder {
	b.omitInfiel = true
	return b
}

// WithoutReputacion sends reputacion as null.
func (b *HistoriaBuilder) WithoutReputacion() *HistoriaBuilder {
	b.omitReputacion = true
	return b
}

// WithPersonField overrides one field of infiel. A nil value is sent as null.
func (b *HistoriaBuilder) WithPersonField(key string, value any) *HistoriaBuilder {
	b.infiel[key] = value
	return b
}

// WithHistoria sets the story text.
func (b *HistoriaBuilder) WithHistoria(text string) *HistoriaBuilder {
	b.historia = text
	return b
}

// WithReaction appends a reaction. A nil tipo or cantidad is sent as null.
func (b *HistoriaBuilder) WithReaction(tipo, cantidad any) *HistoriaBuilder {
	b.reacciones = append(b.reacciones, map[string]any{"tipo": tipo, "cantidad": cantidad})
	return b
}

// WithFechaRegistro sets the registration timestamp, string or number.
func (b *HistoriaBuilder) WithFechaRegistro(v any) *HistoriaBuilder {
	b.fechaRegistro = v
	return b
}

// Build returns the historia as a JSON object.
func (b *HistoriaBuilder) Build() map[string]any {
	total := 0
	for _, r := range b.reacciones {
		if n, ok := r["cantidad"].(int); ok {
			total += n
		}
	}

	h := map[string]any{
		"_id":                      b.id,
		"infiel":                   b.infiel,
		"historia_filtrada":        b.historia,
		"tiempo_meses":             b.tiempoMeses,
		"tipo_infiel":              b.tipoInfiel,
		"reputacion":               b.reputacion,
		"total_reacciones":         total,
		"reacciones_list":          b.reacciones,
		"fecha_registro_timestamp": b.fechaRegistro,
	}
	if b.omitInfiel {
		h["infiel"] = nil
	}
	if b.omitReputacion {
		h["reputacion"] = nil
	}
	return h
}

// GenerateHistorias builds n default historias with ids h1..hn.
func GenerateHistorias(n int) []map[string]any {
	out := make([]map[string]any, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, NewHistoriaBuilder(i).Build())
	}
	return out
}

// GraphQLResponseBuilder builds historias responses.
type GraphQLResponseBuilder struct {
	historias []map[string]any
	errors    []map[string]any
	nullData  bool
}

// NewGraphQLResponseBuilder creates an empty successful response.
func NewGraphQLResponseBuilder() *GraphQLResponseBuilder {
	return &GraphQLResponseBuilder{
		historias: []map[string]any{},
	}
}

// WithHistorias adds historias to the response.
func (b *GraphQLResponseBuilder) WithHistorias(historias ...map[string]any) *GraphQLResponseBuilder {
	b.historias = append(b.historias, historias...)
	return b
}

// WithError adds a GraphQL error to the response.
func (b *GraphQLResponseBuilder) WithError(message string) *GraphQLResponseBuilder {
	b.errors = append(b.errors, map[string]any{
		"message": message,
	})
	return b
}

// WithNullData sends "data": null.
func (b *GraphQLResponseBuilder) WithNullData() *GraphQLResponseBuilder {
	b.nullData = true
	return b
}

// Build creates the response body.
func (b *GraphQLResponseBuilder) Build() map[string]any {
	if len(b.errors) > 0 {
		return map[string]any{
			"data":   nil,
			"errors": b.errors,
		}
	}
	if b.nullData {
		return map[string]any{"data": nil}
	}
	return map[string]any{
		"data": map[string]any{
			"historias": b.historias,
		},
	}
}
