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

// Package flatten turns nested historias into single-level rows for tabular
// export. Rows keep their keys in insertion order; reaction counts become
// one reaccion_<TIPO> column per reaction type present in that story, so
// different rows may carry different column sets. Columns merges them.
package flatten

import (
	"encoding/json"

	"github.com/sirseerhq/rni-relay/internal/rni"
)

// ReactionPrefix prefixes every dynamic reaction column.
const ReactionPrefix = "reaccion_"

// UnknownReaction names the column of a reaction that arrived without a type.
const UnknownReaction = "UNKNOWN"

// Fixed column names, in output order.
const (
	ColHistoriaID         = "historia_id"
	ColInfielID           = "infiel_id"
	ColPrimerNombre       = "primer_nombre"
	ColInicialesApellidos = "iniciales_apellidos"
	ColSexo               = "sexo"
	ColEdad               = "edad"
	ColProvincia          = "provincia"
	ColCanton             = "canton"
	ColParroquia          = "parroquia"
	ColHistoriaFiltrada   = "historia_filtrada"
	ColTiempoMeses        = "tiempo_meses"
	ColTipoInfiel         = "tipo_infiel"
	ColReputacionTipo     = "reputacion_tipo"
	ColReputacionVotos    = "reputacion_votos"
	ColTotalReacciones    = "total_reacciones"
	ColFechaRegistro      = "fecha_registro_timestamp"
)

// FixedColumns lists the columns every row has, in order.
var FixedColumns = []string{
	ColHistoriaID, ColInfielID, ColPrimerNombre, ColInicialesApellidos,
	ColSexo, ColEdad, ColProvincia, ColCanton, ColParroquia,
	ColHistoriaFiltrada, ColTiempoMeses, ColTipoInfiel,
	ColReputacionTipo, ColReputacionVotos, ColTotalReacciones, ColFechaRegistro,
}

// Row is one flattened story. Values are nil (null), string, bool or
// json.Number.
type Row struct {
	keys   []string
	values map[string]any
}

// NewRow returns an empty row.
func NewRow() Row {
	return Row{values: make(map[string]any)}
}

// Set stores v under key. A key set twice keeps its first position.
func (r *Row) Set(key string, v any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// Get returns the value under key and whether the row has that column.
func (r Row) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the row's columns in insertion order.
func (r Row) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of columns in the row.
func (r Row) Len() int {
	return len(r.keys)
}

// Flatten maps each story to a Row, preserving order.
func Flatten(historias []rni.Story) []Row {
	rows := make([]Row, 0, len(historias))
	for _, h := range historias {
		rows = append(rows, FlattenStory(h))
	}
	return rows
}

// FlattenStory builds the row for one story. A missing person or reputation
// only nulls the columns derived from it.
func FlattenStory(h rni.Story) Row {
	infiel := h.Infiel
	if infiel == nil {
		infiel = &rni.Person{}
	}
	reputacion := h.Reputacion
	if reputacion == nil {
		reputacion = &rni.Reputation{}
	}

	row := NewRow()
	row.Set(ColHistoriaID, h.ID.Value())
	row.Set(ColInfielID, infiel.ID.Value())
	row.Set(ColPrimerNombre, infiel.PrimerNombre.Value())
	row.Set(ColInicialesApellidos, infiel.InicialesApellidos.Value())
	row.Set(ColSexo, infiel.Sexo.Value())
	row.Set(ColEdad, infiel.Edad.Value())
	row.Set(ColProvincia, infiel.Provincia.Value())
	row.Set(ColCanton, infiel.Canton.Value())
	row.Set(ColParroquia, infiel.Parroquia.Value())
	row.Set(ColHistoriaFiltrada, h.HistoriaFiltrada.Value())
	row.Set(ColTiempoMeses, h.TiempoMeses.Value())
	row.Set(ColTipoInfiel, h.TipoInfiel.Value())
	row.Set(ColReputacionTipo, reputacion.Tipo.Value())
	row.Set(ColReputacionVotos, reputacion.Votos.Value())
	row.Set(ColTotalReacciones, h.TotalReacciones.Value())
	row.Set(ColFechaRegistro, h.FechaRegistro.Value())

	for _, r := range h.Reacciones {
		row.Set(ReactionColumn(r.Tipo), reactionCount(r.Cantidad))
	}

	return row
}

// ReactionColumn returns the column name for a reaction type.
func ReactionColumn(tipo rni.Scalar) string {
	if tipo.IsNull() {
		return ReactionPrefix + UnknownReaction
	}
	return ReactionPrefix + tipo.String()
}

func reactionCount(cantidad rni.Scalar) any {
	if cantidad.IsNull() {
		return json.Number("0")
	}
	return cantidad.Value()
}

// Columns returns the union of the rows' keys in order of first appearance.
func Columns(rows []Row) []string {
	seen := make(map[string]bool)
	var columns []string
	for _, row := range rows {
		for _, k := range row.keys {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}
	return columns
}
