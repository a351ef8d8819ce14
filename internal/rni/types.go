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
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Story represents one record of the historias collection.
// The struct doubles as the GraphQL selection set: field order here is the
// order of the query and of the keys in the raw JSON export.
type Story struct {
	ID               Scalar      `json:"_id" graphql:"_id"`
	Infiel           *Person     `json:"infiel" graphql:"infiel"`
	HistoriaFiltrada Scalar      `json:"historia_filtrada" graphql:"historia_filtrada"`
	TiempoMeses      Scalar      `json:"tiempo_meses" graphql:"tiempo_meses"`
	TipoInfiel       Scalar      `json:"tipo_infiel" graphql:"tipo_infiel"`
	Reputacion       *Reputation `json:"reputacion" graphql:"reputacion"`
	TotalReacciones  Scalar      `json:"total_reacciones" graphql:"total_reacciones"`
	Reacciones       []Reaction  `json:"reacciones_list" graphql:"reacciones_list"`
	FechaRegistro    Scalar      `json:"fecha_registro_timestamp" graphql:"fecha_registro_timestamp"`
}

// Person is the person a story is about. Location is the three-level
// administrative division: provincia, canton, parroquia.
type Person struct {
	ID                 Scalar `json:"_id" graphql:"_id"`
	PrimerNombre       Scalar `json:"primer_nombre" graphql:"primer_nombre"`
	InicialesApellidos Scalar `json:"iniciales_apellidos" graphql:"iniciales_apellidos"`
	Sexo               Scalar `json:"sexo" graphql:"sexo"`
	Edad               Scalar `json:"edad" graphql:"edad"`
	Provincia          Scalar `json:"provincia" graphql:"provincia"`
	Canton             Scalar `json:"canton" graphql:"canton"`
	Parroquia          Scalar `json:"parroquia" graphql:"parroquia"`
}

// Reputation is the community verdict on a story.
type Reputation struct {
	Tipo  Scalar `json:"tipo" graphql:"tipo"`
	Votos Scalar `json:"votos" graphql:"votos"`
}

// Reaction is one reaction type and how many times it was used.
type Reaction struct {
	Tipo     Scalar `json:"tipo" graphql:"tipo"`
	Cantidad Scalar `json:"cantidad" graphql:"cantidad"`
}

// Page is one limit/offset slice of the collection. Warnings holds the
// messages of a GraphQL errors array that arrived alongside the data.
type Page struct {
	Historias []Story
	Limit     int
	Offset    int
	Warnings  []string
}

// Scalar holds one JSON leaf value (string, number, boolean or null) as the
// server sent it. The schema does not pin down the type of several fields
// (fecha_registro_timestamp arrives as a string on some deployments and a
// number on others), so values are kept opaque and re-emitted unchanged.
// The zero Scalar is null.
type Scalar struct {
	raw json.RawMessage
}

// StringValue returns a Scalar holding s.
func StringValue(s string) Scalar {
	return Scalar{raw: encodeString(s)}
}

// IntValue returns a Scalar holding the number i.
func IntValue(i int) Scalar {
	return Scalar{raw: json.RawMessage(strconv.Itoa(i))}
}

// FloatValue returns a Scalar holding the number f.
func FloatValue(f float64) Scalar {
	return Scalar{raw: json.RawMessage(strconv.FormatFloat(f, 'f', -1, 64))}
}

// UnmarshalJSON implements json.Unmarshaler. Implementing it also makes
// shurcooL/graphql treat Scalar as a leaf when building the query.
func (s *Scalar) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		s.raw = nil
		return nil
	}

	switch b[0] {
	case '{', '[':
		return fmt.Errorf("rni: expected a scalar value, got %.20s", b)
	case '"':
		// Re-encode so escaped non-ASCII text is stored literally.
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s.raw = encodeString(str)
		return nil
	}

	if !json.Valid(b) {
		return fmt.Errorf("rni: invalid scalar value %.20s", b)
	}
	s.raw = append(json.RawMessage(nil), b...)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s Scalar) MarshalJSON() ([]byte, error) {
	if s.raw == nil {
		return []byte("null"), nil
	}
	return s.raw, nil
}

// IsNull reports whether the value was null or absent.
func (s Scalar) IsNull() bool {
	return s.raw == nil
}

// Value returns the decoded value: nil, string, bool or json.Number.
func (s Scalar) Value() any {
	if s.raw == nil {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(s.raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	return v
}

// Float64 returns the numeric value, if the Scalar holds a number.
func (s Scalar) Float64() (float64, bool) {
	n, ok := s.Value().(json.Number)
	if !ok {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

// String returns the value as text: strings unquoted, numbers as sent,
// null as the empty string.
func (s Scalar) String() string {
	switch v := s.Value().(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func encodeString(s string) json.RawMessage {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s) // a string always encodes
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n"))
}
