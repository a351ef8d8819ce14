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

package output

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/sirseerhq/rni-relay/internal/rni"
)

// EncodeJSON writes historias to w as a JSON array indented by two spaces.
// An empty collection is written as [].
func EncodeJSON(w io.Writer, historias []rni.Story) error {
	if historias == nil {
		historias = []rni.Story{}
	}
	enc := newEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(historias); err != nil {
		return fmt.Errorf("failed to encode historias: %w", err)
	}
	return nil
}

// WriteJSON writes historias to path, replacing any existing file.
func WriteJSON(path string, historias []rni.Story) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	bw := bufio.NewWriter(file)
	if err := EncodeJSON(bw, historias); err != nil {
		_ = file.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}
