/* config.go
 * Contains the logic for reading and writing the cube catalog document (config/cubes.json). Key order in the
 * document is the catalog order, so the document is read with gjson rather than into a map
 */

package cubes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"deckdump-bot/api/shared"

	"github.com/tidwall/gjson"
)

// cubeDocument is the JSON shape of a single cube entry
type cubeDocument struct {
	Cards          []string              `json:"cards"`
	SubmissionInfo shared.SubmissionInfo `json:"submission_info"`
	CubeCobraID    string                `json:"cube_cobra_id,omitempty"`
}

// Load reads the catalog from a file
// Preconditions: Receives the path to the catalog document
// Postconditions: Returns the catalog, or an error if the file is missing or malformed
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cube catalog: %w", err)
	}
	catalog, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse cube catalog %s: %w", path, err)
	}
	return catalog, nil
}

// Parse builds a catalog from a catalog document
func Parse(data []byte) (*Catalog, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("document is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("document must be an object of cube name to cube")
	}

	var cubes []*Cube
	var parseErr error
	root.ForEach(func(key, value gjson.Result) bool {
		var doc cubeDocument
		if err := json.Unmarshal([]byte(value.Raw), &doc); err != nil {
			parseErr = fmt.Errorf("cube %s: %w", key.String(), err)
			return false
		}
		cubes = append(cubes, NewCube(key.String(), doc.Cards, doc.SubmissionInfo, doc.CubeCobraID))
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return NewCatalog(cubes...)
}

// Marshal encodes the catalog as a document with cubes in catalog order, indented four spaces
func (c *Catalog) Marshal() ([]byte, error) {
	var compact bytes.Buffer
	compact.WriteByte('{')
	for i, cube := range c.Cubes() {
		if i > 0 {
			compact.WriteByte(',')
		}
		key, err := json.Marshal(cube.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(cubeDocument{
			Cards:          cube.Cards,
			SubmissionInfo: cube.SubmissionInfo,
			CubeCobraID:    cube.CubeCobraID,
		})
		if err != nil {
			return nil, fmt.Errorf("encode cube %s: %w", cube.Name, err)
		}
		compact.Write(key)
		compact.WriteByte(':')
		compact.Write(value)
	}
	compact.WriteByte('}')

	var indented bytes.Buffer
	if err := json.Indent(&indented, compact.Bytes(), "", "    "); err != nil {
		return nil, err
	}
	indented.WriteByte('\n')
	return indented.Bytes(), nil
}

// Save rewrites the whole catalog document. The new document is written next to the old one and renamed over it
// so a failed write leaves the old catalog in place
func (c *Catalog) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp catalog: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp catalog: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace cube catalog: %w", err)
	}
	return nil
}
