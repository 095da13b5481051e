// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rowsource

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Idriss-Abidi/ExpertAI/pkg/types"
)

// FileSource reads rows from a JSON array of objects or a CSV file with a
// header line, selected by file extension.
type FileSource struct {
	Path string
}

// Rows loads the whole file. Column order follows the CSV header or, for
// JSON, each object's own key order.
func (s *FileSource) Rows(ctx context.Context) ([]types.RawRecord, error) {
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".json":
		return s.jsonRows()
	case ".csv":
		return s.csvRows()
	default:
		return nil, fmt.Errorf("unsupported rows file %s: want .json or .csv", s.Path)
	}
}

func (s *FileSource) csvRows() ([]types.RawRecord, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("opening rows file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV %s: %w", s.Path, err)
	}
	if len(all) == 0 {
		return nil, nil
	}

	header := all[0]
	records := make([]types.RawRecord, 0, len(all)-1)
	for _, line := range all[1:] {
		values := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(line) {
				values[col] = line[i]
			}
		}
		records = append(records, types.NewRawRecord(header, values))
	}
	return records, nil
}

func (s *FileSource) jsonRows() ([]types.RawRecord, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("opening rows file: %w", err)
	}
	defer f.Close()

	// Walk the token stream by hand so each object's key order is kept;
	// decoding into a map would scramble the columns.
	dec := json.NewDecoder(f)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading JSON %s: %w", s.Path, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("reading JSON %s: expected a top-level array", s.Path)
	}

	var records []types.RawRecord
	for dec.More() {
		record, err := decodeOrderedObject(dec)
		if err != nil {
			return nil, fmt.Errorf("reading JSON %s: %w", s.Path, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// decodeOrderedObject consumes one {..} object from the decoder, keeping
// key order and stringifying scalar values. Null becomes an empty cell.
func decodeOrderedObject(dec *json.Decoder) (types.RawRecord, error) {
	tok, err := dec.Token()
	if err != nil {
		return types.RawRecord{}, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return types.RawRecord{}, fmt.Errorf("expected an object, got %v", tok)
	}

	var columns []string
	values := make(map[string]string)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return types.RawRecord{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return types.RawRecord{}, fmt.Errorf("expected an object key, got %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return types.RawRecord{}, err
		}
		columns = append(columns, key)
		values[key] = scalarString(raw)
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return types.RawRecord{}, err
	}
	return types.RawRecord{Columns: columns, Values: values}, nil
}

// scalarString renders a raw JSON value as a cell string.
func scalarString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	text := strings.TrimSpace(string(raw))
	if text == "null" {
		return ""
	}
	return text
}
