package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// MappingsKey is the top level key holding the catalog in mapping files.
const MappingsKey = "food_mappings"

// Load reads a catalog file, choosing the decoder from its extension.
func Load(filename string) (*Catalog, error) {
	format, err := ValidateFile(filename)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer file.Close()

	var c *Catalog
	switch format {
	case FormatJSON:
		c, err = LoadJSON(file)
	case FormatTOML:
		c, err = LoadTOML(file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filename, err)
	}

	log.Debugf("Loaded %d food mappings from %s", c.Len(), filename)
	return c, nil
}

// LoadJSON decodes {"food_mappings": {"Name": {...}, ...}} keeping the
// order names appear in. Other top level keys are skipped. A document
// without mappings yields an empty catalog.
func LoadJSON(r io.Reader) (*Catalog, error) {
	dec := json.NewDecoder(r)
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var entries []Entry
	found := false
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		if key != MappingsKey {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, fmt.Errorf("invalid value for %q: %w", key, err)
			}
			continue
		}
		found = true
		if entries, err = decodeMappings(dec); err != nil {
			return nil, err
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}

	if !found {
		log.Warnf("No %q object found, catalog is empty", MappingsKey)
	}
	return New(entries...), nil
}

func decodeMappings(dec *json.Decoder) ([]Entry, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf("%s: %w", MappingsKey, err)
	}

	var entries []Entry
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("invalid record for %q: %w", name, err)
		}
		fields, ok := raw.(map[string]any)
		if !ok {
			log.Debugf("Record for %q is %T, treating all attributes as absent", name, raw)
		}
		entries = append(entries, Entry{Name: name, Record: recordFromMap(fields)})
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, fmt.Errorf("%s: %w", MappingsKey, err)
	}
	return entries, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("malformed catalog: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("malformed catalog: expected %q, got %v", want, tok)
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("malformed catalog: %w", err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("malformed catalog: expected key, got %v", tok)
	}
	return key, nil
}

// LoadTOML decodes [food_mappings."Name"] tables in document order.
func LoadTOML(r io.Reader) (*Catalog, error) {
	raw := make(map[string]any)
	meta, err := toml.NewDecoder(r).Decode(&raw)
	if err != nil {
		return nil, fmt.Errorf("malformed catalog: %w", err)
	}

	mappings, ok := raw[MappingsKey].(map[string]any)
	if !ok {
		log.Warnf("No %q table found, catalog is empty", MappingsKey)
		return New(), nil
	}

	var entries []Entry
	seen := make(map[string]bool, len(mappings))
	for _, key := range meta.Keys() {
		if len(key) < 2 || key[0] != MappingsKey || seen[key[1]] {
			continue
		}
		name := key[1]
		seen[name] = true
		fields, _ := mappings[name].(map[string]any)
		entries = append(entries, Entry{Name: name, Record: recordFromMap(fields)})
	}
	return New(entries...), nil
}
