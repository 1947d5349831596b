package cache

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
)

// encode returns JSON document, or gob payload flagged as blob when value is not JSON representable
func encode(value interface{}) ([]byte, bool, error) {
	data, jsonErr := json.Marshal(value)
	if jsonErr == nil {
		return data, false, nil
	}
	buf := &bytes.Buffer{}
	if err := gob.NewEncoder(buf).Encode(value); err != nil {
		return nil, false, fmt.Errorf("failed to encode value: %w", jsonErr)
	}
	return buf.Bytes(), true, nil
}

func decode(data []byte, blob bool, dest interface{}) error {
	if blob {
		return gob.NewDecoder(bytes.NewReader(data)).Decode(dest)
	}
	return json.Unmarshal(data, dest)
}
