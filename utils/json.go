package utils

import "encoding/json"

// Marshal generic struct to JSON
func MarshalToJSON[T any](input T) (string, error) {
	jsonData, err := json.Marshal(input)
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

// Unmarshal JSON to generic struct
func UnmarshalFromJSON[T any](data []byte, output *T) error {
	return json.Unmarshal(data, output)
}

// StructToMap re-marshals a struct into a generic map. Used to attach the
// `type` discriminator to result rows without hand-written copies.
func StructToMap(input any) (map[string]any, error) {
	jsonData, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(jsonData, &out); err != nil {
		return nil, err
	}
	return out, nil
}
