package helper

import "encoding/json"

// ByteToStruct decodes a JSON payload into result. Queue consumers use it
// for event bodies, where a decode failure means the message is malformed
// rather than transient.
func ByteToStruct[I any](payload []byte, result *I) error {
	return json.Unmarshal(payload, result)
}
