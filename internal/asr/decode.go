package asr

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/AfeiFun/ASR/internal/api"
)

// decodeResult reads the engine JSON. The engine may respond with a single
// object or a one-element array (batch endpoints do the latter).
func decodeResult(r io.Reader, out *api.RawResult) error {
	data, err := io.ReadAll(io.LimitReader(r, 100*1024*1024))
	if err != nil {
		return fmt.Errorf("read engine response: %w", err)
	}
	if len(data) == 0 {
		return fmt.Errorf("empty engine response")
	}
	if data[0] == '[' {
		var list []api.RawResult
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("decode engine response: %w", err)
		}
		if len(list) == 0 {
			return fmt.Errorf("empty engine response")
		}
		*out = list[0]
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode engine response: %w", err)
	}
	return nil
}
