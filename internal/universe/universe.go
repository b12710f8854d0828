package universe

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads the ticker universe from a JSON file containing an ordered
// array of symbol strings. A missing or malformed file is a fatal
// configuration error; callers abort the run.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading universe file %s: %w", path, err)
	}

	var tickers []string
	if err := json.Unmarshal(data, &tickers); err != nil {
		return nil, fmt.Errorf("parsing universe file %s: %w", path, err)
	}
	if len(tickers) == 0 {
		return nil, fmt.Errorf("universe file %s contains no tickers", path)
	}
	return tickers, nil
}
