// Package save implements JSON serialization of battle saves. A save is a
// replay record: the seed, the mission and every order issued, enough to
// rebuild the battle deterministically.
package save

import (
	"encoding/json"
	"errors"
	"fmt"
)

// FormatVersion is written into every save and checked on load.
const FormatVersion = 1

// ErrVersion is returned when a save was written by an incompatible format.
var ErrVersion = errors.New("unsupported save format")

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Format      int      `json:"format"`
	Version     string   `json:"version"`
	Battle      string   `json:"battle"`
	Mission     string   `json:"mission"`
	Seed        int64    `json:"seed"`
	Turn        int      `json:"turn"`
	RNGPosition int64    `json:"rng_position"`
	CommandLog  []string `json:"command_log"`
}

// Save serializes save data to JSON bytes.
func Save(sd SaveData) ([]byte, error) {
	sd.Format = FormatVersion
	if sd.CommandLog == nil {
		sd.CommandLog = []string{}
	}
	return json.MarshalIndent(sd, "", "  ")
}

// Load deserializes JSON bytes into SaveData.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	if sd.Format != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersion, sd.Format)
	}
	// Ensure the log is never nil after load.
	if sd.CommandLog == nil {
		sd.CommandLog = []string{}
	}
	return &sd, nil
}
