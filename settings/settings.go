package settings

import (
	"errors"
	"os"

	"github.com/pelletier/go-toml"
)

// Settings contains everything configurable about the client core.
type Settings struct {
	Connection struct {
		// Protocol is the protocol version spoken on the connection.
		Protocol int32
		// CompressionThreshold mirrors the server's set-compression value,
		// -1 when the server never enables compression.
		CompressionThreshold int32
	}
	Interaction struct {
		// AckTimeoutMS bounds every wait for a server acknowledgment.
		AckTimeoutMS int64
		// SwingCadenceMS is the arm swing interval while breaking a block.
		SwingCadenceMS int64
	}
	Sentry struct {
		DSN string
	}
}

// Default returns the settings used when no config file exists.
func Default() Settings {
	s := Settings{}
	s.Connection.Protocol = 764
	s.Connection.CompressionThreshold = -1
	s.Interaction.AckTimeoutMS = 10000
	s.Interaction.SwingCadenceMS = 350
	return s
}

// Read loads settings from the toml file at path, creating the file with
// defaults when it does not exist yet.
func Read(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		out, err := toml.Marshal(s)
		if err != nil {
			return s, err
		}
		return s, os.WriteFile(path, out, 0644)
	}
	if err != nil {
		return s, err
	}
	return s, toml.Unmarshal(data, &s)
}
