package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Volatility Surface Configuration

[dashboard]
# Strike slider bounds and default
min_strikes = 10
max_strikes = 50
default_strikes = 20
# Tenor slider bounds and default
min_tenors = 5
max_tenors = 20
default_tenors = 10
# Show the raw data table by default
show_table = false

[server]
# Listen address for 'volsurface serve'
addr = ":8501"
read_timeout = "10s"
write_timeout = "10s"
shutdown_timeout = "5s"

[chart]
# PNG smile chart size in pixels
width = 800
height = 600

[logging]
# debug, info, warn, error
level = "info"
# Also write a rotating log file
file = false
max_size = 20
max_backups = 3
max_age = 14
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
