// internal/drivers/source.go
package drivers

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed vidora.go cliphive.go gifgrid.go motionreel.go
var parserSources embed.FS

// ParserSource returns the current parser source for a built-in driver.
// The selector-repair assistant embeds it in its prompt so the model sees
// the extraction logic that stopped matching. External drivers have no
// compiled source; their selector rules live in configuration.
func ParserSource(name string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	data, err := parserSources.ReadFile(key + ".go")
	if err != nil {
		return "", fmt.Errorf("no parser source for driver %q: %w", name, err)
	}
	return string(data), nil
}
