package util

import (
	"os"
	"strings"
)

// GetEnvironmentVariables snapshots the process environment as a map.
func GetEnvironmentVariables() map[string]string {
	variables := map[string]string{}

	for _, entry := range os.Environ() {
		pair := strings.SplitN(entry, "=", 2)

		variables[pair[0]] = pair[1]
	}

	return variables
}
