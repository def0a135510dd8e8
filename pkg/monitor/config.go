package monitor

import (
	"fmt"
	"os"

	"github.com/roadwatch/roadwatch/pkg/geo"
	"gopkg.in/yaml.v3"
)

type Config struct {
	IntervalMinutes int `yaml:"interval_minutes"`

	Regions []Region `yaml:"regions"`
}

// Region is one watched area and the push target its alerts go to.
type Region struct {
	Name string `yaml:"name"`

	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`

	RadiusMiles float64 `yaml:"radius_miles"`

	PushToken string `yaml:"push_token"`
	UserID    string `yaml:"user_id"`
}

func (r *Region) Center() geo.Coordinates {
	return geo.Coordinates{
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}
}

func LoadConfig(path string) (*Config, error) {
	configYaml, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(configYaml, &config); err != nil {
		return nil, err
	}

	if len(config.Regions) == 0 {
		return nil, fmt.Errorf("no regions defined in %s", path)
	}

	for index := range config.Regions {
		if config.Regions[index].RadiusMiles == 0 {
			config.Regions[index].RadiusMiles = 5
		}
	}

	return &config, nil
}
