package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/riskibarqy/synced-sports/internal/domain/official"
	"github.com/riskibarqy/synced-sports/internal/domain/qualification"
	"github.com/riskibarqy/synced-sports/internal/infrastructure/geo"
)

// LevelEnvPrefix overrides one matrix row from the environment, e.g.
// QUALIFICATION_LEVEL_ROOKIE="U11,U13-2".
const LevelEnvPrefix = "QUALIFICATION_LEVEL_"

// Reference is the static lookup data the assignment engine loads at startup.
type Reference struct {
	Matrix    qualification.Matrix
	Centroids map[string]geo.Centroid
}

// LoadReference builds reference data by layering, low to high precedence:
//  1. the built-in default matrix
//  2. the YAML file at path, if path is set
//  3. QUALIFICATION_LEVEL_<LEVEL> env vars
//
// The file shape is:
//
//	levels:
//	  rookie: [U11, U13-2]
//	postal_centroids:
//	  T2P: {lat: 51.0447, lon: -114.0719}
//
// A level not listed keeps its default row. Unknown levels, empty rows and
// blank division ids fail the load.
func LoadReference(path string) (Reference, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Reference{}, fmt.Errorf("load reference file %s: %w", path, err)
		}
	}

	envProvider := env.ProviderWithValue(LevelEnvPrefix, ".", func(key, value string) (string, interface{}) {
		level := strings.ToLower(strings.TrimPrefix(key, LevelEnvPrefix))
		if level == "" {
			return "", nil
		}
		return "levels." + level, splitCSV(value)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Reference{}, fmt.Errorf("load qualification env: %w", err)
	}

	matrix, err := buildMatrix(k)
	if err != nil {
		return Reference{}, err
	}

	centroids := make(map[string]geo.Centroid)
	if k.Exists("postal_centroids") {
		if err := k.Unmarshal("postal_centroids", &centroids); err != nil {
			return Reference{}, fmt.Errorf("decode postal_centroids: %w", err)
		}
	}

	return Reference{Matrix: matrix, Centroids: centroids}, nil
}

// LoadQualificationMatrix is LoadReference without the centroid table.
func LoadQualificationMatrix(path string) (qualification.Matrix, error) {
	ref, err := LoadReference(path)
	if err != nil {
		return qualification.Matrix{}, err
	}
	return ref.Matrix, nil
}

func buildMatrix(k *koanf.Koanf) (qualification.Matrix, error) {
	defaults := qualification.DefaultMatrix()
	rows := make(map[official.Level][]string, len(official.AllLevels))
	for _, level := range official.AllLevels {
		rows[level] = defaults.AllowedDivisions(level)
	}

	for _, name := range k.MapKeys("levels") {
		level, err := official.ParseLevel(name)
		if err != nil || !level.Valid() {
			return qualification.Matrix{}, fmt.Errorf("%w: %q", qualification.ErrUnknownLevel, name)
		}

		key := "levels." + name
		if raw, ok := k.Get(key).(string); ok {
			rows[level] = splitCSV(raw)
			continue
		}
		rows[level] = k.Strings(key)
	}

	matrix, err := qualification.NewMatrix(rows)
	if err != nil {
		return qualification.Matrix{}, fmt.Errorf("build qualification matrix: %w", err)
	}
	return matrix, nil
}
