// Package assets ships the default coverage lookup files inside the binary.
package assets

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
)

const (
	DivisionsFile  = "division.json"
	WarehousesFile = "warehouses.json"
)

//go:embed data/division.json data/warehouses.json
var embedded embed.FS

// Coverage returns the division and warehouse files. Files in dataDir win
// over the embedded copies; an empty dataDir means embedded only.
func Coverage(dataDir string) (divisions, warehouses []byte, err error) {
	if divisions, err = read(dataDir, DivisionsFile); err != nil {
		return nil, nil, err
	}
	if warehouses, err = read(dataDir, WarehousesFile); err != nil {
		return nil, nil, err
	}
	return divisions, warehouses, nil
}

func read(dataDir, name string) ([]byte, error) {
	if dataDir != "" {
		b, err := os.ReadFile(filepath.Join(dataDir, name))
		if err == nil {
			return b, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read %s from %s: %w", name, dataDir, err)
		}
	}
	b, err := embedded.ReadFile("data/" + name)
	if err != nil {
		return nil, fmt.Errorf("read embedded %s: %w", name, err)
	}
	return b, nil
}
