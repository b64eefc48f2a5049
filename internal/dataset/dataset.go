// Package dataset reads and writes the JSON snapshot of a relationship graph:
// one file per entity kind under a directory.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vanshika/netintel/internal/domain"
)

const (
	organizationsFile = "organizations.json"
	peopleFile        = "people.json"
	relationshipsFile = "relationships.json"
	opportunitiesFile = "opportunities.json"
	eventsFile        = "events.json"
)

// Dataset is a complete graph snapshot.
type Dataset struct {
	Organizations []domain.Organization `json:"organizations"`
	People        []domain.Person       `json:"people"`
	Relationships []domain.Relationship `json:"relationships"`
	Opportunities []domain.Opportunity  `json:"opportunities"`
	Events        []domain.Event        `json:"events"`
}

// Counts summarises the dataset size per entity kind.
func (d Dataset) Counts() map[string]int {
	return map[string]int{
		"organizations": len(d.Organizations),
		"people":        len(d.People),
		"relationships": len(d.Relationships),
		"opportunities": len(d.Opportunities),
		"events":        len(d.Events),
	}
}

// Write serialises the dataset into dir, creating it if needed.
func Write(d Dataset, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	files := []struct {
		name string
		data any
	}{
		{organizationsFile, d.Organizations},
		{peopleFile, d.People},
		{relationshipsFile, d.Relationships},
		{opportunitiesFile, d.Opportunities},
		{eventsFile, d.Events},
	}
	for _, f := range files {
		if err := writeJSON(filepath.Join(dir, f.name), f.data); err != nil {
			return err
		}
	}
	return nil
}

// Load reads a dataset from dir. People and relationships are required;
// the other files may be absent.
func Load(dir string) (Dataset, error) {
	var d Dataset
	files := []struct {
		name     string
		into     any
		required bool
	}{
		{organizationsFile, &d.Organizations, false},
		{peopleFile, &d.People, true},
		{relationshipsFile, &d.Relationships, true},
		{opportunitiesFile, &d.Opportunities, false},
		{eventsFile, &d.Events, false},
	}
	for _, f := range files {
		err := readJSON(filepath.Join(dir, f.name), f.into)
		if errors.Is(err, fs.ErrNotExist) && !f.required {
			continue
		}
		if err != nil {
			return Dataset{}, err
		}
	}
	return d, nil
}

func writeJSON(path string, data any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encode json for %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, into any) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(into); err != nil {
		return fmt.Errorf("decode json for %s: %w", path, err)
	}
	return nil
}
