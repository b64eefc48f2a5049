package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/netintel/internal/domain"
)

func TestWriteThenLoad(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	in := Dataset{
		Organizations: []domain.Organization{{ID: "ORG-1", Name: "Acme", IndustrySectors: []string{"fintech"}}},
		People:        []domain.Person{{ID: "P-1", OrganizationID: "ORG-1", Seniority: domain.SeniorityCLevel}},
		Relationships: []domain.Relationship{{PersonA: "P-1", PersonB: "P-2", Strength: domain.StrengthWeak, Types: []string{"alumni"}, Active: true}},
		Events:        []domain.Event{{ID: "EV-1", Name: "Summit", StartsAt: start}},
	}

	require.NoError(t, Write(in, dir))
	for _, name := range []string{organizationsFile, peopleFile, relationshipsFile, opportunitiesFile, eventsFile} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	out, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, in.People, out.People)
	assert.Equal(t, in.Relationships, out.Relationships)
	assert.True(t, out.Events[0].StartsAt.Equal(start))
	assert.Equal(t, 1, out.Counts()["organizations"])
}

func TestLoadOptionalFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, peopleFile), []byte(`[{"id":"P-1"}]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, relationshipsFile), []byte(`[]`), 0o644))

	out, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, out.People, 1)
	assert.Empty(t, out.Opportunities)
}

func TestLoadRequiresPeople(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, peopleFile), []byte(`{not json`), 0o644))

	_, err := Load(dir)
	require.ErrorContains(t, err, "decode json")
}
