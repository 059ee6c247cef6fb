package etl

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BartekS5/rmetl/pkg/models"
)

const rickJSON = `{
	"id": 1,
	"name": "Rick",
	"status": "Alive",
	"species": "Human",
	"type": "",
	"gender": "Male",
	"origin": {"name": "Earth (C-137)", "url": "https://rickandmortyapi.com/api/location/1"},
	"location": {"name": "Citadel of Ricks", "url": "https://rickandmortyapi.com/api/location/3"},
	"image": "https://rickandmortyapi.com/api/character/avatar/1.jpeg",
	"episode": ["https://rickandmortyapi.com/api/episode/1", "https://rickandmortyapi.com/api/episode/2"],
	"url": "https://rickandmortyapi.com/api/character/1",
	"created": "2017-11-04T18:48:46.250Z"
}`

// decodeRecord decodes the way the extractors do, numbers kept as json.Number.
func decodeRecord(t *testing.T, s string) models.Record {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var rec models.Record
	require.NoError(t, dec.Decode(&rec))
	return rec
}

func character(t *testing.T, id int, episodes ...int) models.Record {
	t.Helper()
	eps := make([]string, len(episodes))
	for i, e := range episodes {
		eps[i] = fmt.Sprintf(`"https://rickandmortyapi.com/api/episode/%d"`, e)
	}
	return decodeRecord(t, fmt.Sprintf(`{
		"id": %d, "name": "C%d", "status": "Alive", "species": "Human", "type": "", "gender": "Male",
		"origin": {"name": "Earth", "url": "https://rickandmortyapi.com/api/location/1"},
		"location": {"name": "Earth", "url": "https://rickandmortyapi.com/api/location/20"},
		"episode": [%s]
	}`, id, id, strings.Join(eps, ",")))
}

type fakePage struct {
	records []models.Record
	next    string
	err     error
}

type fakeExtractor struct {
	pages map[string]fakePage
	calls []string
}

func (f *fakeExtractor) Extract(_ context.Context, cursor string) ([]models.Record, string, error) {
	f.calls = append(f.calls, cursor)
	p, ok := f.pages[cursor]
	if !ok {
		return nil, "", fmt.Errorf("no page %q", cursor)
	}
	return p.records, p.next, p.err
}
