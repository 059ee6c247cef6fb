package cli

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	rickPage = `{"info":{"count":2,"pages":2,"next":"%s","prev":null},"results":[{
		"id":1,"name":"Rick","status":"Alive","species":"Human","type":"","gender":"Male",
		"origin":{"name":"Earth (C-137)","url":"https://rickandmortyapi.com/api/location/1"},
		"location":{"name":"Citadel of Ricks","url":"https://rickandmortyapi.com/api/location/3"},
		"image":"https://rickandmortyapi.com/api/character/avatar/1.jpeg",
		"episode":["https://rickandmortyapi.com/api/episode/1","https://rickandmortyapi.com/api/episode/2"],
		"url":"https://rickandmortyapi.com/api/character/1","created":"2017-11-04T18:48:46.250Z"}]}`

	mortyPage = `{"info":{"count":2,"pages":2,"next":null,"prev":null},"results":[{
		"id":2,"name":"Morty Smith","status":"Alive","species":"Human","type":"","gender":"Male",
		"origin":{"name":"unknown","url":""},
		"location":{"name":"Citadel of Ricks","url":"https://rickandmortyapi.com/api/location/3"},
		"episode":["https://rickandmortyapi.com/api/episode/1"]}]}`

	locationsJSON = `[{"id":1,"name":"Earth","type":"Planet","dimension":"C-137"}]`
	episodesJSON  = `[{"id":1,"name":"Pilot","air_date":"December 2, 2013","code":"S01E01"}]`
)

type fakeAPI struct {
	mu       sync.Mutex
	hits     map[string]int
	failPage string
}

func newFakeAPI(t *testing.T, failPage string) (*httptest.Server, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{hits: make(map[string]int), failPage: failPage}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		api.mu.Lock()
		api.hits[page]++
		api.mu.Unlock()

		if page == api.failPage {
			http.Error(w, "upstream down", http.StatusBadGateway)
			return
		}
		switch page {
		case "1":
			fmt.Fprintf(w, rickPage, "http://"+r.Host+"/api/character/?page=2")
		case "2":
			io.WriteString(w, mortyPage)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, api
}

func writeSnapshots(t *testing.T, dir string) (string, string) {
	t.Helper()
	locations := filepath.Join(dir, "locations.json")
	episodes := filepath.Join(dir, "episodes.json")
	require.NoError(t, os.WriteFile(locations, []byte(locationsJSON), 0o644))
	require.NoError(t, os.WriteFile(episodes, []byte(episodesJSON), 0o644))
	return locations, episodes
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.Execute()
}

func readTable(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

func TestExtractAll(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		t.Run(fmt.Sprintf("parallel=%v", parallel), func(t *testing.T) {
			srv, api := newFakeAPI(t, "")
			in := t.TempDir()
			out := filepath.Join(t.TempDir(), "tables")
			locations, episodes := writeSnapshots(t, in)

			args := []string{"extract", "all",
				"--api-url", srv.URL + "/api/character/",
				"--out-dir", out,
				"--locations-json", locations,
				"--episodes-json", episodes,
			}
			if parallel {
				args = append(args, "--parallel")
			}
			require.NoError(t, execute(t, args...))

			assert.Equal(t,
				"id\tname\tstatus\tspecies\ttype\tgender\torigin_id\tlocation_id\n"+
					"1\tRick\tAlive\tHuman\t\tMale\t1\t3\n"+
					"2\tMorty Smith\tAlive\tHuman\t\tMale\t\t3\n",
				readTable(t, out, "characters.tsv"))
			assert.Equal(t, "character_id\tepisode_id\n1\t1\n1\t2\n2\t1\n",
				readTable(t, out, "character_episode_join.tsv"))
			assert.Equal(t, "id\tname\ttype\tdimension\n1\tEarth\tPlanet\tC-137\n",
				readTable(t, out, "locations.tsv"))
			assert.Equal(t, "id\tname\tair_date\tcode\n1\tPilot\tDecember 2, 2013\tS01E01\n",
				readTable(t, out, "episodes.tsv"))

			assert.Equal(t, map[string]int{"1": 1, "2": 1}, api.hits)
		})
	}
}

func TestExtractSnapshotsOnly(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	locations, episodes := writeSnapshots(t, in)

	require.NoError(t, execute(t, "extract", "snapshots",
		"--out-dir", out, "--locations-json", locations, "--episodes-json", episodes))

	assert.FileExists(t, filepath.Join(out, "locations.tsv"))
	assert.FileExists(t, filepath.Join(out, "episodes.tsv"))
	assert.NoFileExists(t, filepath.Join(out, "characters.tsv"))
}

func TestExtractCharacters_FailureLeavesValidPrefix(t *testing.T) {
	srv, api := newFakeAPI(t, "2")
	out := t.TempDir()

	err := execute(t, "extract", "characters", "--api-url", srv.URL+"/api/character/", "--out-dir", out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")

	chars := readTable(t, out, "characters.tsv")
	assert.Equal(t,
		"id\tname\tstatus\tspecies\ttype\tgender\torigin_id\tlocation_id\n1\tRick\tAlive\tHuman\t\tMale\t1\t3\n",
		chars)
	assert.Equal(t, "character_id\tepisode_id\n1\t1\n1\t2\n", readTable(t, out, "character_episode_join.tsv"))
	assert.Equal(t, 1, api.hits["2"])
}

func TestExtractCharacters_DryRunWritesNothing(t *testing.T) {
	srv, api := newFakeAPI(t, "")
	out := filepath.Join(t.TempDir(), "never")

	require.NoError(t, execute(t, "extract", "characters", "--dry-run",
		"--api-url", srv.URL+"/api/character/", "--out-dir", out))

	assert.NoDirExists(t, out)
	assert.Equal(t, 1, api.hits["1"])
	assert.Equal(t, 1, api.hits["2"])
}

func TestExtractSnapshots_MissingFile(t *testing.T) {
	out := t.TempDir()
	err := execute(t, "extract", "snapshots", "--out-dir", out,
		"--locations-json", filepath.Join(out, "missing.json"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "missing.json"))
}
