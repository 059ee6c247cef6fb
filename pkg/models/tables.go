package models

// ColumnKind tells the normalizer how to render a column.
type ColumnKind int

const (
	// Scalar columns are copied from the source field as-is.
	Scalar ColumnKind = iota
	// Reference columns hold a nested object whose "url" is reduced to a bare id.
	Reference
)

// Column maps one output column to the source field that feeds it.
type Column struct {
	Name  string
	Field string
	Kind  ColumnKind
}

// TableSchema represents one output table: its file name and ordered columns.
type TableSchema struct {
	Name    string
	File    string
	Columns []Column
}

// Header returns the column names in declared order.
func (t TableSchema) Header() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// JoinSchema describes a many-to-many table expanded from a collection field.
type JoinSchema struct {
	Name string
	File string
	// Field is the collection field holding reference URLs.
	Field string
	// OwnerColumn and MemberColumn are the two header names.
	OwnerColumn  string
	MemberColumn string
}

func (j JoinSchema) Header() []string {
	return []string{j.OwnerColumn, j.MemberColumn}
}

func scalar(name string) Column {
	return Column{Name: name, Field: name, Kind: Scalar}
}

var (
	CharacterTable = TableSchema{
		Name: "character",
		File: "characters.tsv",
		Columns: []Column{
			scalar("id"),
			scalar("name"),
			scalar("status"),
			scalar("species"),
			scalar("type"),
			scalar("gender"),
			{Name: "origin_id", Field: "origin", Kind: Reference},
			{Name: "location_id", Field: "location", Kind: Reference},
		},
	}

	CharacterEpisodeTable = JoinSchema{
		Name:         "character_episode",
		File:         "character_episode_join.tsv",
		Field:        "episode",
		OwnerColumn:  "character_id",
		MemberColumn: "episode_id",
	}

	LocationTable = TableSchema{
		Name: "location",
		File: "locations.tsv",
		Columns: []Column{
			scalar("id"),
			scalar("name"),
			scalar("type"),
			scalar("dimension"),
		},
	}

	EpisodeTable = TableSchema{
		Name: "episode",
		File: "episodes.tsv",
		Columns: []Column{
			scalar("id"),
			scalar("name"),
			scalar("air_date"),
			scalar("code"),
		},
	}
)
