// Package seed loads a movie-graph dataset from a JSON file so the process
// starts with content instead of an empty graph. Loading is additive upsert;
// it never deletes nodes that fell out of the file.
package seed

// Dataset is the on-disk seed format. Node lists come first; edge lists
// reference nodes by their natural keys.
type Dataset struct {
	Movies  []MovieRecord  `json:"movies"`
	People  []PersonRecord `json:"people"`
	Genres  []string       `json:"genres"`
	Studios []string       `json:"studios"`

	ActedIn  []ActedInRecord  `json:"acted_in"`
	Directed []CreditRecord   `json:"directed"`
	HasGenre []GenreTagRecord `json:"has_genre"`
	Produced []ProducedRecord `json:"produced"`

	// Checksum is the hex SHA-256 of the raw file, filled by the loader.
	// It is not part of the JSON format.
	Checksum string `json:"-"`
}

type MovieRecord struct {
	Title    string `json:"title"`
	Released int    `json:"released,omitempty"`
	Tagline  string `json:"tagline,omitempty"`
}

type PersonRecord struct {
	Name string `json:"name"`
	Born int    `json:"born,omitempty"`
}

type ActedInRecord struct {
	Person string   `json:"person"`
	Movie  string   `json:"movie"`
	Roles  []string `json:"roles"`
}

type CreditRecord struct {
	Person string `json:"person"`
	Movie  string `json:"movie"`
}

type GenreTagRecord struct {
	Movie string `json:"movie"`
	Genre string `json:"genre"`
}

type ProducedRecord struct {
	Studio string `json:"studio"`
	Movie  string `json:"movie"`
}

// LoadStats summarizes one dataset application.
type LoadStats struct {
	Movies  int
	People  int
	Genres  int
	Studios int
	Edges   int
	// Skipped lists records that could not be applied, typically edges
	// naming absent endpoints.
	Skipped []string
}

// Total returns the number of applied nodes and edges.
func (s LoadStats) Total() int {
	return s.Movies + s.People + s.Genres + s.Studios + s.Edges
}
