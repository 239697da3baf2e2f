package connectivity

// Origin is the start of a connection.
type Origin struct {
	Entities EntitySet `json:"anatomical_entities"`
}

// Via is an intermediate hop. From lists explicit predecessors and is
// empty when the predecessor is the previous hop.
type Via struct {
	Entities EntitySet `json:"anatomical_entities"`
	From     EntitySet `json:"from_entities"`
	Order    int       `json:"order"`
	Kind     ViaKind   `json:"type"`
}

// Destination is a terminal hop.
type Destination struct {
	Entities EntitySet       `json:"anatomical_entities"`
	From     EntitySet       `json:"from_entities"`
	Kind     DestinationKind `json:"type"`
}

// segments is what the walker collects before merging.
type segments struct {
	origins      []Origin
	vias         []Via
	destinations []Destination
}
