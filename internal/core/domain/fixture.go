package domain

// Fixture is the content of a fixture file: seed threads and knowledge chunks.
type Fixture struct {
	// Threads are conversations to import.
	Threads []Thread `json:"threads" yaml:"threads"`

	// Chunks are knowledge-base entries to import.
	Chunks []Chunk `json:"chunks" yaml:"chunks"`
}

// Merge appends the threads and chunks of other onto f.
func (f *Fixture) Merge(other *Fixture) {
	if other == nil {
		return
	}
	f.Threads = append(f.Threads, other.Threads...)
	f.Chunks = append(f.Chunks, other.Chunks...)
}
