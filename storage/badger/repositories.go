package badger

// Repositories bundles all BadgerDB-backed repositories sharing one database.
type Repositories struct {
	Backend   *Backend
	Documents *DocumentRepository
	Chunks    *ChunkRepository
	Courses   *CourseRepository
	Steps     *StepRepository
	Blobs     *BlobRepository
}

// NewRepositories opens a BadgerDB database at path and creates all
// repositories on top of it. Caller must Close the result when done.
func NewRepositories(path string) (*Repositories, error) {
	return newRepositories(path, false)
}

func newRepositories(path string, inMemory bool) (*Repositories, error) {
	backend, err := OpenBackend(path, inMemory)
	if err != nil {
		return nil, err
	}

	docs, err := NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	chunks, err := NewChunkRepository(backend)
	if err != nil {
		docs.Close()
		backend.Close()
		return nil, err
	}

	courses, err := NewCourseRepository(backend)
	if err != nil {
		chunks.Close()
		docs.Close()
		backend.Close()
		return nil, err
	}

	steps, err := NewStepRepository(backend)
	if err != nil {
		courses.Close()
		chunks.Close()
		docs.Close()
		backend.Close()
		return nil, err
	}

	blobs, err := NewBlobRepository(backend)
	if err != nil {
		courses.Close()
		chunks.Close()
		docs.Close()
		backend.Close()
		return nil, err
	}

	return &Repositories{
		Backend:   backend,
		Documents: docs,
		Chunks:    chunks,
		Courses:   courses,
		Steps:     steps,
		Blobs:     blobs,
	}, nil
}

// Close releases all repositories and the underlying database.
// Repositories are closed before the backend so sequences are released first.
func (r *Repositories) Close() error {
	r.Courses.Close()
	r.Chunks.Close()
	r.Documents.Close()
	return r.Backend.Close()
}
