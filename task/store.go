package task

import (
	"errors"
	"fmt"
	"time"

	"github.com/amonks/tock/internal/jsonfile"
)

// Files names the file backing each collection.
type Files struct {
	Active   string
	Archived string
	Finished string
}

// Path returns the file backing the collection.
func (f Files) Path(c Collection) string {
	switch c {
	case Archived:
		return f.Archived
	case Finished:
		return f.Finished
	default:
		return f.Active
	}
}

// Recovery describes a collection file that could not be loaded.
// The collection starts empty for the session.
type Recovery struct {
	Collection Collection
	Path       string
	// MovedTo is where the unreadable file was moved, if it was moved.
	MovedTo string
	Err     error
}

// Store holds the three in-memory collections and the files backing them.
// Only the Engine mutates it. A Store is not safe for concurrent use.
type Store struct {
	files       Files
	logger      Logger
	collections map[Collection][]*Task
	recovered   []Recovery
	// blocked collections failed to load for a reason other than corrupt
	// content; saving them would overwrite data we never read.
	blocked map[Collection]error
}

// OpenStore loads the archived, finished and active collections, in that
// order. Load never fails: missing files are empty collections and
// unreadable ones are recovered as described on Recovered.
func OpenStore(files Files, logger Logger) *Store {
	return openStore(files, logger, time.Now())
}

func openStore(files Files, logger Logger, now time.Time) *Store {
	s := &Store{
		files:       files,
		logger:      loggerOrNoop(logger),
		collections: make(map[Collection][]*Task),
		blocked:     make(map[Collection]error),
	}

	seen := make(map[int]Collection)
	var unnumbered []unnumberedTask
	for _, c := range Collections() {
		s.collections[c], unnumbered = s.load(c, seen, unnumbered, now)
	}

	// Records stored without an ID are numbered once every stored ID is known.
	for _, u := range unnumbered {
		u.task.ID = s.nextID()
		s.logger.Warnf("Task without an id in %s store is now task %d", u.collection, u.task.ID)
	}
	return s
}

type unnumberedTask struct {
	collection Collection
	task       *Task
}

func (s *Store) load(c Collection, seen map[int]Collection, unnumbered []unnumberedTask, now time.Time) ([]*Task, []unnumberedTask) {
	path := s.files.Path(c)
	notes := make(map[int][]string)
	loaded, err := readTasks(path, now, func(record int, note string) {
		notes[record] = append(notes[record], note)
	})
	if err != nil {
		s.recover(c, path, err)
		return nil, unnumbered
	}

	tasks := make([]*Task, 0, len(loaded))
	for i := range loaded {
		t := loaded[i]
		for _, note := range notes[i] {
			s.logger.Warnf("Task %d in %s store: %s", t.ID, c, note)
		}
		if c == Active && (t.Status == StatusArchived || t.Status == StatusDone) {
			s.logger.Warnf("Skipping %s task %d found in %s store %s", t.Status, t.ID, c, path)
			continue
		}
		if want := c.Status(); t.Status != want {
			s.logger.Warnf("Task %d in %s store has status %s; treating it as %s", t.ID, c, t.Status, want)
			t.Status = want
		}
		if t.ID <= 0 {
			t.ID = 0
			tasks = append(tasks, &t)
			unnumbered = append(unnumbered, unnumberedTask{collection: c, task: &t})
			continue
		}
		if owner, ok := seen[t.ID]; ok {
			s.logger.Warnf("Skipping duplicate task %d in %s store; already loaded from %s", t.ID, c, owner)
			continue
		}
		seen[t.ID] = c
		tasks = append(tasks, &t)
	}
	return tasks, unnumbered
}

func (s *Store) recover(c Collection, path string, err error) {
	recovery := Recovery{Collection: c, Path: path, Err: err}
	if errors.Is(err, ErrStoreCorrupt) {
		movedTo, moveErr := jsonfile.Quarantine(path)
		if moveErr != nil {
			s.blocked[c] = moveErr
			s.logger.Errorf("Error loading %s: %v (could not move it aside: %v)", path, err, moveErr)
		} else {
			recovery.MovedTo = movedTo
			s.logger.Errorf("Error loading %s: %v (moved to %s)", path, err, movedTo)
		}
	} else {
		s.blocked[c] = err
		s.logger.Errorf("Error loading %s: %v", path, err)
	}
	s.recovered = append(s.recovered, recovery)
}

// Recovered returns the collections that could not be loaded. A corrupt
// file is moved aside and its collection starts empty; the next save writes
// a fresh file. A file that could not be read at all is left in place and
// its collection is never saved during this session.
func (s *Store) Recovered() []Recovery {
	return append([]Recovery(nil), s.recovered...)
}

// Files returns the files backing the collections.
func (s *Store) Files() Files {
	return s.files
}

// Tasks returns a copy of the collection in insertion order.
func (s *Store) Tasks(c Collection) []Task {
	tasks := s.collections[c]
	result := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		result = append(result, cloneTask(t))
	}
	return result
}

// Get returns a copy of the task with the given ID and its collection.
func (s *Store) Get(id int) (Task, Collection, bool) {
	c, _, t := s.find(id)
	if t == nil {
		return Task{}, "", false
	}
	return cloneTask(t), c, true
}

// Len returns the number of tasks in the collection.
func (s *Store) Len(c Collection) int {
	return len(s.collections[c])
}

// Save writes one collection to its file.
func (s *Store) Save(c Collection) error {
	if err, ok := s.blocked[c]; ok {
		return fmt.Errorf("not saving %s store %s: it could not be loaded: %w", c, s.files.Path(c), err)
	}
	return WriteTasks(s.files.Path(c), s.Tasks(c))
}

// SaveAll writes every collection, returning all failures.
func (s *Store) SaveAll() error {
	var errs []error
	for _, c := range Collections() {
		if err := s.Save(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CheckInvariants verifies that every ID lives in exactly one collection
// and that each task's status matches its collection.
func (s *Store) CheckInvariants() error {
	owners := make(map[int]Collection)
	for _, c := range Collections() {
		for _, t := range s.collections[c] {
			if owner, ok := owners[t.ID]; ok {
				return fmt.Errorf("task %d is in both %s and %s", t.ID, owner, c)
			}
			owners[t.ID] = c
			if t.Status != c.Status() {
				return fmt.Errorf("task %d in %s has status %s", t.ID, c, t.Status)
			}
			if t.RemainingSeconds < 0 {
				return fmt.Errorf("task %d has negative elapsed time %d", t.ID, t.RemainingSeconds)
			}
		}
	}
	return nil
}

func (s *Store) nextID() int {
	return NextID(s.Tasks(Active), s.Tasks(Archived), s.Tasks(Finished))
}

func (s *Store) find(id int) (Collection, int, *Task) {
	for _, c := range Collections() {
		for i, t := range s.collections[c] {
			if t.ID == id {
				return c, i, t
			}
		}
	}
	return "", -1, nil
}

func (s *Store) active(id int) *Task {
	for _, t := range s.collections[Active] {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (s *Store) insert(c Collection, t *Task) {
	s.collections[c] = append(s.collections[c], t)
}

func (s *Store) remove(c Collection, index int) *Task {
	tasks := s.collections[c]
	t := tasks[index]
	s.collections[c] = append(tasks[:index:index], tasks[index+1:]...)
	return t
}

// move relocates a task to another collection and sets its status to match.
func (s *Store) move(from Collection, index int, to Collection) *Task {
	t := s.remove(from, index)
	t.Status = to.Status()
	s.insert(to, t)
	return t
}
