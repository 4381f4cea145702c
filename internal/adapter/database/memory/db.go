package memory

import (
	"errors"
	"sort"
	"sync"
	"sync/atomic"

	"taskapp/internal/core/domain"
)

var ErrNotInitialized = errors.New("memory store not initialized")

// DB is a process-local task table. Ids are never reused.
type DB struct {
	mu     sync.RWMutex
	nextID int64
	tasks  map[int]domain.Task
}

func NewDB() *DB {
	return &DB{
		tasks: make(map[int]domain.Task),
	}
}

func (db *DB) NextID() int {
	return int(atomic.AddInt64(&db.nextID, 1))
}

func (db *DB) Get(id int) (domain.Task, bool) {
	db.mu.RLock()
	task, ok := db.tasks[id]
	db.mu.RUnlock()

	return task, ok
}

func (db *DB) Put(task domain.Task) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.tasks == nil {
		return ErrNotInitialized
	}

	db.tasks[task.ID] = task

	return nil
}

// Replace mutates the stored task under the write lock. False when id is absent.
func (db *DB) Replace(id int, mutate func(*domain.Task)) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.tasks == nil {
		return false, ErrNotInitialized
	}

	task, ok := db.tasks[id]

	if !ok {
		return false, nil
	}

	mutate(&task)
	db.tasks[id] = task

	return true, nil
}

func (db *DB) Delete(id int) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.tasks == nil {
		return false, ErrNotInitialized
	}

	if _, ok := db.tasks[id]; !ok {
		return false, nil
	}

	delete(db.tasks, id)

	return true, nil
}

// All returns a snapshot ordered by id.
func (db *DB) All() ([]domain.Task, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.tasks == nil {
		return nil, ErrNotInitialized
	}

	tasks := make([]domain.Task, 0, len(db.tasks))

	for _, t := range db.tasks {
		tasks = append(tasks, t)
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })

	return tasks, nil
}
