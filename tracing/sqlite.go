package tracing

import (
	"database/sql"
	"fmt"

	// Registers the "sqlite3" driver with database/sql.
	_ "github.com/mattn/go-sqlite3"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// SQLiteTraceWriter batches tasks into a SQLite database, flushing a batch
// transaction at a time.
type SQLiteTraceWriter struct {
	db        *sql.DB
	statement *sql.Stmt

	path    string
	pending []Task
	batch   int
}

// NewSQLiteTraceWriter creates a writer against the database at path. If
// path is empty, a fresh xid-named file is used so concurrent runs never
// collide.
func NewSQLiteTraceWriter(path string) *SQLiteTraceWriter {
	if path == "" {
		path = xid.New().String() + ".trace.sqlite3"
	}

	w := &SQLiteTraceWriter{path: path, batch: 10000}

	atexit.Register(func() { w.Flush() })

	return w
}

// Init opens the database and creates the task table and its insert
// statement.
func (w *SQLiteTraceWriter) Init() {
	db, err := sql.Open("sqlite3", w.path)
	if err != nil {
		panic(err)
	}

	w.db = db

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS task (
		id TEXT, sender TEXT, receiver TEXT, kind TEXT,
		start_time REAL, end_time REAL
	)`)
	if err != nil {
		panic(err)
	}

	stmt, err := db.Prepare(
		"INSERT INTO task(id, sender, receiver, kind, start_time, end_time) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		panic(err)
	}

	w.statement = stmt
}

// Write buffers task, flushing once the buffer reaches its batch size.
func (w *SQLiteTraceWriter) Write(task Task) {
	w.pending = append(w.pending, task)
	if len(w.pending) >= w.batch {
		w.Flush()
	}
}

// Flush inserts every buffered task inside one transaction.
func (w *SQLiteTraceWriter) Flush() {
	if len(w.pending) == 0 {
		return
	}

	tx, err := w.db.Begin()
	if err != nil {
		panic(err)
	}

	for _, task := range w.pending {
		_, err := tx.Stmt(w.statement).Exec(
			task.ID, task.SenderName, task.Receiver, task.Kind,
			task.StartTime, task.EndTime,
		)
		if err != nil {
			panic(fmt.Errorf("inserting task %s: %w", task.ID, err))
		}
	}

	if err := tx.Commit(); err != nil {
		panic(err)
	}

	w.pending = nil
}
