package checkpoint

import (
	"database/sql"
	"fmt"

	// Registers the "sqlite3" driver with database/sql.
	_ "github.com/mattn/go-sqlite3"

	"github.com/fulcrumsim/desim/desim"
	"github.com/rs/xid"
)

// Store reads and writes Simulator snapshots to a SQLite database.
type Store struct {
	db    *sql.DB
	codec MessageCodec
}

// Open creates or opens the database at path and ensures its schema exists.
func Open(path string, codec MessageCodec) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db, codec: codec}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS checkpoint_meta (
			id TEXT PRIMARY KEY,
			current_time REAL,
			next_sequence_number INTEGER
		);
		CREATE TABLE IF NOT EXISTS checkpoint_event (
			checkpoint_id TEXT,
			sequence_number INTEGER,
			creation_time REAL,
			receive_time REAL,
			sender_name TEXT,
			receiver_name TEXT,
			kind TEXT,
			secondary INTEGER,
			payload BLOB
		);
	`)

	return err
}

// Save snapshots sim's heap and clock under a fresh checkpoint ID, which it
// returns so the caller can pass it back to Load.
func (s *Store) Save(sim *desim.Simulator) (string, error) {
	id := xid.New().String()

	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}

	_, err = tx.Exec(
		"INSERT INTO checkpoint_meta(id, current_time, next_sequence_number) VALUES (?, ?, ?)",
		id, float64(sim.CurrentTime()), sim.NextSequenceNumber(),
	)
	if err != nil {
		tx.Rollback()
		return "", err
	}

	for _, e := range sim.SnapshotHeap() {
		payload, err := s.codec.Encode(e.Message())
		if err != nil {
			tx.Rollback()
			return "", fmt.Errorf("checkpoint: encoding event %d: %w", e.SequenceNumber(), err)
		}

		senderName, receiverName := "", ""
		if e.Sender() != nil {
			senderName = e.Sender().Name()
		}

		if e.Receiver() != nil {
			receiverName = e.Receiver().Name()
		}

		_, err = tx.Exec(
			`INSERT INTO checkpoint_event(
				checkpoint_id, sequence_number, creation_time, receive_time,
				sender_name, receiver_name, kind, secondary, payload
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, e.SequenceNumber(), float64(e.CreationTime()), float64(e.ReceiveTime()),
			senderName, receiverName, string(e.Message().Kind()), e.IsSecondary(), payload,
		)
		if err != nil {
			tx.Rollback()
			return "", fmt.Errorf("checkpoint: writing event %d: %w", e.SequenceNumber(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}

	return id, nil
}

// Load rebuilds sim's heap and clock from the checkpoint named id. sim must
// already have every object the checkpoint references registered, under
// the same names, before Load is called.
func (s *Store) Load(id string, sim *desim.Simulator) error {
	var currentTime float64
	var nextSeq uint64

	row := s.db.QueryRow(
		`SELECT "current_time", next_sequence_number FROM checkpoint_meta WHERE id = ?`, id)
	if err := row.Scan(&currentTime, &nextSeq); err != nil {
		return fmt.Errorf("checkpoint: loading meta for %q: %w", id, err)
	}

	rows, err := s.db.Query(
		`SELECT sequence_number, creation_time, receive_time,
			sender_name, receiver_name, kind, secondary, payload
		 FROM checkpoint_event WHERE checkpoint_id = ?`, id)
	if err != nil {
		return err
	}
	defer rows.Close()

	events, err := s.scanEvents(rows, sim)
	if err != nil {
		return err
	}

	sim.RestoreHeap(events)
	sim.RestoreCurrentTime(desim.Time(currentTime))
	sim.RestoreSequenceNumber(nextSeq)

	return nil
}

// scanEvents reads every row from rows into restored *desim.Events, looking
// up the sender and receiver objects by name on sim.
func (s *Store) scanEvents(rows *sql.Rows, sim *desim.Simulator) ([]*desim.Event, error) {
	var events []*desim.Event

	for rows.Next() {
		var (
			seq                       uint64
			creationTime, receiveTime float64
			senderName, receiverName  string
			kind                      string
			secondary                 bool
			payload                   []byte
		)

		err := rows.Scan(
			&seq, &creationTime, &receiveTime,
			&senderName, &receiverName, &kind, &secondary, &payload,
		)
		if err != nil {
			return nil, err
		}

		message, err := s.codec.Decode(desim.Kind(kind), payload)
		if err != nil {
			return nil, fmt.Errorf("checkpoint: decoding event %d: %w", seq, err)
		}

		var sender, receiver *desim.SimulationObject
		if senderName != "" {
			sender, _ = sim.Object(senderName)
		}

		if receiverName != "" {
			receiver, _ = sim.Object(receiverName)
		}

		events = append(events, desim.NewRestoredEvent(
			seq, desim.Time(creationTime), desim.Time(receiveTime),
			sender, receiver, message, secondary,
		))
	}

	return events, rows.Err()
}
