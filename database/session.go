// This file is part of Letterbox.
//
// Letterbox is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Letterbox is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Letterbox.  If not, see <https://www.gnu.org/licenses/>.

package database

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
)

// Activity is used to specify the type of activity to be performed during a
// database session.
type Activity int

// List of valid Activity values.
const (
	ActivityReading Activity = iota
	ActivityModifying
	ActivityCreating
)

// ErrNotFound is returned by StartSession() if the database file does not
// exist and the activity is not ActivityCreating.
var ErrNotFound = errors.New("database: not found")

// Session keeps track of a database session.
type Session struct {
	path     string
	activity Activity

	entries    map[int]Entry
	entryTypes map[string]Deserialiser
}

// StartSession starts a new database session. The init function is called
// before the database file is read and should register the entry types.
func StartSession(path string, activity Activity, init func(*Session) error) (*Session, error) {
	db := &Session{
		path:       path,
		activity:   activity,
		entries:    make(map[int]Entry),
		entryTypes: make(map[string]Deserialiser),
	}

	if init != nil {
		err := init(db)
		if err != nil {
			return nil, err
		}
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if activity == ActivityCreating {
				return db, nil
			}
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("database: %w", err)
	}
	defer f.Close()

	err = db.read(f)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func (db *Session) read(r io.Reader) error {
	rd := csv.NewReader(r)

	// the number of fields depends on the entry type
	rd.FieldsPerRecord = -1

	for {
		rec, err := rd.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}

		if len(rec) < 2 {
			return fmt.Errorf("database: malformed entry on line %d", len(db.entries)+1)
		}

		key, err := strconv.Atoi(rec[0])
		if err != nil || key < 0 || key >= maxEntries {
			return fmt.Errorf("database: invalid key (%s)", rec[0])
		}
		if _, ok := db.entries[key]; ok {
			return fmt.Errorf("database: duplicate key (%d)", key)
		}

		des, ok := db.entryTypes[rec[1]]
		if !ok {
			return fmt.Errorf("database: unrecognised entry type (%s)", rec[1])
		}

		ent, err := des(rec[2:])
		if err != nil {
			return fmt.Errorf("database: entry %d: %w", key, err)
		}

		db.entries[key] = ent
	}
}

// EndSession closes the database session. Changes are written to disk if
// commit is true and the session activity is not ActivityReading.
func (db *Session) EndSession(commit bool) error {
	if !commit || db.activity == ActivityReading {
		return nil
	}

	var b bytes.Buffer
	wr := csv.NewWriter(&b)

	for _, key := range db.SortedKeyList() {
		ent := db.entries[key]

		fields, err := ent.Serialise()
		if err != nil {
			return fmt.Errorf("database: entry %d: %w", key, err)
		}

		rec := append([]string{strconv.Itoa(key), ent.EntryType()}, fields...)
		err = wr.Write(rec)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}

	wr.Flush()
	if err := wr.Error(); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	err := os.WriteFile(db.path, b.Bytes(), 0o644)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}

	return nil
}
