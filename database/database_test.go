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

package database_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/letterbox/database"
	"github.com/jetsetilly/letterbox/test"
)

type note struct {
	text    string
	cleaned *int
}

func (n *note) EntryType() string {
	return "note"
}

func (n *note) String() string {
	return n.text
}

func (n *note) Serialise() ([]string, error) {
	return []string{n.text}, nil
}

func (n *note) CleanUp() error {
	if n.cleaned != nil {
		*n.cleaned++
	}
	return nil
}

func initNotes(db *database.Session) error {
	return db.RegisterEntryType("note", func(fields []string) (database.Entry, error) {
		if len(fields) != 1 {
			return nil, fmt.Errorf("wrong number of fields (%d)", len(fields))
		}
		return &note{text: fields[0]}, nil
	})
}

func TestMissingDatabase(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "db")

	_, err := database.StartSession(pth, database.ActivityReading, initNotes)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, errors.Is(err, database.ErrNotFound))

	db, err := database.StartSession(pth, database.ActivityCreating, initNotes)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, db.NumEntries(), 0)

	// nothing is written for an uncommitted session
	test.DemandSuccess(t, db.EndSession(false))
	_, err = os.Stat(pth)
	test.ExpectFailure(t, err)
}

func TestRoundTrip(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "db")

	db, err := database.StartSession(pth, database.ActivityCreating, initNotes)
	test.DemandSuccess(t, err)

	key, err := db.Add(&note{text: "first"})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, key, 0)

	// commas and quotes must survive the file format
	key, err = db.Add(&note{text: `second, "quoted"`})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, key, 1)

	test.DemandSuccess(t, db.EndSession(true))

	db, err = database.StartSession(pth, database.ActivityReading, initNotes)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, db.NumEntries(), 2)
	test.ExpectDeepEquality(t, db.SortedKeyList(), []int{0, 1})

	ent, err := db.Get(1)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, ent.String(), `second, "quoted"`)

	// changes to a reading session are discarded
	_, err = db.Add(&note{text: "third"})
	test.ExpectSuccess(t, err)
	test.DemandSuccess(t, db.EndSession(true))

	db, err = database.StartSession(pth, database.ActivityReading, initNotes)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, db.NumEntries(), 2)
}

func TestDeleteReusesKey(t *testing.T) {
	var cleaned int

	db, err := database.StartSession(filepath.Join(t.TempDir(), "db"), database.ActivityCreating, initNotes)
	test.DemandSuccess(t, err)

	for _, s := range []string{"a", "b", "c"} {
		_, err := db.Add(&note{text: s, cleaned: &cleaned})
		test.DemandSuccess(t, err)
	}

	test.ExpectSuccess(t, db.Delete(1))
	test.ExpectEquality(t, cleaned, 1)
	test.ExpectFailure(t, db.Delete(1))
	test.ExpectEquality(t, cleaned, 1)

	key, err := db.Add(&note{text: "d"})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, key, 1)
}

func TestUnregisteredType(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "db")
	test.DemandSuccess(t, os.WriteFile(pth, []byte("0,note,hello\n1,other,x\n"), 0o644))

	_, err := database.StartSession(pth, database.ActivityReading, initNotes)
	test.ExpectFailure(t, err)

	db, err := database.StartSession(pth, database.ActivityCreating, nil)
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, db == nil, true)

	db, err = database.StartSession(filepath.Join(t.TempDir(), "db"), database.ActivityCreating, nil)
	test.DemandSuccess(t, err)
	_, err = db.Add(&note{text: "a"})
	test.ExpectFailure(t, err)
}

func TestMalformedFile(t *testing.T) {
	for _, content := range []string{
		"x,note,hello\n",
		"0\n",
		"0,note,hello\n0,note,again\n",
		"0,note,hello,extra\n",
	} {
		pth := filepath.Join(t.TempDir(), "db")
		test.DemandSuccess(t, os.WriteFile(pth, []byte(content), 0o644))
		_, err := database.StartSession(pth, database.ActivityReading, initNotes)
		test.ExpectFailure(t, err, content)
	}
}

func TestSelect(t *testing.T) {
	db, err := database.StartSession(filepath.Join(t.TempDir(), "db"), database.ActivityCreating, initNotes)
	test.DemandSuccess(t, err)

	_, err = db.SelectAll(nil)
	test.ExpectFailure(t, err)

	for _, s := range []string{"a", "b", "c"} {
		_, err := db.Add(&note{text: s})
		test.DemandSuccess(t, err)
	}

	var visited []string
	ent, err := db.SelectAll(func(key int, ent database.Entry) (bool, error) {
		visited = append(visited, fmt.Sprintf("%d%s", key, ent))
		return true, nil
	})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, ent.String(), "c")
	test.ExpectDeepEquality(t, visited, []string{"0a", "1b", "2c"})

	// keys in the order given and stopping early
	visited = visited[:0]
	ent, err = db.SelectKeys(func(key int, ent database.Entry) (bool, error) {
		visited = append(visited, ent.String())
		return key != 0, nil
	}, 2, 0, 1)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, ent.String(), "a")
	test.ExpectDeepEquality(t, visited, []string{"c", "a"})

	_, err = db.SelectKeys(nil, 5)
	test.ExpectFailure(t, err)

	stop := errors.New("stop")
	_, err = db.SelectAll(func(_ int, _ database.Entry) (bool, error) {
		return true, stop
	})
	test.ExpectSuccess(t, errors.Is(err, stop))
}

func TestList(t *testing.T) {
	db, err := database.StartSession(filepath.Join(t.TempDir(), "db"), database.ActivityCreating, initNotes)
	test.DemandSuccess(t, err)

	var b strings.Builder
	test.ExpectSuccess(t, db.List(&b))
	test.ExpectEquality(t, b.String(), "database is empty\n")

	_, err = db.Add(&note{text: "alpha"})
	test.DemandSuccess(t, err)
	_, err = db.Add(&note{text: "beta"})
	test.DemandSuccess(t, err)

	b.Reset()
	test.ExpectSuccess(t, db.List(&b))
	test.ExpectEquality(t, b.String(), "000 alpha\n001 beta\nTotal: 2\n")
}
