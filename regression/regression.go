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

package regression

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jetsetilly/letterbox/database"
	"github.com/jetsetilly/letterbox/logger"
)

// name of the preferences file used by regression entries. it lives alongside
// the database file.
const prefsFile = "regression_preferences"

// Regressor is the interface that must be implemented by a regression entry.
type Regressor interface {
	database.Entry

	// returns success, a failure message and any error. if newRegression is
	// true then the entry should record the result rather than compare
	// against it
	regress(newRegression bool) (bool, string, error)
}

// Database is a regression database at a specific location on disk.
type Database struct {
	path string
}

// NewDatabase is the preferred method of initialisation for the Database
// type. The file need not exist until the first entry is added.
func NewDatabase(path string) *Database {
	return &Database{path: path}
}

func (rdb *Database) prefsPath() string {
	return filepath.Join(filepath.Dir(rdb.path), prefsFile)
}

func (rdb *Database) initSession(db *database.Session) error {
	return db.RegisterEntryType(digestEntryType, func(fields []string) (database.Entry, error) {
		ent, err := deserialiseDigestEntry(fields)
		if err != nil {
			return nil, err
		}
		ent.(*DigestEntry).prefsPath = rdb.prefsPath()
		return ent, nil
	})
}

// List displays all entries in the regression database.
func (rdb *Database) List(output io.Writer) error {
	db, err := database.StartSession(rdb.path, database.ActivityReading, rdb.initSession)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			_, err = io.WriteString(output, "database is empty\n")
			return err
		}
		return fmt.Errorf("regression: %w", err)
	}
	defer db.EndSession(false)

	return db.List(output)
}

// Add runs the regression entry for the first time and adds it to the
// database with the result.
func (rdb *Database) Add(output io.Writer, reg Regressor) error {
	if ent, ok := reg.(*DigestEntry); ok {
		ent.prefsPath = rdb.prefsPath()
	}

	db, err := database.StartSession(rdb.path, database.ActivityCreating, rdb.initSession)
	if err != nil {
		return fmt.Errorf("regression: %w", err)
	}

	fmt.Fprintf(output, "adding: %s\n", reg)

	_, _, err = reg.regress(true)
	if err != nil {
		_ = db.EndSession(false)
		return fmt.Errorf("regression: %w", err)
	}

	key, err := db.Add(reg)
	if err != nil {
		_ = db.EndSession(false)
		return fmt.Errorf("regression: %w", err)
	}

	err = db.EndSession(true)
	if err != nil {
		return fmt.Errorf("regression: %w", err)
	}

	fmt.Fprintf(output, "added: %03d %s\n", key, reg)

	return nil
}

// Delete an entry from the regression database. The user is asked to confirm
// the deletion by reading from the confirmation reader. A nil reader deletes
// without asking.
func (rdb *Database) Delete(output io.Writer, confirmation io.Reader, key string) error {
	v, err := strconv.Atoi(key)
	if err != nil {
		return fmt.Errorf("regression: invalid key (%s)", key)
	}

	db, err := database.StartSession(rdb.path, database.ActivityModifying, rdb.initSession)
	if err != nil {
		return fmt.Errorf("regression: %w", err)
	}

	ent, err := db.Get(v)
	if err != nil {
		_ = db.EndSession(false)
		return fmt.Errorf("regression: %w", err)
	}

	if confirmation != nil {
		fmt.Fprintf(output, "%s\ndelete? (y/n): ", ent)

		answer, err := bufio.NewReader(confirmation).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			_ = db.EndSession(false)
			return fmt.Errorf("regression: %w", err)
		}

		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			_ = db.EndSession(false)
			return nil
		}
	}

	err = db.Delete(v)
	if err != nil {
		_ = db.EndSession(false)
		return fmt.Errorf("regression: %w", err)
	}

	fmt.Fprintf(output, "deleted test #%s from regression database\n", key)

	return db.EndSession(true)
}

// ErrRegressionFailed is returned by Run() if any of the entries failed.
var ErrRegressionFailed = errors.New("regression: tests failed")

// Run the regression entries with the specified keys. An empty list of keys
// runs all entries.
//
// Output is summarised on one line per entry unless verbose is true, in which
// case the log produced by each entry is also written. If failOnError is true
// then Run() returns on the first failure or error.
func (rdb *Database) Run(output io.Writer, verbose bool, failOnError bool, filterKeys []string) error {
	db, err := database.StartSession(rdb.path, database.ActivityReading, rdb.initSession)
	if err != nil {
		return fmt.Errorf("regression: %w", err)
	}
	defer db.EndSession(false)

	keys := make([]int, 0, len(filterKeys))
	for _, k := range filterKeys {
		v, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("regression: invalid key (%s)", k)
		}
		keys = append(keys, v)
	}

	var numSucceed, numFail, numError int

	onSelect := func(key int, ent database.Entry) (bool, error) {
		reg, ok := ent.(Regressor)
		if !ok {
			return false, fmt.Errorf("regression: entry %d is not a regression entry", key)
		}

		fmt.Fprintf(output, "%03d %s", key, reg)

		logger.Clear()
		startTime := time.Now()
		ok, msg, err := reg.regress(false)
		elapsed := time.Since(startTime).Round(time.Millisecond)

		switch {
		case err != nil:
			numError++
			fmt.Fprintf(output, " ERROR (%v)\n", err)
		case !ok:
			numFail++
			fmt.Fprintf(output, " FAILED (%s)\n", msg)
		default:
			numSucceed++
			fmt.Fprintf(output, " ok (%s)\n", elapsed)
		}

		if verbose {
			logger.Write(output)
		}

		if failOnError && (err != nil || !ok) {
			return false, nil
		}

		return true, nil
	}

	_, err = db.SelectKeys(onSelect, keys...)
	if err != nil && db.NumEntries() > 0 {
		return fmt.Errorf("regression: %w", err)
	}

	numSkipped := db.NumEntries() - numSucceed - numFail - numError
	if len(keys) > 0 {
		numSkipped = len(keys) - numSucceed - numFail - numError
	}

	fmt.Fprintf(output, "regression tests: %d succeed, %d fail, %d error, %d skipped\n",
		numSucceed, numFail, numError, numSkipped)

	if numFail > 0 || numError > 0 {
		return ErrRegressionFailed
	}

	return nil
}
