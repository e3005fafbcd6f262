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

import "fmt"

// Entry represents the generic entry in the database.
type Entry interface {
	// EntryType returns the string that identifies the type of the entry in
	// the database file
	EntryType() string

	// String returns information about the entry in a human readable format.
	// the machine readable format is returned by Serialise()
	String() string

	// Serialise returns the fields of the entry. the fields will be given to
	// the deserialiser registered for the entry type when the database is
	// next read
	Serialise() ([]string, error)

	// CleanUp is called when an entry is deleted from the database
	CleanUp() error
}

// Deserialiser creates an Entry from the fields stored in the database file.
type Deserialiser func(fields []string) (Entry, error)

// RegisterEntryType tells the database what entries it may expect in the
// database file and how to deserialise them.
func (db *Session) RegisterEntryType(entryType string, des Deserialiser) error {
	if _, ok := db.entryTypes[entryType]; ok {
		return fmt.Errorf("database: duplicate entry type (%s)", entryType)
	}
	if des == nil {
		return fmt.Errorf("database: no deserialiser for entry type (%s)", entryType)
	}
	db.entryTypes[entryType] = des
	return nil
}
