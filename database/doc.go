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

// Package database is a very simple way of storing structured and arbitrary
// entry types in a flat file.
//
// Use of a database requires starting a session with StartSession(), coupled
// with EndSession() once the session is finished. For example (error handling
// removed for clarity):
//
//	db, _ := database.StartSession(dbPath, database.ActivityCreating, initSession)
//	defer db.EndSession(true)
//
// The activity argument says what will happen during the session. A database
// file that does not exist will be created only with ActivityCreating. If the
// database already exists ActivityCreating is treated the same as
// ActivityModifying. Changes made during an ActivityReading session are never
// written to disk.
//
// The initialisation function registers the entry types the database might
// contain:
//
//	func initSession(db *database.Session) error {
//		return db.RegisterEntryType("digest", deserialiseDigest)
//	}
//
// When the database file is read, each entry is passed to the deserialiser
// registered for its type. The deserialiser receives the fields of the entry
// as a slice of strings, not including the key or the entry type, and returns
// a value that satisfies the Entry interface.
//
// The file is in CSV format. Each record is the key, the entry type and then
// the fields returned by the Serialise() function of the entry.
package database
