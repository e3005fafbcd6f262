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

// SelectAll entries in the database in key order. onSelect can be nil.
//
// The select process stops if onSelect returns false or an error. Returns the
// last matched entry, or the error returned by onSelect.
func (db *Session) SelectAll(onSelect func(key int, ent Entry) (bool, error)) (Entry, error) {
	return db.SelectKeys(onSelect)
}

// SelectKeys matches entries with the specified keys, in the order given. If
// the list of keys is empty then all entries are matched in key order.
// onSelect can be nil.
//
// The select process stops if onSelect returns false or an error. Returns the
// last matched entry, or the error returned by onSelect.
func (db *Session) SelectKeys(onSelect func(key int, ent Entry) (bool, error), keys ...int) (Entry, error) {
	if onSelect == nil {
		onSelect = func(_ int, _ Entry) (bool, error) { return true, nil }
	}

	if len(keys) == 0 {
		keys = db.SortedKeyList()
	}

	var last Entry

	for _, key := range keys {
		ent, ok := db.entries[key]
		if !ok {
			return last, fmt.Errorf("database: key not available (%d)", key)
		}
		last = ent

		cont, err := onSelect(key, ent)
		if err != nil {
			return last, err
		}
		if !cont {
			break
		}
	}

	if last == nil {
		return nil, fmt.Errorf("database: select empty")
	}

	return last, nil
}
