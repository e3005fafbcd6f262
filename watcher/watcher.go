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

// Package watcher watches an animation file for changes and decodes the file
// again when it has changed. It is used to update playback while the
// animation is being edited.
//
// The directory containing the file is watched rather than the file itself.
// Many editors save a file by writing a new file and renaming it over the old
// one, which would end a watch on the file.
//
// For an animation inside an archive it is the archive file that is watched.
// Changes to other files in the archive do not cause a reload.
package watcher

import (
	"bytes"
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jetsetilly/letterbox/animation"
	"github.com/jetsetilly/letterbox/archivefs"
	"github.com/jetsetilly/letterbox/logger"
)

// Debounce is the default duration to wait after the most recent change to
// the file before decoding it. Editors may write a file in several steps.
const Debounce = 100 * time.Millisecond

// Watcher calls a reload function with the newly decoded animation whenever
// the watched file changes.
type Watcher struct {
	path     string
	disk     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	reload   func(*animation.Animation)

	// checksum of the most recently decoded file contents
	sum [sha1.Size]byte

	cancel context.CancelFunc
	done   chan struct{}
}

// NewWatcher is the preferred method of initialisation for the Watcher type.
// The reload function is called from the watcher's goroutine. If debounce is
// less than zero then the value of Debounce is used.
//
// The Watcher runs until the context is cancelled or Close() is called.
func NewWatcher(ctx context.Context, path string, debounce time.Duration, reload func(*animation.Animation)) (*Watcher, error) {
	if reload == nil {
		return nil, errors.New("watcher: reload function is nil")
	}

	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}

	// the initial checksum means that a change event that doesn't change the
	// content of the file will not cause a reload
	b, err := archivefs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}

	disk, err := archivefs.DiskPath(path)
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}

	err = fsw.Add(filepath.Dir(disk))
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watcher: %w", err)
	}

	if debounce < 0 {
		debounce = Debounce
	}

	ctx, cancel := context.WithCancel(ctx)

	w := &Watcher{
		path:     path,
		disk:     disk,
		debounce: debounce,
		watcher:  fsw,
		reload:   reload,
		sum:      sha1.Sum(b),
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	go w.process(ctx)

	logger.Logf(logger.Allow, "watcher", "watching %s", path)

	return w, nil
}

// Close stops the watcher and waits for its goroutine to end.
func (w *Watcher) Close() error {
	w.cancel()
	<-w.done
	return w.watcher.Close()
}

func (w *Watcher) process(ctx context.Context) {
	defer close(w.done)

	// the timer is only started once a relevant event has been seen
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.disk {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Log(logger.Allow, "watcher", err)

		case <-timer.C:
			w.changed()
		}
	}
}

// changed is called when the file has been stable for the debounce period.
func (w *Watcher) changed() {
	b, err := archivefs.ReadFile(w.path)
	if err != nil {
		logger.Log(logger.Allow, "watcher", err)
		return
	}

	sum := sha1.Sum(b)
	if sum == w.sum {
		return
	}

	anim, err := animation.Decode(bytes.NewReader(b))
	if err != nil {
		// the file may be part way through being written. the next write
		// event will cause another attempt
		logger.Logf(logger.Allow, "watcher", "%s: %v", filepath.Base(w.path), err)
		return
	}

	w.sum = sum
	logger.Logf(logger.Allow, "watcher", "reloading %s", filepath.Base(w.path))
	w.reload(anim)
}
