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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/jetsetilly/letterbox/animation"
	"github.com/jetsetilly/letterbox/archivefs"
	"github.com/jetsetilly/letterbox/compositor"
	"github.com/jetsetilly/letterbox/gifwriter"
	"github.com/jetsetilly/letterbox/gui"
	"github.com/jetsetilly/letterbox/gui/headless"
	"github.com/jetsetilly/letterbox/gui/sdlplay"
	"github.com/jetsetilly/letterbox/gui/termplay"
	"github.com/jetsetilly/letterbox/logger"
	"github.com/jetsetilly/letterbox/modalflag"
	"github.com/jetsetilly/letterbox/paths"
	"github.com/jetsetilly/letterbox/performance"
	"github.com/jetsetilly/letterbox/playback"
	"github.com/jetsetilly/letterbox/prefs"
	"github.com/jetsetilly/letterbox/regression"
	"github.com/jetsetilly/letterbox/statsview"
	"github.com/jetsetilly/letterbox/version"
	"github.com/jetsetilly/letterbox/watcher"
)

type stateReq = string

const (
	// main thread should end as soon as possible.
	//
	// takes optional int argument, indicating the status code.
	reqQuit stateReq = "QUIT"

	// replace the default interrupt signal handling. by default an interrupt
	// causes the main thread to end immediately. modes that need to tidy up
	// before ending (restoring the terminal or finishing a recording) provide
	// their own handler.
	//
	// takes a func() argument. a nil argument restores the default handling.
	reqIntHandler stateReq = "INTHANDLER"
)

type stateRequest struct {
	req  stateReq
	args any
}

// GuiCreator facilitates the creation, servicing and destruction of GUIs
// that need to be run in the main thread.
//
// Note that there is no Create() function because we need the freedom to
// create the GUI how we want. Instead the creator is a channel which accepts
// a function that returns an instance of GuiCreator.
type GuiCreator interface {
	// cleanup resources used by the gui
	Destroy()

	// Service() should not pause or loop longer than necessary. It MUST ONLY
	// be called as part of a larger loop from the main thread. It should
	// service all gui events that are not safe to do in sub-threads.
	Service()
}

// communication between the main() function and the launch() function. this is
// required because many gui solutions (notably SDL) require window event
// handling (including creation) to occur on the main thread.
type mainSync struct {
	state   chan stateRequest
	creator chan func() (GuiCreator, error)

	// the result of creator will be returned on either of these two channels.
	creation      chan GuiCreator
	creationError chan error
}

// #mainthread
func main() {
	sync := &mainSync{
		state:         make(chan stateRequest),
		creator:       make(chan func() (GuiCreator, error)),
		creation:      make(chan GuiCreator),
		creationError: make(chan error),
	}

	// the value to use with os.Exit(). can be changed with reqQuit
	// stateRequest
	exitVal := 0

	// #ctrlc default handler. can be replaced with reqIntHandler request
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)
	var intHandler func()

	// launch program as a go routine. further communication is through
	// the mainSync instance
	go launch(sync, os.Args[1:])

	// loop until done is true. every iteration of the loop we listen for:
	//
	//  1. interrupt signals
	//  2. new gui creation functions
	//  3. state requests
	//  4. anything in the Service() function of the most recently created GUI
	//
	// if there is no GUI then the loop blocks until one of the first three
	// happens
	done := false
	var gui GuiCreator

	handle := func(request stateRequest) {
		switch request.req {
		case reqQuit:
			done = true
			if request.args != nil {
				if v, ok := request.args.(int); ok {
					exitVal = v
				} else {
					panic(fmt.Sprintf("cannot convert %s arguments into int", reqQuit))
				}
			}

		case reqIntHandler:
			if request.args == nil {
				intHandler = nil
			} else if f, ok := request.args.(func()); ok {
				intHandler = f
			} else {
				panic(fmt.Sprintf("%s requires a func() argument", reqIntHandler))
			}
		}
	}

	create := func(creator func() (GuiCreator, error)) {
		if gui != nil {
			gui.Destroy()
			gui = nil
		}

		// assigning the result of the creator directly to the gui variable
		// would leave a non-nil interface holding a nil pointer on error
		g, err := creator()
		if err != nil {
			sync.creationError <- err
			return
		}
		gui = g
		sync.creation <- gui
	}

	interrupt := func() {
		if intHandler != nil {
			intHandler()
			return
		}
		fmt.Println("\r")
		done = true
	}

	for !done {
		if gui == nil {
			select {
			case <-intChan:
				interrupt()
			case creator := <-sync.creator:
				create(creator)
			case state := <-sync.state:
				handle(state)
			}
			continue
		}

		select {
		case <-intChan:
			interrupt()
		case creator := <-sync.creator:
			create(creator)
		case state := <-sync.state:
			handle(state)
		default:
			gui.Service()
		}
	}

	if gui != nil {
		gui.Destroy()
	}

	os.Exit(exitVal)
}

// launch is called from main() as a goroutine. uses mainSync instance to
// indicate gui creation and to quit.
func launch(sync *mainSync, args []string) {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("PLAY", "TERM", "DIGEST", "INFO", "PERF", "REGRESS", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		sync.state <- stateRequest{req: reqQuit}
		return

	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		sync.state <- stateRequest{req: reqQuit, args: 10}
		return
	}

	switch md.Mode() {
	case "PLAY":
		err = play(md, sync)

	case "TERM":
		err = term(md, sync)

	case "DIGEST":
		err = digest(md)

	case "INFO":
		err = info(md)

	case "PERF":
		err = perform(md)

	case "REGRESS":
		err = regress(md)

	case "VERSION":
		err = showVersion(md)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		sync.state <- stateRequest{req: reqQuit, args: 20}
		return
	}

	sync.state <- stateRequest{req: reqQuit}
}

// flags common to all modes that play an animation
type playbackFlags struct {
	width      *int
	height     *int
	background *string
	fpsCap     *int
	delays     *bool
	loop       *bool
	prefs      *string
	savePrefs  *bool
	log        *bool
}

// the preference key for each of the playback flags
var prefKeys = map[string]string{
	"width":      "playback.width",
	"height":     "playback.height",
	"background": "playback.background",
	"fpscap":     "playback.fpscap",
	"delays":     "playback.delays",
	"loop":       "playback.loop",
}

func addPlaybackFlags(md *modalflag.Modes) *playbackFlags {
	return &playbackFlags{
		width:      md.AddInt("width", 0, "width of drawing surface (overrides preference)"),
		height:     md.AddInt("height", 0, "height of drawing surface (overrides preference)"),
		background: md.AddString("background", "", "colour of the letterbox margins as #rrggbb (overrides preference)"),
		fpsCap:     md.AddInt("fpscap", 0, "maximum frames per second, 0 for no limit (overrides preference)"),
		delays:     md.AddBool("delays", false, "honour the frame delays of the animation (overrides preference)"),
		loop:       md.AddBool("loop", false, "repeat the animation as the file requests (overrides preference)"),
		prefs:      md.AddString("prefs", "", "preferences for this session. eg. \"playback.loop::true; playback.fpscap::30\""),
		savePrefs:  md.AddBool("saveprefs", false, "save the preferences as they are for this session"),
		log:        md.AddBool("log", false, "echo debugging log to stdout"),
	}
}

// preferences loads the playback preferences. the playback flags and the
// -prefs flag are applied through the command line preference stack
func (f *playbackFlags) preferences(md *modalflag.Modes) (*playback.Preferences, error) {
	cl := []string{*f.prefs}
	md.Visit(func(name string) {
		key, ok := prefKeys[name]
		if !ok {
			return
		}
		var v any
		switch name {
		case "width":
			v = *f.width
		case "height":
			v = *f.height
		case "background":
			v = *f.background
		case "fpscap":
			v = *f.fpsCap
		case "delays":
			v = *f.delays
		case "loop":
			v = *f.loop
		}
		cl = append(cl, fmt.Sprintf("%s::%v", key, v))
	})

	prefs.PushCommandLineStack(strings.Join(cl, "; "))
	p, err := playback.NewPreferences()
	unused := prefs.PopCommandLineStack()
	if err != nil {
		return nil, err
	}
	if unused != "" {
		logger.Logf(logger.Allow, "prefs", "unused command line preferences: %s", unused)
	}

	if *f.savePrefs {
		err = p.Save()
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// animationArg opens the single animation file named on the command line
func animationArg(md *modalflag.Modes) (*animation.Animation, string, error) {
	switch len(md.RemainingArgs()) {
	case 0:
		return nil, "", fmt.Errorf("animation file required for %s mode", md)
	case 1:
	default:
		return nil, "", fmt.Errorf("too many arguments for %s mode", md)
	}

	fn := md.GetArg(0)
	anim, err := animation.Open(fn)
	if err != nil {
		return nil, "", err
	}
	return anim, fn, nil
}

// interactive runs the player for the PLAY and TERM modes. the presenter is
// decorated with a recorder if required and the animation file is watched if
// required
func interactive(sync *mainSync, pres gui.Presenter, anim *animation.Animation, fn string, p *playback.Preferences, record string, watch bool) (rerr error) {
	var gw *gifwriter.GIFWriter
	if record != "" {
		if record == "auto" {
			record = fmt.Sprintf("%s.gif", paths.UniqueFilename("recording", fn))
		}

		var err error
		gw, err = gifwriter.New(pres, record)
		if err != nil {
			return err
		}
		gw.SetFallbackDelay(time.Second / time.Duration(max(1, p.FPSCap.Get().(int))))
		if p.Loop.Get().(bool) && anim.Plays == animation.Forever {
			gw.SetLoopCount(0)
		} else {
			gw.SetLoopCount(-1)
		}
		pres = gw

		defer func() {
			err := gw.End()
			if err != nil && rerr == nil {
				rerr = err
			}
		}()
	}

	pl, err := playback.NewPlayer(pres, anim, p)
	if err != nil {
		return err
	}

	// ctrl-c ends playback in the normal way so that any recording is
	// completed and the terminal is restored
	sync.state <- stateRequest{req: reqIntHandler, args: pl.Quit}
	defer func() {
		sync.state <- stateRequest{req: reqIntHandler}
	}()

	if watch {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		w, err := watcher.NewWatcher(ctx, fn, watcher.Debounce, pl.Reload)
		if err != nil {
			return err
		}
		defer w.Close()
	}

	return pl.Run()
}

func play(md *modalflag.Modes, sync *mainSync) error {
	md.NewMode()

	pf := addPlaybackFlags(md)
	fullScreen := md.AddBool("fullscreen", false, "start in full screen mode")
	record := md.AddString("record", "", "record playback to a GIF file. \"auto\" chooses a unique filename")
	watch := md.AddBool("watch", false, "reload the animation when the file changes")
	var stats *bool
	if statsview.Available() {
		stats = md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))
	}

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *pf.log {
		logger.SetEcho(os.Stdout, true)
	} else {
		logger.SetEcho(nil, false)
	}

	anim, fn, err := animationArg(md)
	if err != nil {
		return err
	}

	prf, err := pf.preferences(md)
	if err != nil {
		return err
	}

	if stats != nil && *stats {
		stop := statsview.Launch(os.Stdout)
		defer stop()
	}

	// create gui
	title := fmt.Sprintf("%s - %s", version.Title(), filepath.Base(fn))
	width := prf.Width.Get().(int)
	height := prf.Height.Get().(int)
	sync.creator <- func() (GuiCreator, error) {
		return sdlplay.NewSdlPlay(title, width, height)
	}

	// wait for creator result
	var scr *sdlplay.SdlPlay
	select {
	case g := <-sync.creation:
		scr = g.(*sdlplay.SdlPlay)
	case err := <-sync.creationError:
		return err
	}

	if *fullScreen {
		err = scr.SetFeature(gui.ReqFullScreen, true)
		if err != nil {
			return err
		}
	}

	return interactive(sync, scr, anim, fn, prf, *record, *watch)
}

func term(md *modalflag.Modes, sync *mainSync) (rerr error) {
	md.NewMode()

	pf := addPlaybackFlags(md)
	record := md.AddString("record", "", "record playback to a GIF file. \"auto\" chooses a unique filename")
	watch := md.AddBool("watch", false, "reload the animation when the file changes")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	// echoing the log would corrupt the display. the log is written once the
	// terminal has been restored
	logger.SetEcho(nil, false)
	if *pf.log {
		defer logger.Write(os.Stdout)
	}

	anim, fn, err := animationArg(md)
	if err != nil {
		return err
	}

	prf, err := pf.preferences(md)
	if err != nil {
		return err
	}

	scr, err := termplay.NewTermPlay(nil)
	if err != nil {
		return err
	}
	defer scr.Destroy()

	err = scr.SetFeature(gui.ReqSetTitle, fmt.Sprintf("%s - %s", version.Title(), filepath.Base(fn)))
	if err != nil {
		return err
	}

	return interactive(sync, scr, anim, fn, prf, *record, *watch)
}

func digest(md *modalflag.Modes) error {
	md.NewMode()

	pf := addPlaybackFlags(md)
	frames := md.AddInt("frames", 0, "maximum number of frames to present. 0 for no maximum")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *pf.log {
		logger.SetEcho(os.Stdout, true)
	}

	anim, _, err := animationArg(md)
	if err != nil {
		return err
	}

	prf, err := pf.preferences(md)
	if err != nil {
		return err
	}

	// the digest is of the presented frames and not of the timing
	hash, err := regression.Digest(anim, prf, *frames)
	if err != nil {
		return err
	}

	fmt.Println(hash)

	return nil
}

func info(md *modalflag.Modes) error {
	md.NewMode()

	pf := addPlaybackFlags(md)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *pf.log {
		logger.SetEcho(os.Stdout, true)
	}

	// a directory or archive is listed rather than described
	if len(md.RemainingArgs()) == 1 {
		var afs archivefs.Path
		err := afs.Set(md.GetArg(0))
		if err == nil && afs.IsDir() {
			defer afs.Close()
			return listAnimations(&afs)
		}
		afs.Close()
	}

	anim, fn, err := animationArg(md)
	if err != nil {
		return err
	}

	prf, err := pf.preferences(md)
	if err != nil {
		return err
	}

	w := prf.Width.Get().(int)
	h := prf.Height.Get().(int)

	fmt.Printf("file: %s\n", fn)
	fmt.Printf("format: %s\n", anim.Format)
	fmt.Printf("canvas: %dx%d\n", anim.Width, anim.Height)
	fmt.Printf("frames: %d\n", len(anim.Frames))
	if anim.IsAnimated() {
		if anim.Plays == animation.Forever {
			fmt.Println("plays: forever")
		} else {
			fmt.Printf("plays: %d\n", anim.Plays)
		}
		fmt.Printf("duration: %v\n", anim.Duration())
	}
	fmt.Printf("fit in %dx%d: %s\n", w, h, compositor.Fit(anim.Width, anim.Height, w, h))

	return nil
}

// listAnimations prints a summary of every entry in the directory or archive
func listAnimations(afs *archivefs.Path) error {
	ent, err := afs.List()
	if err != nil {
		return err
	}

	for _, e := range ent {
		if e.IsDir {
			fmt.Printf("%s/\n", e.Name)
			continue
		}

		anim, err := animation.Open(filepath.Join(afs.String(), e.Name))
		if err != nil {
			fmt.Printf("%s: not an animation\n", e.Name)
			continue
		}

		fmt.Printf("%s: %s %dx%d %d frames\n", e.Name, anim.Format, anim.Width, anim.Height, len(anim.Frames))
	}

	return nil
}

func perform(md *modalflag.Modes) error {
	md.NewMode()

	pf := addPlaybackFlags(md)
	duration := md.AddDuration("duration", 5*time.Second, "run duration")
	var profile performance.Profile
	md.AddVar(&profile, "profile", "run performance check with profiling: cpu, mem, trace, all (comma separated)")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *pf.log {
		logger.SetEcho(os.Stdout, true)
	}

	anim, _, err := animationArg(md)
	if err != nil {
		return err
	}

	prf, err := pf.preferences(md)
	if err != nil {
		return err
	}

	hd, err := headless.NewHeadless(prf.Width.Get().(int), prf.Height.Get().(int), false)
	if err != nil {
		return err
	}

	return performance.Check(os.Stdout, profile, hd, anim, prf, *duration)
}

func showVersion(md *modalflag.Modes) error {
	md.NewMode()

	revision := md.AddBool("revision", false, "display revision information")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return errors.New("too many arguments")
	}

	v, r, _ := version.Version()
	fmt.Printf("%s %s\n", version.ApplicationName, v)
	if *revision {
		fmt.Println(r)
	}

	return nil
}

func regress(md *modalflag.Modes) error {
	md.NewMode()
	md.AddSubModes("RUN", "LIST", "DELETE", "ADD")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	pth, err := paths.ResourcePath("regression", "db")
	if err != nil {
		return err
	}
	rdb := regression.NewDatabase(pth)

	switch md.Mode() {
	case "RUN":
		md.NewMode()

		verbose := md.AddBool("verbose", false, "output more detail")
		failOnError := md.AddBool("fail", false, "fail on error")

		p, err := md.Parse()
		if err != nil || p != modalflag.ParseContinue {
			return err
		}

		return rdb.Run(md.Output, *verbose, *failOnError, md.RemainingArgs())

	case "LIST":
		md.NewMode()

		p, err := md.Parse()
		if err != nil || p != modalflag.ParseContinue {
			return err
		}

		if len(md.RemainingArgs()) > 0 {
			return fmt.Errorf("no additional arguments required for %s mode", md)
		}

		return rdb.List(md.Output)

	case "DELETE":
		md.NewMode()

		answerYes := md.AddBool("yes", false, "answer yes to confirmation")

		p, err := md.Parse()
		if err != nil || p != modalflag.ParseContinue {
			return err
		}

		switch len(md.RemainingArgs()) {
		case 0:
			return fmt.Errorf("database key required for %s mode", md)
		case 1:
			var confirmation io.Reader = os.Stdin
			if *answerYes {
				confirmation = nil
			}
			return rdb.Delete(md.Output, confirmation, md.GetArg(0))
		default:
			return fmt.Errorf("only one entry can be deleted at a time")
		}

	case "ADD":
		md.NewMode()
		md.AdditionalHelp("The digest is taken with no FPS cap and without honouring frame delays.")

		width := md.AddInt("width", 320, "width of drawing surface")
		height := md.AddInt("height", 240, "height of drawing surface")
		background := md.AddString("background", "#000000", "colour of the letterbox margins as #rrggbb")
		loop := md.AddBool("loop", false, "repeat the animation as many times as the file requests")
		frames := md.AddInt("frames", 0, "maximum number of frames to present. 0 for no maximum")
		notes := md.AddString("notes", "", "additional annotation for the entry")

		p, err := md.Parse()
		if err != nil || p != modalflag.ParseContinue {
			return err
		}

		switch len(md.RemainingArgs()) {
		case 0:
			return fmt.Errorf("animation file required for %s mode", md)
		case 1:
		default:
			return fmt.Errorf("only one animation can be added at a time")
		}

		filename, err := filepath.Abs(md.GetArg(0))
		if err != nil {
			return err
		}

		return rdb.Add(md.Output, &regression.DigestEntry{
			Filename:   filename,
			Width:      *width,
			Height:     *height,
			Background: *background,
			Loop:       *loop,
			Frames:     *frames,
			Notes:      *notes,
		})
	}

	return nil
}
