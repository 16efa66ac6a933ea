package app

import (
	"log"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/timeutil"
)

// runPipeline is the frame loop. Each tick it:
//  1. applies a pending config
//  2. reads a frame and feeds the motion result to the pacer, switching
//     between idle and active rates
//  3. while active, runs the hand detector and the session
//  4. publishes the output to the store and subscribers
//
// Frames are handled strictly one at a time; a slow frame delays the next
// tick instead of overlapping it.
func (a *App) runPipeline(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := a.clock.NewTicker(capture.FrameInterval(a.pacer.FPS()))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			a.applyPendingConfig()
			if !a.IsEnabled() {
				continue
			}
			a.step(ticker)
		}
	}
}

func (a *App) step(ticker timeutil.Ticker) {
	frame, err := a.camera.ReadFrame()
	if err != nil {
		log.Printf("Error reading frame: %v", err)
		a.publish(a.session.Unusable())
		return
	}
	defer frame.Close()

	moving, _ := a.motion.Detect(frame)
	if fps, changed := a.pacer.Observe(moving); changed {
		a.camera.SetFPS(fps)
		ticker.Reset(capture.FrameInterval(fps))
		if a.pacer.Active() {
			log.Println("Switched to active mode")
		} else {
			log.Println("Switched to idle mode")
			a.session.ForgetPrevious()
		}
	}

	d := a.Detector()
	if !a.pacer.Active() || d == nil {
		return
	}

	hands, err := d.Detect(frame)
	if err != nil {
		log.Printf("Error detecting hands: %v", err)
		a.publish(a.session.Unusable())
		return
	}

	obs := Observation{Present: len(hands) > 0}
	if obs.Present {
		obs.Landmarks = hands[0].Points
	}
	a.publish(a.session.Process(obs))
}

func (a *App) applyPendingConfig() {
	a.mu.Lock()
	cfg := a.pending
	a.pending = nil
	a.mu.Unlock()

	if cfg == nil {
		return
	}
	a.session.Reconfigure(*cfg)
	a.pacer.SetConfig(cfg.Capture)
	if md, ok := a.motion.(*capture.MotionDetector); ok {
		md.SetThreshold(cfg.Capture.MotionThreshold)
	}
	log.Println("Applied new configuration")
}

func (a *App) publish(out Output) {
	a.mu.Lock()
	a.last = out
	subs := make([]func(Output), 0, len(a.subscribers))
	for _, fn := range a.subscribers {
		subs = append(subs, fn)
	}
	sessionID := a.sessionID
	a.mu.Unlock()

	if a.store != nil && sessionID != "" {
		a.record(sessionID, out)
	}
	for _, fn := range subs {
		fn(out)
	}
}

// record persists transitions and reset firings.
func (a *App) record(sessionID string, out Output) {
	var events []*store.Event

	if tr := out.Transition; tr != nil {
		kind := store.EventCommit
		if !out.HandPresent {
			kind = store.EventLost
		}
		events = append(events, &store.Event{
			SessionID: sessionID,
			Kind:      kind,
			Gesture:   string(tr.To),
			Previous:  string(tr.From),
			HeldMs:    tr.Held.Milliseconds(),
			CreatedAt: tr.At,
		})
	}
	if out.ResetFired {
		events = append(events, &store.Event{
			SessionID: sessionID,
			Kind:      store.EventReset,
			Gesture:   string(out.Status.Gesture),
			HeldMs:    out.Status.HeldMs,
			CreatedAt: out.At,
		})
	}

	for _, e := range events {
		if err := a.store.Events().Record(e); err != nil {
			log.Printf("Failed to record %s event: %v", e.Kind, err)
		}
	}
}
