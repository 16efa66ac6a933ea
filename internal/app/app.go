// Package app wires camera, detector and the gesture session into a frame
// loop and fans each frame's output out to subscribers and the store.
package app

import (
	"log"
	"sync"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/timeutil"
	"github.com/ayusman/mudra/internal/transform"
)

// Options configures an App. Nil collaborators get real implementations.
type Options struct {
	Config   config.Config
	Store    *store.Store
	Camera   capture.Camera
	Motion   capture.MotionSensor
	Detector detector.Detector
	Clock    timeutil.Clock
}

// App is the main application that runs the gesture pipeline.
type App struct {
	mu       sync.RWMutex
	cfg      config.Config
	pending  *config.Config
	store    *store.Store
	camera   capture.Camera
	motion   capture.MotionSensor
	detector detector.Detector
	clock    timeutil.Clock
	pacer    *capture.Pacer

	catalog      gesture.Catalog
	interactions map[gesture.Name]transform.Kind

	session   *Session
	sessionID string
	last      Output

	subscribers map[int]func(Output)
	nextSub     int

	enabled bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates an App. It does not touch the camera until Start.
func New(opts Options) *App {
	a := &App{
		cfg:          opts.Config,
		store:        opts.Store,
		camera:       opts.Camera,
		motion:       opts.Motion,
		detector:     opts.Detector,
		clock:        opts.Clock,
		subscribers:  make(map[int]func(Output)),
		enabled:      true,
		catalog:      gesture.DefaultCatalog(),
		interactions: transform.DefaultInteractions(),
	}

	if a.clock == nil {
		a.clock = timeutil.RealClock{}
	}
	if a.camera == nil {
		a.camera = capture.NewCamera(a.cfg.Capture)
	}
	if a.motion == nil {
		a.motion = capture.NewMotionDetector(a.cfg.Capture.MotionThreshold)
	}
	if a.detector == nil {
		// Try MediaPipe first, fall back to mock detector
		if mp, err := detector.NewMediaPipeDetector(a.cfg.Detector); err == nil {
			a.detector = mp
			log.Println("Using MediaPipe hand detection")
		} else {
			log.Printf("MediaPipe not available (%v), using mock detector", err)
			a.detector = detector.NewMockDetector()
		}
	}
	a.pacer = capture.NewPacer(a.cfg.Capture, a.clock)
	a.session = NewSession(a.cfg, a.clock)

	return a
}

// SetEnabled pauses or resumes frame processing without closing the camera.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether frames are being processed.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// IsRunning returns whether the frame loop is running.
func (a *App) IsRunning() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stopCh != nil
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Config returns the effective configuration.
func (a *App) Config() config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg
}

// SetConfig queues cfg; the loop applies it between frames. The facing
// mode only takes effect at the next Start.
func (a *App) SetConfig(cfg config.Config) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cfg = cfg
	a.pending = &cfg
}

// Subscribe registers fn to receive every frame's output from the loop
// goroutine. fn must not block. The returned func unsubscribes.
func (a *App) Subscribe(fn func(Output)) func() {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextSub
	a.nextSub++
	a.subscribers[id] = fn

	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.subscribers, id)
	}
}

// Status returns the latest status signal.
func (a *App) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.last.Status
}

// SessionID returns the store id of the running session, if any.
func (a *App) SessionID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sessionID
}

// Catalog returns the recognized gestures in priority order.
func (a *App) Catalog() gesture.Catalog {
	return a.catalog
}

// Interaction returns the interaction g drives.
func (a *App) Interaction(g gesture.Name) transform.Kind {
	return a.interactions[g]
}

// Start opens the camera, begins a new session and starts the frame loop.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(a.pacer.FPS())

	a.pending = nil
	a.session = NewSession(a.cfg, a.clock)
	a.sessionID = ""
	if a.store != nil {
		sess, err := a.store.Sessions().Start(string(a.cfg.Facing), a.cfg.Capture.CameraID)
		if err != nil {
			log.Printf("Failed to record session start: %v", err)
		} else {
			a.sessionID = sess.ID
		}
	}

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	log.Printf("Gesture pipeline started (facing %s)", a.cfg.Facing)
	return nil
}

// Stop halts the frame loop, waits for it to exit and releases the camera.
// The detector stays usable for a later Start; Close releases it.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, doneCh := a.stopCh, a.doneCh
	a.stopCh, a.doneCh = nil, nil
	a.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-doneCh

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	a.motion.Reset()

	a.mu.Lock()
	id := a.sessionID
	a.mu.Unlock()
	if a.store != nil && id != "" {
		if err := a.store.Sessions().End(id); err != nil {
			log.Printf("Failed to record session end: %v", err)
		}
	}

	log.Println("Gesture pipeline stopped")
}

// Close stops the loop and releases the motion sensor and detector.
func (a *App) Close() {
	a.Stop()
	a.motion.Close()
	if d := a.Detector(); d != nil {
		if err := d.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}
}
