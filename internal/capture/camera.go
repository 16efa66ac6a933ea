// Package capture reads frames from a camera with GoCV and decides how fast
// to read them.
package capture

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"gocv.io/x/gocv"
)

var (
	// ErrCameraNotOpen is returned when reading from a camera that is not open.
	ErrCameraNotOpen = errors.New("camera is not open")
	// ErrEmptyFrame is returned when the device delivers no image.
	ErrEmptyFrame = errors.New("captured frame is empty")
)

// Camera is a frame source. ReadFrame hands ownership of the Mat to the
// caller, who must Close it.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	SetFPS(fps int)
	FPS() int
	IsOpen() bool
}

// maxEmptyReads is how many consecutive empty reads make the camera drop
// and reopen its device.
const maxEmptyReads = 5

// videoSource is the part of gocv.VideoCapture the camera uses.
type videoSource interface {
	Read(m *gocv.Mat) bool
	Set(prop gocv.VideoCaptureProperties, param float64)
	Close() error
}

func openDevice(id int) (videoSource, error) {
	vc, err := gocv.OpenVideoCapture(id)
	if err != nil {
		return nil, err
	}
	return vc, nil
}

// deviceCamera reads from a local capture device. A device that keeps
// returning empty frames, as USB cameras do after being unplugged and
// replugged, is released and opened again on a later read.
type deviceCamera struct {
	cfg     Config
	open    func(id int) (videoSource, error)
	source  videoSource
	mu      sync.Mutex
	running bool
	fps     int
	empty   int
}

// NewCamera creates a Camera for cfg.CameraID. It starts at cfg.IdleFPS.
func NewCamera(cfg Config) Camera {
	return &deviceCamera{cfg: cfg, open: openDevice, fps: cfg.IdleFPS}
}

// Open opens the device at the configured resolution.
func (c *deviceCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}
	if err := c.attach(); err != nil {
		return err
	}
	c.running = true
	return nil
}

// attach opens the device and applies resolution and rate.
func (c *deviceCamera) attach() error {
	src, err := c.open(c.cfg.CameraID)
	if err != nil {
		return fmt.Errorf("open camera %d: %w", c.cfg.CameraID, err)
	}

	src.Set(gocv.VideoCaptureFrameWidth, float64(c.cfg.Width))
	src.Set(gocv.VideoCaptureFrameHeight, float64(c.cfg.Height))
	src.Set(gocv.VideoCaptureFPS, float64(c.fps))

	c.source = src
	c.empty = 0
	return nil
}

func (c *deviceCamera) detach() error {
	if c.source == nil {
		return nil
	}
	err := c.source.Close()
	c.source = nil
	return err
}

// Close releases the device. Closing a closed camera is a no-op.
func (c *deviceCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.running = false
	return c.detach()
}

// ReadFrame grabs one frame. After maxEmptyReads empty frames in a row the
// device is released, and the next read tries to open it again.
func (c *deviceCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil, ErrCameraNotOpen
	}
	if c.source == nil {
		if err := c.attach(); err != nil {
			return nil, err
		}
		log.Printf("Camera %d reopened", c.cfg.CameraID)
	}

	mat := gocv.NewMat()
	if ok := c.source.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		c.empty++
		if c.empty >= maxEmptyReads {
			log.Printf("Camera %d returned %d empty frames, releasing device", c.cfg.CameraID, c.empty)
			if err := c.detach(); err != nil {
				log.Printf("Error releasing camera %d: %v", c.cfg.CameraID, err)
			}
		}
		return nil, ErrEmptyFrame
	}
	c.empty = 0
	return &mat, nil
}

// SetFPS changes the capture rate. Non-positive values are ignored.
func (c *deviceCamera) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.fps = fps
	if c.source != nil {
		c.source.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

func (c *deviceCamera) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fps
}

func (c *deviceCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}
