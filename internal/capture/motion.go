package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

const (
	// analysisWidth is the width frames are shrunk to before differencing.
	// Narrower frames are used as they are.
	analysisWidth = 160
	blurKernel    = 7
	diffThreshold = 25
)

// MotionSensor reports whether a frame differs from the previous one.
type MotionSensor interface {
	Detect(frame *gocv.Mat) (bool, float64)
	Reset()
	Close()
}

// MotionDetector compares each frame with the previous one using blurred
// grayscale differencing. Motion gates the hand detector so an empty
// scene costs one cheap OpenCV pass per frame instead of a model call.
type MotionDetector struct {
	mu          sync.Mutex
	threshold   float64
	prevGray    gocv.Mat
	initialized bool
}

// NewMotionDetector creates a MotionDetector. threshold is the percentage
// of changed pixels above which a frame counts as motion.
func NewMotionDetector(threshold float64) *MotionDetector {
	return &MotionDetector{threshold: threshold, prevGray: gocv.NewMat()}
}

// Detect returns whether frame moved relative to the previous frame and
// the percentage of changed pixels. The first frame only sets the
// baseline, as does a frame whose size differs from the baseline's.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	cur := prepare(*frame)
	defer cur.Close()

	if !m.initialized || !sameSize(cur, m.prevGray) {
		cur.CopyTo(&m.prevGray)
		m.initialized = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(cur, m.prevGray, &diff)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(diff, &mask, diffThreshold, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(mask)) / float64(mask.Rows()*mask.Cols()) * 100
	cur.CopyTo(&m.prevGray)

	return changed > m.threshold, changed
}

// prepare shrinks frame to analysisWidth, converts it to grayscale and
// blurs it. The caller owns the result.
func prepare(frame gocv.Mat) gocv.Mat {
	small := gocv.NewMat()
	defer small.Close()
	if frame.Cols() > analysisWidth {
		rows := frame.Rows() * analysisWidth / frame.Cols()
		if rows < 1 {
			rows = 1
		}
		gocv.Resize(frame, &small, image.Point{X: analysisWidth, Y: rows}, 0, 0, gocv.InterpolationArea)
	} else {
		frame.CopyTo(&small)
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if small.Channels() > 1 {
		gocv.CvtColor(small, &gray, gocv.ColorBGRToGray)
	} else {
		small.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: blurKernel, Y: blurKernel}, 0, 0, gocv.BorderDefault)
	return blurred
}

func sameSize(a, b gocv.Mat) bool {
	return a.Rows() == b.Rows() && a.Cols() == b.Cols()
}

// Reset drops the baseline so the next frame starts a new comparison.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clear()
}

// Close releases the baseline Mat. It is safe to call more than once.
func (m *MotionDetector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clear()
}

func (m *MotionDetector) clear() {
	if !m.prevGray.Empty() {
		m.prevGray.Close()
		m.prevGray = gocv.NewMat()
	}
	m.initialized = false
}

// SetThreshold changes the threshold. Non-positive values are ignored.
func (m *MotionDetector) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.threshold = threshold
}

// Threshold returns the current threshold.
func (m *MotionDetector) Threshold() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.threshold
}
