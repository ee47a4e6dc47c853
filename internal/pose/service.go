package pose

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/sampathk123/RepWise/internal/log"
)

// idleTimeout is how long the pose service may sit unused before it is stopped.
const idleTimeout = 30 * time.Second

// Keypoint layouts reported by the pose service.
const (
	LayoutMediaPipe = "mediapipe33"
	LayoutCOCO      = "coco17"
)

// layoutIndices maps each canonical joint to its index in a backend layout.
var layoutIndices = map[string][NumJoints]int{
	LayoutMediaPipe: {0, 11, 12, 13, 14, 15, 16, 23, 24, 25, 26, 27, 28},
	LayoutCOCO:      {0, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
}

// ServiceDetector implements Detector using a Python pose service subprocess.
// Calls are serialized, so one instance can be shared between sessions.
type ServiceDetector struct {
	config     Config
	scriptPath string
	cmd        *exec.Cmd
	stdin      io.WriteCloser
	stdout     *bufio.Reader
	mu         sync.Mutex
	started    bool
	lastUsed   time.Time
	idleTimer  *time.Timer
}

// NewServiceDetector creates a new pose service detector.
// The Python process is started lazily on first detection.
func NewServiceDetector(config Config) (*ServiceDetector, error) {
	if config.Backend == "" {
		config.Backend = BackendMediaPipe
	}
	if config.Backend != BackendMediaPipe && config.Backend != BackendYOLO {
		return nil, fmt.Errorf("unknown pose backend %q", config.Backend)
	}

	scriptPath := config.ScriptPath
	if scriptPath == "" {
		scriptPath = findPoseScript()
	}
	if scriptPath == "" {
		return nil, fmt.Errorf("pose_service.py not found: %w", ErrDetectorUnavailable)
	}

	return &ServiceDetector{
		config:     config,
		scriptPath: scriptPath,
	}, nil
}

// Detect analyzes a frame and returns the detected poses.
func (d *ServiceDetector) Detect(frame *gocv.Mat) ([]Pose, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureStarted(); err != nil {
		return nil, err
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()

	// Write length (4 bytes big-endian) + data
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := d.stdin.Write(length); err != nil {
		d.abort()
		return nil, fmt.Errorf("write length: %w", err)
	}
	if _, err := d.stdin.Write(data); err != nil {
		d.abort()
		return nil, fmt.Errorf("write data: %w", err)
	}

	line, err := d.stdout.ReadBytes('\n')
	if err != nil {
		d.abort()
		return nil, fmt.Errorf("read response: %w", err)
	}

	poses, err := ParseResponse(line)
	if err != nil {
		return nil, err
	}
	for i := range poses {
		poses[i].SetFrameSize(frame.Cols(), frame.Rows())
	}

	d.lastUsed = time.Now()
	d.resetIdleTimer()

	return poses, nil
}

// Close shuts down the Python process.
func (d *ServiceDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

func (d *ServiceDetector) ensureStarted() error {
	if d.started {
		return nil
	}

	pythonPath := d.config.PythonPath
	if pythonPath == "" {
		pythonPath = findVenvPython()
	}
	if pythonPath == "" {
		pythonPath = "python3"
	}

	minConf := d.config.MinConfidence
	if minConf <= 0 {
		minConf = DefaultConfig().MinConfidence
	}

	d.cmd = exec.Command(pythonPath, d.scriptPath,
		"--backend", string(d.config.Backend),
		"--min-confidence", strconv.FormatFloat(minConf, 'f', 2, 64),
	)

	stdin, err := d.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	d.cmd.Stderr = os.Stderr

	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("start pose service: %w", err)
	}

	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true
	d.lastUsed = time.Now()

	log.Info("pose service started", "backend", d.config.Backend, "script", d.scriptPath)
	return nil
}

// abort tears the subprocess down after a broken pipe so the next call restarts it.
func (d *ServiceDetector) abort() {
	if d.cmd != nil && d.cmd.Process != nil {
		d.cmd.Process.Kill()
	}
	if err := d.shutdown(); err != nil {
		log.Debug("pose service exited", "error", err)
	}
}

func (d *ServiceDetector) shutdown() error {
	if !d.started {
		return nil
	}

	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}

	if d.stdin != nil {
		d.stdin.Close()
	}

	err := d.cmd.Wait()
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil

	return err
}

func (d *ServiceDetector) resetIdleTimer() {
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
	d.idleTimer = time.AfterFunc(idleTimeout, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if err := d.shutdown(); err != nil {
			log.Debug("idle pose service shutdown", "error", err)
		}
	})
}

// ParseResponse decodes one JSON line from the pose service into poses.
func ParseResponse(line []byte) ([]Pose, error) {
	var response jsonResponse
	if err := json.Unmarshal(line, &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	indices, ok := layoutIndices[response.Layout]
	if !ok {
		return nil, fmt.Errorf("unknown keypoint layout %q", response.Layout)
	}

	result := make([]Pose, len(response.People))
	for i, person := range response.People {
		result[i] = person.toPose(indices, response.Layout == LayoutMediaPipe)
	}

	return result, nil
}

func findPoseScript() string {
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/pose_service.py",
		"../scripts/pose_service.py",
		"../../scripts/pose_service.py",
		filepath.Join(execDir, "scripts/pose_service.py"),
		filepath.Join(os.Getenv("HOME"), ".repwise/scripts/pose_service.py"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// findVenvPython looks for a Python interpreter in a virtual environment.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		"../../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".repwise/venv/bin/python"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// jsonResponse represents one reply line from the pose service.
type jsonResponse struct {
	Layout string       `json:"layout"`
	People []jsonPerson `json:"people"`
}

type jsonPerson struct {
	Score     float64    `json:"score"`
	Landmarks []Landmark `json:"landmarks"`
}

func (p jsonPerson) toPose(indices [NumJoints]int, hasDepth bool) Pose {
	pose := Pose{
		Score:    p.Score,
		HasDepth: hasDepth,
	}

	for j := Joint(0); j < NumJoints; j++ {
		idx := indices[j]
		if idx < len(p.Landmarks) {
			pose.Landmarks[j] = p.Landmarks[idx]
		}
	}

	return pose
}
