// Package monitoring turns a running Simulator into an HTTP server that an
// external dashboard or operator can poll and control, without the core
// itself knowing anything about HTTP (spec.md §1, "Out of scope").
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	// Enables the runtime's own profiling endpoints alongside ours.
	_ "net/http/pprof"

	"github.com/fulcrumsim/desim/desim"
	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/rs/xid"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// Monitor exposes a Simulator's control surface and object state over HTTP.
type Monitor struct {
	sim        *desim.Simulator
	portNumber int

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a Monitor with no Simulator registered yet.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port the HTTP server binds to. Ports below 1000
// are rejected in favor of a random port, matching the restriction
// operators expect from a development tool.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterSimulator attaches the Simulator this Monitor controls and
// inspects.
func (m *Monitor) RegisterSimulator(sim *desim.Simulator) {
	m.sim = sim
}

// CreateProgressBar creates a new progress bar, shown at /api/progress until
// CompleteProgressBar removes it.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        xid.New().String(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes bar from the set shown at /api/progress.
func (m *Monitor) CompleteProgressBar(bar *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != bar {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// StartServer starts the HTTP server in the background and returns once it
// is listening.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()
	r.HandleFunc("/api/pause", m.pauseSimulator)
	r.HandleFunc("/api/continue", m.continueSimulator)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/objects", m.listObjects)
	r.HandleFunc("/api/object/{name}", m.objectDetail)
	r.HandleFunc("/api/field/{json}", m.objectFieldValue)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	http.Handle("/", r)

	actualPort := ":0"
	if m.portNumber >= 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	fmt.Fprintf(
		os.Stderr,
		"Monitoring simulation at http://localhost:%d\n",
		listener.Addr().(*net.TCPAddr).Port)

	go func() {
		err := http.Serve(listener, nil)
		dieOnErr(err)
	}()
}

func (m *Monitor) pauseSimulator(w http.ResponseWriter, _ *http.Request) {
	m.sim.Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) continueSimulator(w http.ResponseWriter, _ *http.Request) {
	m.sim.Continue()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "{\"now\":%.10f}", m.sim.CurrentTime())
}

func (m *Monitor) listObjects(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "[")

	for i, obj := range m.sim.Objects() {
		if i > 0 {
			fmt.Fprint(w, ",")
		}

		fmt.Fprintf(w, "%q", obj.Name())
	}

	fmt.Fprint(w, "]")
}

// objectDetail dumps the requested object's user-owned State, one level
// deep, using the same reflective serializer the rest of the pack uses for
// ad hoc component inspection.
func (m *Monitor) objectDetail(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	obj := m.findObjectOr404(w, name)
	if obj == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(obj.State)
	serializer.SetMaxDepth(1)

	dieOnErr(serializer.Serialize(w))
}

type fieldReq struct {
	ObjectName string `json:"object_name,omitempty"`
	FieldName  string `json:"field_name,omitempty"`
}

func (m *Monitor) objectFieldValue(w http.ResponseWriter, r *http.Request) {
	jsonString := mux.Vars(r)["json"]
	req := fieldReq{}

	if err := json.Unmarshal([]byte(jsonString), &req); err != nil {
		dieOnErr(err)
	}

	obj := m.findObjectOr404(w, req.ObjectName)
	if obj == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(obj.State)
	serializer.SetMaxDepth(1)

	dieOnErr(serializer.SetEntryPoint(splitFields(req.FieldName)))
	dieOnErr(serializer.Serialize(w))
}

func splitFields(s string) []string {
	var out []string
	start := 0

	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}

	return append(out, s[start:])
}

func (m *Monitor) findObjectOr404(
	w http.ResponseWriter,
	name string,
) *desim.SimulationObject {
	obj, ok := m.sim.Object(name)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("object not found"))
		dieOnErr(err)

		return nil
	}

	return obj
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	bars := m.progressBars
	m.progressBarsLock.Unlock()

	data, err := json.Marshal(bars)
	dieOnErr(err)

	_, err = w.Write(data)
	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memorySize, err := proc.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{CPUPercent: cpuPercent, MemorySize: memorySize.RSS}

	data, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(data)
	dieOnErr(err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	dieOnErr(pprof.StartCPUProfile(buf))
	time.Sleep(time.Second)
	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	data, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(data)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
