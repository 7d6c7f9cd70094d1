// Package monitoring serves the state of a running kernel over HTTP.
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
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/sarchlab/userkernel/sim"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// A FrameCounter reports the size of a frame inventory.
type FrameCounter interface {
	sim.Named
	NumFrames() int
	NumFree() int
}

// An EventCounter reports how many times each event happened.
type EventCounter interface {
	Counts() map[string]uint64
}

// Monitor turns a running kernel into a server that reports its state.
type Monitor struct {
	portNumber      int
	openBrowser     bool
	profileDuration time.Duration

	lock          sync.Mutex
	components    []sim.Named
	frameCounters []FrameCounter
	eventCounters map[string]EventCounter
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		profileDuration: time.Second,
		eventCounters:   make(map[string]EventCounter),
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowser makes StartServer open the monitor in a browser.
func (m *Monitor) WithBrowser(open bool) *Monitor {
	m.openBrowser = open
	return m
}

// WithProfileDuration sets how long /api/profile samples the CPU.
func (m *Monitor) WithProfileDuration(d time.Duration) *Monitor {
	m.profileDuration = d
	return m
}

// RegisterComponent registers a component to be inspected.
func (m *Monitor) RegisterComponent(c sim.Named) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.components = append(m.components, c)
}

// RegisterFrameCounter registers a frame inventory to be reported.
func (m *Monitor) RegisterFrameCounter(c FrameCounter) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.frameCounters = append(m.frameCounters, c)
}

// RegisterEventCounter registers event counts to be reported under a name.
func (m *Monitor) RegisterEventCounter(name string, c EventCounter) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if _, found := m.eventCounters[name]; found {
		log.Panicf("event counter %s already registered", name)
	}

	m.eventCounters[name] = c
}

// Handler returns the HTTP API of the monitor.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/list_components", m.listComponents)
	r.HandleFunc("/api/component/{name}", m.listComponentDetails)
	r.HandleFunc("/api/frames", m.listFrames)
	r.HandleFunc("/api/events", m.listEvents)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	return r
}

// StartServer starts serving the API in the background and returns the URL
// of the server.
func (m *Monitor) StartServer() (string, error) {
	listener, err := net.Listen("tcp", "localhost:"+strconv.Itoa(m.portNumber))
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring kernel with %s\n", url)

	server := &http.Server{
		Handler:           m.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		err := server.Serve(listener)
		if err != nil && err != http.ErrServerClosed {
			log.Panic(err)
		}
	}()

	if m.openBrowser {
		if err := browser.OpenURL(url); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot open browser: %v\n", err)
		}
	}

	return url, nil
}

func (m *Monitor) listComponents(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	names := make([]string, 0, len(m.components))
	for _, c := range m.components {
		names = append(names, c.Name())
	}
	m.lock.Unlock()

	writeJSON(w, names)
}

func (m *Monitor) listComponentDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	component := m.findComponentOr404(w, name)
	if component == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(component)
	serializer.SetMaxDepth(1)

	buf := bytes.NewBuffer(nil)
	if err := serializer.Serialize(buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, err := w.Write(buf.Bytes())
	dieOnErr(err)
}

func (m *Monitor) findComponentOr404(
	w http.ResponseWriter,
	name string,
) sim.Named {
	m.lock.Lock()
	defer m.lock.Unlock()

	for _, c := range m.components {
		if c.Name() == name {
			return c
		}
	}

	http.Error(w, "Component not found", http.StatusNotFound)

	return nil
}

type frameRsp struct {
	Name      string `json:"name"`
	NumFrames int    `json:"num_frames"`
	NumFree   int    `json:"num_free"`
	NumInUse  int    `json:"num_in_use"`
}

func (m *Monitor) listFrames(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	rsp := make([]frameRsp, 0, len(m.frameCounters))
	for _, c := range m.frameCounters {
		numFrames, numFree := c.NumFrames(), c.NumFree()
		rsp = append(rsp, frameRsp{
			Name:      c.Name(),
			NumFrames: numFrames,
			NumFree:   numFree,
			NumInUse:  numFrames - numFree,
		})
	}
	m.lock.Unlock()

	writeJSON(w, rsp)
}

type eventsRsp struct {
	Name   string            `json:"name"`
	Counts map[string]uint64 `json:"counts"`
}

func (m *Monitor) listEvents(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	rsp := make([]eventsRsp, 0, len(m.eventCounters))
	for name, c := range m.eventCounters {
		rsp = append(rsp, eventsRsp{Name: name, Counts: c.Counts()})
	}
	m.lock.Unlock()

	sort.Slice(rsp, func(i, j int) bool {
		return rsp[i].Name < rsp[j].Name
	})

	writeJSON(w, rsp)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	memoryInfo, err := p.MemoryInfo()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(m.profileDuration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(data)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
