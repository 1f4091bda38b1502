package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rusenback/netspeed/internal/model"
	"github.com/rusenback/netspeed/internal/settings"
	"github.com/rusenback/netspeed/internal/storage"
)

// History is the stored throughput the graph panel reads
type History interface {
	Query(timeRange storage.TimeRange) ([]storage.DataPoint, error)
}

// view selects what fills the screen besides the overlay
type view int

const (
	viewOverlay view = iota
	viewSettings
	viewGraph
)

// Model represents the TUI application state
type Model struct {
	source   string
	store    *settings.Store
	settings model.Settings
	history  History

	rates  <-chan model.Rate
	errors <-chan error

	settingsChan <-chan model.Settings
	unsubscribe  func()

	rate     model.Rate
	hasRate  bool
	message  string
	err      error
	view     view
	width    int
	height   int
	interval time.Duration

	// drag state; the position is only persisted on release
	dragging bool
	grabX    int
	grabY    int
	dragX    int
	dragY    int

	// in-memory history used until storage has data
	downHistory   []float64
	upHistory     []float64
	maxDataPoints int

	points    []storage.DataPoint
	timeRange storage.TimeRange
}

// Options wires the model to the rest of the program
type Options struct {
	Source   string
	Store    *settings.Store
	History  History
	Rates    <-chan model.Rate
	Errors   <-chan error
	Interval time.Duration
}

// Message types for Bubbletea update loop
type tickMsg time.Time

type rateMsg struct {
	rate model.Rate
}

type readErrMsg struct {
	err error
}

type settingsMsg struct {
	settings model.Settings
}

type actionMsg struct {
	message string
	err     error
}

type historyMsg struct {
	points []storage.DataPoint
	err    error
}

// NewModel creates a new TUI model
func NewModel(opts Options) Model {
	maxPoints := 150
	interval := opts.Interval
	if interval <= 0 {
		interval = time.Second
	}

	settingsChan, unsubscribe := opts.Store.Subscribe()

	return Model{
		source:        opts.Source,
		store:         opts.Store,
		settings:      opts.Store.Get(),
		history:       opts.History,
		rates:         opts.Rates,
		errors:        opts.Errors,
		settingsChan:  settingsChan,
		unsubscribe:   unsubscribe,
		interval:      interval,
		maxDataPoints: maxPoints,
		// Pre-fill with zeros so graph is full-width from the start
		downHistory: make([]float64, maxPoints),
		upHistory:   make([]float64, maxPoints),
		timeRange:   storage.Range30Min,
	}
}

// Init initializes the model and returns initial commands
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForRate(m.rates),
		waitForReadError(m.errors),
		waitForSettings(m.settingsChan),
		tickCmd(),
	)
}
