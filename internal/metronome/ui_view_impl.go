package metronome

// UIViewImpl defines the interface for framework-specific UI implementations
type UIViewImpl interface {
	// Initialize is called after construction to set up framework-specific widgets
	// controller is used to handle UI events
	Initialize(controller *UIController)

	// SetupKeyboardHandlers sets up keyboard event handlers
	// controller is used to handle keyboard events
	SetupKeyboardHandlers(controller *UIController)

	// Run starts the UI framework and blocks until it exits
	Run() error

	// Stop stops the UI framework
	Stop()

	// Draw refreshes/redraws the UI
	Draw() error

	// --- Log View ---

	// GetLogViewHeight returns the visible height of the log view
	GetLogViewHeight() int

	// ClearLogView clears the log view
	ClearLogView()

	// WriteLogLine writes a line to the log view
	WriteLogLine(line string) error

	// --- Pace and Metronome Display ---

	// UpdatePaceState updates the three pace input fields
	UpdatePaceState(state PaceState)

	// UpdateCycleStatus updates the metronome status display
	UpdateCycleStatus(status CycleStatus)

	// UpdateVisualState updates the catch/finish highlight on the rower
	UpdateVisualState(state VisualState)

	// PlayCue plays an audio cue
	PlayCue(cue CueID)

	// StopCues silences any in-progress audio
	StopCues()
}
