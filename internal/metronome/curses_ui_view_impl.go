package metronome

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lowaak/rowing-metronome/internal/go_func_utils"
)

// CursesUIViewImpl implements UIViewImpl using tview (curses-based terminal UI)
type CursesUIViewImpl struct {
	logger          *log.Logger
	app             *tview.Application
	model           *UIModel
	refreshInterval time.Duration

	// Main layout: pace controls and rower on the left, logs on the right
	mainFlex *tview.Flex
	logView  *tview.TextView

	paceInputs map[PaceField]*tview.InputField
	statusText *tview.TextView
	cueText    *tview.TextView
	rowerPanel *tview.TextView

	// Animation and highlight state, shared with the refresh goroutine
	mu          sync.Mutex
	screen      tcell.Screen
	visualState VisualState
	animParams  AnimationParams
	animStart   time.Time
	animating   bool

	animStop chan struct{}
	stopOnce sync.Once
}

func NewCursesUIView(logger *log.Logger, app *tview.Application, model *UIModel, refreshInterval time.Duration) *CursesUIViewImpl {
	if refreshInterval <= 0 {
		refreshInterval = 50 * time.Millisecond
	}
	return &CursesUIViewImpl{
		logger:          logger,
		app:             app,
		model:           model,
		refreshInterval: refreshInterval,
		paceInputs:      make(map[PaceField]*tview.InputField),
		animStop:        make(chan struct{}),
	}
}

// Initialize sets up the tview widgets
func (ui *CursesUIViewImpl) Initialize(controller *UIController) {
	// Create shared log view
	// Note: Don't use SetChangedFunc with app.Draw() - it can cause hangs during shutdown
	// when the app has been stopped but log messages are still being written.
	// The BaseUIView's event listeners already call Draw() after updating content.
	ui.logView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	ui.logView.SetBorder(true).SetTitle(" Logs ")

	// Instructions at the top
	instructionsText := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	instructionsText.SetText("[yellow]Enter[white] Commit Value  |  [yellow]Tab[white] Next Field  |  [yellow]Space[white] Start/Stop  |  [yellow]R[white] Reset  |  [yellow]Esc[white] Quit")

	// One input per pace field, laid out side by side
	paceRowFlex := tview.NewFlex().SetDirection(tview.FlexColumn)
	for _, field := range AllPaceFields {
		field := field // Capture loop variable
		info, _ := GetPaceFieldInfo(field)

		input := tview.NewInputField().
			SetLabel(" ").
			SetFieldWidth(8).
			SetAcceptanceFunc(tview.InputFieldFloat).
			SetDoneFunc(func(key tcell.Key) {
				if key == tcell.KeyEnter {
					controller.OnPaceFieldEdited(field, ui.paceInputs[field].GetText())
				}
			})
		input.SetBorder(true).SetTitle(fmt.Sprintf(" %s (%s) ", info.DisplayName, info.Unit))
		ui.paceInputs[field] = input

		paceRowFlex.AddItem(input, 0, 1, field == AllPaceFields[0])
	}

	// Metronome status line
	ui.statusText = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	ui.statusText.SetBorder(true).SetTitle(" Status ")

	// Last audio cue indicator
	ui.cueText = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	// Rower animation panel
	ui.rowerPanel = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	ui.rowerPanel.SetBorder(true).SetTitle(" Rower ")

	leftColumn := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(instructionsText, 2, 0, false).
		AddItem(paceRowFlex, 3, 0, true).
		AddItem(ui.statusText, 3, 0, false).
		AddItem(ui.cueText, 1, 0, false).
		AddItem(ui.rowerPanel, 0, 1, false)

	// Create main layout: controls on left, logs on right
	ui.mainFlex = tview.NewFlex().
		AddItem(leftColumn, 0, 2, true).
		AddItem(ui.logView, 0, 1, false)

	// Capture the screen so cues can ring the terminal bell
	ui.app.SetBeforeDrawFunc(func(screen tcell.Screen) bool {
		ui.mu.Lock()
		ui.screen = screen
		ui.mu.Unlock()
		return false
	})

	ui.UpdateCycleStatus(CycleStatusIdle)
	ui.renderRower()

	go_func_utils.SafeGo(ui.logger, func() { ui.animationLoop() })
}

// SetupKeyboardHandlers sets up keyboard event handlers
func (ui *CursesUIViewImpl) SetupKeyboardHandlers(controller *UIController) {
	ui.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		// Escape to quit
		if event.Key() == tcell.KeyEscape {
			controller.OnEscapeKey()
			return nil
		}

		// Tab commits the focused field and moves to the next one
		if event.Key() == tcell.KeyTab {
			ui.commitFocusedInput(controller)
			ui.focusNextInput()
			return nil
		}

		// The inputs only accept float characters, so shortcut runes are
		// safe to handle globally while a field has focus.
		if event.Key() == tcell.KeyRune {
			switch event.Rune() {
			case ' ':
				ui.commitFocusedInput(controller)
				controller.ToggleMetronome()
				return nil
			case 'r', 'R':
				controller.OnReset()
				return nil
			}
		}

		return event
	})
}

// commitFocusedInput submits the focused pace field's text to the controller
func (ui *CursesUIViewImpl) commitFocusedInput(controller *UIController) {
	for field, input := range ui.paceInputs {
		if input.HasFocus() {
			controller.OnPaceFieldEdited(field, input.GetText())
			return
		}
	}
}

// focusNextInput cycles focus through the pace fields in display order
func (ui *CursesUIViewImpl) focusNextInput() {
	for i, field := range AllPaceFields {
		if ui.paceInputs[field].HasFocus() {
			next := AllPaceFields[(i+1)%len(AllPaceFields)]
			ui.app.SetFocus(ui.paceInputs[next])
			return
		}
	}
	ui.app.SetFocus(ui.paceInputs[AllPaceFields[0]])
}

// GetLogViewHeight returns the visible height of the log view
func (ui *CursesUIViewImpl) GetLogViewHeight() int {
	_, _, _, height := ui.logView.GetInnerRect()
	return height
}

// ClearLogView clears the log view
func (ui *CursesUIViewImpl) ClearLogView() {
	ui.logView.Clear()
}

// WriteLogLine writes a line to the log view
func (ui *CursesUIViewImpl) WriteLogLine(line string) error {
	_, err := fmt.Fprint(ui.logView, line)
	return err
}

// UpdatePaceState updates the three pace input fields
func (ui *CursesUIViewImpl) UpdatePaceState(state PaceState) {
	for field, input := range ui.paceInputs {
		value := state.Settings.Get(field)
		if value == 0 {
			input.SetText("")
			continue
		}
		info, _ := GetPaceFieldInfo(field)
		input.SetText(fmt.Sprintf(info.FormatStr, value))
	}
}

// UpdateCycleStatus updates the metronome status display and drives the
// rower animation while the stroke cycle is running.
func (ui *CursesUIViewImpl) UpdateCycleStatus(status CycleStatus) {
	ui.mu.Lock()
	if status == CycleStatusCycling {
		params, err := ComputeAnimationParams(ui.model.GetPaceState().Settings)
		if err != nil {
			ui.logger.Printf("UI: cannot animate: %v", err)
		} else {
			ui.animParams = params
			ui.animStart = time.Now()
			ui.animating = true
		}
	} else {
		ui.animating = false
	}
	ui.mu.Unlock()

	switch status {
	case CycleStatusCountdown:
		ui.statusText.SetText("[yellow]" + status.String() + "[white]")
	case CycleStatusCycling:
		ui.statusText.SetText("[green]" + status.String() + "[white]")
	default:
		ui.statusText.SetText("[gray]" + status.String() + "[white]")
	}
	ui.renderRower()
}

// UpdateVisualState updates the catch/finish highlight on the rower
func (ui *CursesUIViewImpl) UpdateVisualState(state VisualState) {
	ui.mu.Lock()
	ui.visualState = state
	ui.mu.Unlock()
	ui.renderRower()
}

// PlayCue rings the terminal bell and shows which cue fired
func (ui *CursesUIViewImpl) PlayCue(cue CueID) {
	ui.mu.Lock()
	screen := ui.screen
	ui.mu.Unlock()
	if screen != nil {
		screen.Beep()
	}

	ui.cueText.SetText(fmt.Sprintf("[aqua]♪ %s[white]", cue))
	ui.app.Draw()
}

// StopCues clears the cue indicator
func (ui *CursesUIViewImpl) StopCues() {
	ui.cueText.SetText("")
	ui.app.Draw()
}

// renderRower redraws the rower art for the current animation position and
// highlight.
func (ui *CursesUIViewImpl) renderRower() {
	ui.mu.Lock()
	var frame string
	if ui.animating {
		frame = FrameAt(ui.animParams, time.Since(ui.animStart))
	} else {
		frame = RowerFrame(0)
	}
	highlight := ui.visualState
	ui.mu.Unlock()

	switch highlight {
	case VisualStateCatch:
		ui.rowerPanel.SetText("[green]" + frame + "[white]")
	case VisualStateFinish:
		ui.rowerPanel.SetText("[yellow]" + frame + "[white]")
	default:
		ui.rowerPanel.SetText(frame)
	}
}

// animationLoop redraws the rower at the refresh interval while cycling
func (ui *CursesUIViewImpl) animationLoop() {
	ticker := time.NewTicker(ui.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ui.animStop:
			return
		case <-ticker.C:
			ui.mu.Lock()
			animating := ui.animating
			ui.mu.Unlock()
			if !animating {
				continue
			}
			ui.renderRower()
			ui.app.Draw()
		}
	}
}

// Draw refreshes/redraws the UI
func (ui *CursesUIViewImpl) Draw() error {
	ui.app.Draw()
	return nil
}

// Run starts the UI and blocks until it exits
func (ui *CursesUIViewImpl) Run() error {
	// SetRoot must be called before setting focus, otherwise focus may be reset
	ui.app.SetRoot(ui.mainFlex, true)
	ui.app.SetFocus(ui.paceInputs[AllPaceFields[0]])
	return ui.app.Run()
}

// Stop stops the UI framework
func (ui *CursesUIViewImpl) Stop() {
	ui.stopOnce.Do(func() { close(ui.animStop) })
	ui.app.Stop()
}
