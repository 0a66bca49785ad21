package metronome

import (
	"errors"
	"log"
)

// UIController handles UI events and coordinates the pace model, the cycle
// scheduler and the UIModel.
type UIController struct {
	model            *UIModel
	paceModel        *PaceModel
	scheduler        *CycleScheduler
	logger           *log.Logger
	statusUnregister func()
}

// NewUIController creates a new UIController with the given dependencies.
func NewUIController(model *UIModel, paceModel *PaceModel, scheduler *CycleScheduler, logger *log.Logger) *UIController {
	if model == nil {
		panic("UIController: model cannot be nil")
	}
	if paceModel == nil {
		panic("UIController: paceModel cannot be nil")
	}
	if scheduler == nil {
		panic("UIController: scheduler cannot be nil")
	}
	if logger == nil {
		panic("UIController: logger cannot be nil")
	}

	c := &UIController{
		model:     model,
		paceModel: paceModel,
		scheduler: scheduler,
		logger:    logger,
	}

	// Mirror scheduler status into the model so views can render it.
	c.statusUnregister = scheduler.ListenToStatus(func(status CycleStatus) {
		model.SetCycleStatus(status)
	})

	return c
}

// OnPaceFieldEdited handles the user committing a value in one of the three
// pace inputs. Any running metronome stops first; once two distinct fields
// have been edited the third is derived.
func (c *UIController) OnPaceFieldEdited(field PaceField, raw string) {
	c.scheduler.Stop()
	c.paceModel.RecordEdit(field, raw)

	if !c.paceModel.Ready() {
		c.model.SetPaceState(PaceState{Settings: c.paceModel.Settings()})
		return
	}

	derived, err := c.paceModel.DeriveRemaining()
	switch {
	case errors.Is(err, ErrInvalidPace):
		// The model has already reset itself; clear the inputs to match.
		c.logger.Printf("UIController: pace values are inconsistent, fields cleared (%v)", err)
		c.model.SetPaceState(PaceState{})
	case err != nil:
		c.logger.Printf("UIController: pace derivation failed: %v", err)
		c.paceModel.Reset()
		c.model.SetPaceState(PaceState{})
	default:
		c.model.SetPaceState(PaceState{Settings: c.paceModel.Settings(), DerivedField: derived})
	}
}

// ToggleMetronome starts the metronome when idle and stops it otherwise.
func (c *UIController) ToggleMetronome() {
	if c.scheduler.Status() != CycleStatusIdle {
		c.scheduler.Stop()
		return
	}
	if !c.paceModel.Settings().Complete() {
		c.logger.Printf("UIController: enter two pace values before starting")
		return
	}
	c.scheduler.Start(c.paceModel.Settings())
}

// OnReset clears all pace fields and stops any running metronome.
func (c *UIController) OnReset() {
	c.scheduler.Stop()
	c.paceModel.Reset()
	c.model.SetPaceState(PaceState{})
	c.logger.Printf("UIController: pace fields reset")
}

// OnEscapeKey handles when the Escape key is pressed
func (c *UIController) OnEscapeKey() {
	c.model.RequestCloseApplication()
}

// Shutdown stops the scheduler and cleans up resources
func (c *UIController) Shutdown() {
	c.statusUnregister()
	c.scheduler.Shutdown()
}
