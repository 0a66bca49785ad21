package metronome

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type controllerFixture struct {
	model      *UIModel
	paceModel  *PaceModel
	scheduler  *CycleScheduler
	controller *UIController
}

func newControllerFixture(t *testing.T, countdown time.Duration) *controllerFixture {
	t.Helper()
	logger := testLogger()
	model := NewUIModel(logger, make(chan string, 16))
	paceModel := NewPaceModel(logger)
	scheduler := NewCycleScheduler(model, countdown, 5*time.Millisecond, logger)
	controller := NewUIController(model, paceModel, scheduler, logger)
	t.Cleanup(func() {
		controller.Shutdown()
		model.Shutdown()
	})
	return &controllerFixture{
		model:      model,
		paceModel:  paceModel,
		scheduler:  scheduler,
		controller: controller,
	}
}

func TestUIController_SingleEditDoesNotDerive(t *testing.T) {
	f := newControllerFixture(t, time.Millisecond)

	f.controller.OnPaceFieldEdited(PaceFieldCadence, "20")

	state := f.model.GetPaceState()
	assert.Equal(t, PaceSettings{Cadence: 20}, state.Settings)
	assert.Equal(t, PaceField(""), state.DerivedField)
}

func TestUIController_SecondEditDerivesThird(t *testing.T) {
	f := newControllerFixture(t, time.Millisecond)

	f.controller.OnPaceFieldEdited(PaceFieldCadence, "20")
	f.controller.OnPaceFieldEdited(PaceFieldDriveTime, "2")

	state := f.model.GetPaceState()
	assert.Equal(t, PaceFieldRecoverTime, state.DerivedField)
	assert.Equal(t, PaceSettings{Cadence: 20, DriveTime: 2, RecoverTime: 1}, state.Settings)
}

func TestUIController_InvalidPaceClearsEverything(t *testing.T) {
	f := newControllerFixture(t, time.Millisecond)

	// 60 spm leaves one second per stroke; a two second recovery cannot fit.
	f.controller.OnPaceFieldEdited(PaceFieldCadence, "60")
	f.controller.OnPaceFieldEdited(PaceFieldRecoverTime, "2")

	assert.Equal(t, PaceState{}, f.model.GetPaceState())
	assert.Equal(t, PaceSettings{}, f.paceModel.Settings())
	assert.False(t, f.paceModel.Ready())
}

func TestUIController_NegativeEditCannotStart(t *testing.T) {
	f := newControllerFixture(t, time.Millisecond)

	// The float inputs accept a leading minus sign; a negative drive must
	// not produce a startable pace.
	f.controller.OnPaceFieldEdited(PaceFieldDriveTime, "-2")
	f.controller.OnPaceFieldEdited(PaceFieldRecoverTime, "5")

	state := f.model.GetPaceState()
	assert.Equal(t, PaceSettings{Cadence: 12, DriveTime: 0, RecoverTime: 5}, state.Settings)
	assert.False(t, state.Settings.Complete())

	f.controller.ToggleMetronome()
	assert.Equal(t, CycleStatusIdle, f.scheduler.Status())
}

func TestUIController_EditStopsRunningMetronome(t *testing.T) {
	f := newControllerFixture(t, 5*time.Second)

	f.controller.OnPaceFieldEdited(PaceFieldCadence, "20")
	f.controller.OnPaceFieldEdited(PaceFieldDriveTime, "1")
	f.controller.ToggleMetronome()
	require.Equal(t, CycleStatusCountdown, f.scheduler.Status())

	f.controller.OnPaceFieldEdited(PaceFieldDriveTime, "1.5")

	assert.Equal(t, CycleStatusIdle, f.scheduler.Status())
}

func TestUIController_ToggleStartsAndStops(t *testing.T) {
	f := newControllerFixture(t, 5*time.Second)

	f.controller.OnPaceFieldEdited(PaceFieldCadence, "20")
	f.controller.OnPaceFieldEdited(PaceFieldDriveTime, "1")

	f.controller.ToggleMetronome()
	assert.Equal(t, CycleStatusCountdown, f.scheduler.Status())

	f.controller.ToggleMetronome()
	assert.Equal(t, CycleStatusIdle, f.scheduler.Status())
}

func TestUIController_ToggleWithoutCompletePaceStaysIdle(t *testing.T) {
	f := newControllerFixture(t, time.Millisecond)

	f.controller.OnPaceFieldEdited(PaceFieldCadence, "20")
	f.controller.ToggleMetronome()

	assert.Equal(t, CycleStatusIdle, f.scheduler.Status())
}

func TestUIController_ResetClearsPaceAndStops(t *testing.T) {
	f := newControllerFixture(t, 5*time.Second)

	f.controller.OnPaceFieldEdited(PaceFieldCadence, "20")
	f.controller.OnPaceFieldEdited(PaceFieldDriveTime, "1")
	f.controller.ToggleMetronome()
	require.Equal(t, CycleStatusCountdown, f.scheduler.Status())

	f.controller.OnReset()

	assert.Equal(t, CycleStatusIdle, f.scheduler.Status())
	assert.Equal(t, PaceSettings{}, f.paceModel.Settings())
	assert.Equal(t, PaceState{}, f.model.GetPaceState())
}

func TestUIController_StatusMirroredToModel(t *testing.T) {
	f := newControllerFixture(t, 10*time.Millisecond)

	f.controller.OnPaceFieldEdited(PaceFieldCadence, "120")
	f.controller.OnPaceFieldEdited(PaceFieldDriveTime, "0.2")
	f.controller.ToggleMetronome()

	require.Eventually(t, func() bool { return f.model.GetCycleStatus() == CycleStatusCycling },
		time.Second, time.Millisecond)

	f.controller.ToggleMetronome()
	require.Eventually(t, func() bool { return f.model.GetCycleStatus() == CycleStatusIdle },
		time.Second, time.Millisecond)
}

func TestUIController_EscapeRequestsClose(t *testing.T) {
	f := newControllerFixture(t, time.Millisecond)

	ch := make(chan struct{}, 1)
	unregister := f.model.ListenToCloseApplication(ch)
	defer unregister()

	f.controller.OnEscapeKey()
	receiveWithin(t, ch, time.Second)
}

func TestUIController_NilDependenciesPanic(t *testing.T) {
	logger := testLogger()
	model := NewUIModel(logger, make(chan string, 1))
	t.Cleanup(model.Shutdown)
	paceModel := NewPaceModel(logger)
	scheduler := NewCycleScheduler(model, time.Millisecond, time.Millisecond, logger)
	t.Cleanup(scheduler.Shutdown)

	assert.Panics(t, func() { NewUIController(nil, paceModel, scheduler, logger) })
	assert.Panics(t, func() { NewUIController(model, nil, scheduler, logger) })
	assert.Panics(t, func() { NewUIController(model, paceModel, nil, logger) })
	assert.Panics(t, func() { NewUIController(model, paceModel, scheduler, nil) })
}
