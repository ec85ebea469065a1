package controller

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kacebover/payment-form/cardform"
)

var testNow = time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)

// fixedRandom always returns the same draw
type fixedRandom float64

func (f fixedRandom) Float64() float64 { return float64(f) }

// manualScheduler records deferred callbacks until the test fires them
type manualScheduler struct {
	mu     sync.Mutex
	delays []time.Duration
	funcs  []func()
}

func (m *manualScheduler) schedule(d time.Duration, f func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays = append(m.delays, d)
	m.funcs = append(m.funcs, f)
}

func (m *manualScheduler) fireAll() {
	m.mu.Lock()
	funcs := m.funcs
	m.funcs = nil
	m.mu.Unlock()

	for _, f := range funcs {
		f()
	}
}

func newTestController(draw float64) (*PaymentController, *manualScheduler) {
	sched := &manualScheduler{}
	ctrl := NewPaymentController(nil,
		WithScheduler(sched.schedule),
		WithRandomSource(fixedRandom(draw)),
		WithClock(func() time.Time { return testNow }),
	)
	return ctrl, sched
}

func fillValid(ctrl *PaymentController) {
	ctrl.Input(cardform.FieldName, "Ivan Petrov")
	ctrl.Input(cardform.FieldCardNumber, "4111111111111111")
	ctrl.Input(cardform.FieldExpireDate, "1229")
	ctrl.Input(cardform.FieldCVV, "123")
}

// TestPaymentController_NewController tests controller creation
func TestPaymentController_NewController(t *testing.T) {
	ctrl := NewPaymentController(nil)

	if ctrl == nil {
		t.Fatal("NewPaymentController returned nil")
	}
	if ctrl.GetConfig() == nil {
		t.Error("Controller config is nil")
	}
	if ctrl.State().Status != StatusNone {
		t.Errorf("initial status = %s, want none", ctrl.State().Status)
	}
}

// TestPaymentController_Callbacks tests callback registration
func TestPaymentController_Callbacks(t *testing.T) {
	ctrl, _ := newTestController(0.9)

	var states int
	var logs []string
	ctrl.SetOnStateChange(func(FormState) { states++ })
	ctrl.SetOnLogMessage(func(_ LogLevel, msg string) { logs = append(logs, msg) })

	ctrl.Input(cardform.FieldName, "Ivan")
	ctrl.Blur(cardform.FieldName)

	if states != 2 {
		t.Errorf("expected 2 state notifications, got %d", states)
	}

	ctrl.Submit()
	if len(logs) == 0 || logs[len(logs)-1] != "payment.invalid" {
		t.Errorf("expected payment.invalid log, got %v", logs)
	}
}

func TestPaymentController_InputNormalizes(t *testing.T) {
	ctrl, _ := newTestController(0.9)

	if got := ctrl.Input(cardform.FieldCardNumber, "4111-1111-1111-1111-9"); got != "4111 1111 1111 1111" {
		t.Errorf("card number stored as %q", got)
	}
	if got := ctrl.Input(cardform.FieldExpireDate, "1229"); got != "12/29" {
		t.Errorf("expiry stored as %q", got)
	}
	if got := ctrl.Input(cardform.FieldCVV, "12345"); got != "1234" {
		t.Errorf("cvv stored as %q", got)
	}

	field := ctrl.State().Field(cardform.FieldCVV)
	if !field.Dirty || field.Touched {
		t.Errorf("input should mark dirty only, got %+v", field)
	}
}

func TestPaymentController_ErrorMessageRequiresTouch(t *testing.T) {
	ctrl, _ := newTestController(0.9)

	ctrl.Input(cardform.FieldCardNumber, "4111111111111112")
	if msg := ctrl.ErrorMessage(); msg != "" {
		t.Errorf("untouched field should not show an error, got %q", msg)
	}

	ctrl.Blur(cardform.FieldCardNumber)
	if msg := ctrl.ErrorMessage(); msg != "Invalid card number" {
		t.Errorf("ErrorMessage() = %q", msg)
	}
}

func TestPaymentController_SubmitInvalid(t *testing.T) {
	ctrl, sched := newTestController(0.9)

	var statuses []PaymentStatus
	ctrl.SetOnStatusChange(func(s PaymentStatus, id string) {
		statuses = append(statuses, s)
		if id != "" {
			t.Errorf("validation error should carry no submission id, got %q", id)
		}
	})

	ctrl.Input(cardform.FieldName, "Ivan")

	_, err := ctrl.Submit()
	if !errors.Is(err, ErrInvalidForm) {
		t.Fatalf("Submit() error = %v, want ErrInvalidForm", err)
	}
	if len(sched.funcs) != 0 {
		t.Error("invalid form must not schedule a submission")
	}
	if ctrl.State().Status != StatusValidationError {
		t.Errorf("status = %s", ctrl.State().Status)
	}
	if len(statuses) != 1 || statuses[0] != StatusValidationError {
		t.Errorf("statuses = %v", statuses)
	}

	// Submit touches every field, so the first empty one is reported
	if msg := ctrl.ErrorMessage(); msg != "Please enter card number" {
		t.Errorf("ErrorMessage() = %q", msg)
	}
}

func TestPaymentController_SubmitSuccess(t *testing.T) {
	ctrl, sched := newTestController(0.9)
	fillValid(ctrl)

	var statuses []PaymentStatus
	ctrl.SetOnStatusChange(func(s PaymentStatus, _ string) {
		statuses = append(statuses, s)
	})

	id, err := ctrl.Submit()
	if err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	if id == "" {
		t.Error("expected a submission id")
	}
	if !ctrl.IsPending() {
		t.Error("status should be pending before the callback fires")
	}
	if len(sched.delays) != 1 || sched.delays[0] != 2*time.Second {
		t.Errorf("scheduled delays = %v, want [2s]", sched.delays)
	}

	sched.fireAll()

	state := ctrl.State()
	if state.Status != StatusSuccess {
		t.Errorf("status = %s, want success", state.Status)
	}
	for _, f := range cardform.Fields {
		if v := state.Value(f); v != "" {
			t.Errorf("%s not cleared: %q", f, v)
		}
	}
	if len(statuses) != 2 || statuses[0] != StatusPending || statuses[1] != StatusSuccess {
		t.Errorf("statuses = %v", statuses)
	}
	if state.Status.Label() != "Success order" {
		t.Errorf("label = %q", state.Status.Label())
	}
}

func TestPaymentController_SubmitFailure(t *testing.T) {
	ctrl, sched := newTestController(0.1)
	fillValid(ctrl)

	if _, err := ctrl.Submit(); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	sched.fireAll()

	state := ctrl.State()
	if state.Status != StatusFailure {
		t.Errorf("status = %s, want failure", state.Status)
	}
	if state.Value(cardform.FieldCardNumber) != "" {
		t.Error("form should be cleared after failure")
	}
	if state.Status.Label() != "Error" {
		t.Errorf("label = %q", state.Status.Label())
	}
}

func TestPaymentController_FailureRateBoundary(t *testing.T) {
	// A draw equal to the failure rate is a failure
	ctrl, sched := newTestController(0.3)
	fillValid(ctrl)
	ctrl.Submit()
	sched.fireAll()

	if ctrl.State().Status != StatusFailure {
		t.Errorf("status = %s, want failure", ctrl.State().Status)
	}
}

func TestPaymentController_SubmitWhilePending(t *testing.T) {
	ctrl, sched := newTestController(0.9)
	fillValid(ctrl)

	if _, err := ctrl.Submit(); err != nil {
		t.Fatalf("first Submit() failed: %v", err)
	}
	if _, err := ctrl.Submit(); !errors.Is(err, ErrSubmissionPending) {
		t.Errorf("second Submit() error = %v, want ErrSubmissionPending", err)
	}
	if len(sched.funcs) != 1 {
		t.Errorf("expected exactly one scheduled callback, got %d", len(sched.funcs))
	}
}

func TestPaymentController_ResetAbandonsPending(t *testing.T) {
	ctrl, sched := newTestController(0.9)
	fillValid(ctrl)
	ctrl.Submit()

	ctrl.Reset()
	sched.fireAll()

	if ctrl.State().Status != StatusNone {
		t.Errorf("abandoned submission changed status to %s", ctrl.State().Status)
	}
}

func TestPaymentController_Card(t *testing.T) {
	ctrl, _ := newTestController(0.9)

	view := ctrl.Card()
	if view.Number != "**** **** **** ****" || view.Brand != cardform.BrandDefault {
		t.Errorf("empty card view = %+v", view)
	}
	if view.Holder != "CARDHOLDER NAME" || view.Expiry != "MM/YY" {
		t.Errorf("empty card placeholders = %+v", view)
	}

	fillValid(ctrl)
	ctrl.Flip(true)

	view = ctrl.Card()
	if view.Number != "4111 **** **** 1111" {
		t.Errorf("Number = %q", view.Number)
	}
	if view.Brand != cardform.BrandVisa {
		t.Errorf("Brand = %q", view.Brand)
	}
	if view.Holder != "IVAN PETROV" || view.Expiry != "12/29" || view.CVV != "***" {
		t.Errorf("card view = %+v", view)
	}
	if !view.Flipped {
		t.Error("card should be flipped")
	}
}

func TestPaymentController_UpdateConfig(t *testing.T) {
	ctrl, sched := newTestController(0.9)

	config := DefaultConfig()
	config.SubmitDelay = 500 * time.Millisecond
	config.MaskChar = "#"
	if err := ctrl.UpdateConfig(config); err != nil {
		t.Fatalf("UpdateConfig failed: %v", err)
	}

	if got := ctrl.Card().Number; got != "#### #### #### ####" {
		t.Errorf("mask char not applied: %q", got)
	}

	fillValid(ctrl)
	ctrl.Submit()
	if len(sched.delays) != 1 || sched.delays[0] != 500*time.Millisecond {
		t.Errorf("delays = %v", sched.delays)
	}

	bad := DefaultConfig()
	bad.FailureRate = 1.5
	if err := ctrl.UpdateConfig(bad); !IsKind(err, KindInvalidConfig) {
		t.Errorf("UpdateConfig(bad) = %v, want invalid config", err)
	}
}

// TestPaymentController_RealTimer runs the default scheduler end to end
func TestPaymentController_RealTimer(t *testing.T) {
	config := DefaultConfig()
	config.SubmitDelay = 10 * time.Millisecond

	ctrl := NewPaymentController(config,
		WithRandomSource(fixedRandom(0.9)),
		WithClock(func() time.Time { return testNow }),
	)
	fillValid(ctrl)

	done := make(chan PaymentStatus, 2)
	ctrl.SetOnStatusChange(func(s PaymentStatus, _ string) {
		if s != StatusPending {
			done <- s
		}
	})

	if _, err := ctrl.Submit(); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}

	select {
	case s := <-done:
		if s != StatusSuccess {
			t.Errorf("status = %s, want success", s)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("submission timed out")
	}
}
