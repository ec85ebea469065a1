// Package controller provides the bridge between the payment form UI and the
// validation core
package controller

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kacebover/payment-form/cardform"
	"github.com/kacebover/payment-form/internal/logger"
)

// Scheduler runs f once after d without blocking the caller
type Scheduler func(d time.Duration, f func())

// RandomSource draws the simulated gateway outcome. *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// LogLevel represents log message severity
type LogLevel int

const (
	LogInfo LogLevel = iota
	LogWarning
	LogError
	LogDebug
)

// Option configures a PaymentController
type Option func(*PaymentController)

// WithScheduler replaces time.AfterFunc
func WithScheduler(s Scheduler) Option {
	return func(pc *PaymentController) {
		pc.schedule = s
	}
}

// WithRandomSource replaces the default math/rand source
func WithRandomSource(r RandomSource) Option {
	return func(pc *PaymentController) {
		pc.random = r
	}
}

// WithClock replaces time.Now for expiry validation
func WithClock(now func() time.Time) Option {
	return func(pc *PaymentController) {
		pc.now = now
	}
}

// PaymentController owns the form state and runs the simulated submission
type PaymentController struct {
	config *AppConfig
	masker *cardform.Masker

	schedule Scheduler
	random   RandomSource
	now      func() time.Time

	// Callbacks
	onStateChange  func(FormState)
	onStatusChange func(PaymentStatus, string)
	onLogMessage   func(LogLevel, string)

	// State
	mu           sync.Mutex
	state        FormState
	submissionID string
}

// NewPaymentController creates a controller. A nil config means defaults.
func NewPaymentController(config *AppConfig, opts ...Option) *PaymentController {
	if config == nil {
		config = DefaultConfig()
	}

	pc := &PaymentController{
		config: config,
		masker: cardform.NewMasker(cardform.WithMaskChar(config.MaskRune())),
		schedule: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
		random: rand.New(rand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(pc)
	}

	return pc
}

// SetOnStateChange sets the callback for form state updates
func (pc *PaymentController) SetOnStateChange(callback func(FormState)) {
	pc.onStateChange = callback
}

// SetOnStatusChange sets the callback for submission status updates.
// The second argument is the submission ID, empty for validation errors.
func (pc *PaymentController) SetOnStatusChange(callback func(PaymentStatus, string)) {
	pc.onStatusChange = callback
}

// SetOnLogMessage sets the callback for log messages
func (pc *PaymentController) SetOnLogMessage(callback func(LogLevel, string)) {
	pc.onLogMessage = callback
}

// GetConfig returns the current configuration
func (pc *PaymentController) GetConfig() *AppConfig {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.config
}

// UpdateConfig replaces the configuration used by later submissions
func (pc *PaymentController) UpdateConfig(config *AppConfig) error {
	if err := config.Validate(); err != nil {
		return &OpError{Op: "controller.update_config", Kind: KindInvalidConfig, Err: err}
	}

	pc.mu.Lock()
	pc.config = config
	pc.masker = cardform.NewMasker(cardform.WithMaskChar(config.MaskRune()))
	pc.mu.Unlock()

	pc.log(LogInfo, "config.updated", "failure_rate", config.FailureRate, "submit_delay", config.SubmitDelay)
	return nil
}

// State returns the current form snapshot
func (pc *PaymentController) State() FormState {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.state
}

// update applies fn under the lock and notifies listeners
func (pc *PaymentController) update(fn func(FormState) FormState) FormState {
	pc.mu.Lock()
	pc.state = fn(pc.state)
	state := pc.state
	pc.mu.Unlock()

	if pc.onStateChange != nil {
		pc.onStateChange(state)
	}
	return state
}

// Input normalizes raw for field and returns the stored value. Callers that
// echo the value back into a widget must not route it through Input again.
func (pc *PaymentController) Input(field cardform.Field, raw string) string {
	state := pc.update(func(fs FormState) FormState {
		return fs.Input(field, raw)
	})
	return state.Value(field)
}

// Blur marks field as touched
func (pc *PaymentController) Blur(field cardform.Field) {
	pc.update(func(fs FormState) FormState {
		return fs.Blur(field)
	})
}

// Flip turns the card preview to its back (CVV side) or front
func (pc *PaymentController) Flip(flipped bool) {
	pc.update(func(fs FormState) FormState {
		return fs.WithFlip(flipped)
	})
}

// Reset clears every field and the status. A pending submission is
// abandoned; its callback becomes a no-op.
func (pc *PaymentController) Reset() {
	pc.mu.Lock()
	pc.submissionID = ""
	pc.mu.Unlock()

	pc.update(func(fs FormState) FormState {
		return fs.Reset().WithStatus(StatusNone)
	})
}

// ErrorMessage returns the message for the first touched invalid field
func (pc *PaymentController) ErrorMessage() string {
	return pc.State().ErrorMessage(pc.now())
}

// Valid reports whether the whole form passes validation
func (pc *PaymentController) Valid() bool {
	return pc.State().Valid(pc.now())
}

// Card returns the card preview for the current state
func (pc *PaymentController) Card() CardView {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.state.Card(pc.masker)
}

// IsPending reports whether a submission is in flight
func (pc *PaymentController) IsPending() bool {
	return pc.State().Status == StatusPending
}

// Submit validates the form and, when valid, schedules the simulated
// gateway response. It returns the submission ID.
func (pc *PaymentController) Submit() (string, error) {
	pc.mu.Lock()
	if pc.state.Status == StatusPending {
		pc.mu.Unlock()
		pc.log(LogWarning, "payment.rejected", "reason", "pending")
		return "", ErrSubmissionPending
	}

	now := pc.now()
	state := pc.state.TouchAll()

	if !state.Valid(now) {
		pc.state = state.WithStatus(StatusValidationError)
		state = pc.state
		pc.mu.Unlock()

		pc.log(LogWarning, "payment.invalid", "fields", invalidFields(state, now))
		pc.notify(state, "")
		return "", ErrInvalidForm
	}

	id := uuid.NewString()
	pc.submissionID = id
	pc.state = state.WithStatus(StatusPending)
	state = pc.state
	delay := pc.config.SubmitDelay
	pc.mu.Unlock()

	pc.log(LogInfo, "payment.submitted",
		"submission_id", id,
		"brand", string(cardform.CardType(state.Value(cardform.FieldCardNumber))),
		"delay", delay,
	)
	pc.notify(state, id)

	pc.schedule(delay, func() {
		pc.complete(id)
	})

	return id, nil
}

// complete resolves submission id with a random gateway outcome and clears
// the form
func (pc *PaymentController) complete(id string) {
	pc.mu.Lock()
	if pc.submissionID != id || pc.state.Status != StatusPending {
		pc.mu.Unlock()
		return
	}

	status := StatusFailure
	if pc.random.Float64() > pc.config.FailureRate {
		status = StatusSuccess
	}

	pc.submissionID = ""
	pc.state = pc.state.Reset().WithStatus(status)
	state := pc.state
	pc.mu.Unlock()

	level := LogInfo
	if status == StatusFailure {
		level = LogWarning
	}
	pc.log(level, "payment.completed", "submission_id", id, "status", status.String())
	pc.notify(state, id)
}

func (pc *PaymentController) notify(state FormState, id string) {
	if pc.onStateChange != nil {
		pc.onStateChange(state)
	}
	if pc.onStatusChange != nil {
		pc.onStatusChange(state.Status, id)
	}
}

// log emits a log message. Field values are never passed here.
func (pc *PaymentController) log(level LogLevel, message string, args ...any) {
	l := logger.L()
	switch level {
	case LogWarning:
		l.Warn(message, args...)
	case LogError:
		l.Error(message, args...)
	case LogDebug:
		l.Debug(message, args...)
	default:
		l.Info(message, args...)
	}

	if pc.onLogMessage != nil {
		pc.onLogMessage(level, message)
	}
}

// invalidFields lists "field:tag" for every failing field
func invalidFields(state FormState, now time.Time) []string {
	errs := state.Errors(now)
	var out []string
	for _, f := range cardform.Fields {
		if tag := errs[f].First(f); tag != cardform.NoError {
			out = append(out, f.String()+":"+string(tag))
		}
	}
	return out
}
