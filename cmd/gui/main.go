package main

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/kacebover/payment-form/cardform"
	"github.com/kacebover/payment-form/gui/controller"
	"github.com/kacebover/payment-form/internal/logger"
)

// Card colors per brand
var (
	colorVisa       = color.NRGBA{R: 26, G: 31, B: 113, A: 255}
	colorMastercard = color.NRGBA{R: 235, G: 0, B: 27, A: 255}
	colorMir        = color.NRGBA{R: 0, G: 128, B: 96, A: 255}
	colorDefault    = color.NRGBA{R: 55, G: 65, B: 81, A: 255}
	colorStripe     = color.NRGBA{R: 17, G: 24, B: 39, A: 255}
	colorCardText   = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

func brandColor(b cardform.Brand) color.Color {
	switch b {
	case cardform.BrandVisa:
		return colorVisa
	case cardform.BrandMastercard:
		return colorMastercard
	case cardform.BrandMir:
		return colorMir
	default:
		return colorDefault
	}
}

// fieldEntry is an Entry that reports focus changes, used for the touched
// flag and the card flip
type fieldEntry struct {
	widget.Entry

	onFocus func()
	onBlur  func()
}

func newFieldEntry() *fieldEntry {
	e := &fieldEntry{}
	e.ExtendBaseWidget(e)
	return e
}

func (e *fieldEntry) FocusGained() {
	e.Entry.FocusGained()
	if e.onFocus != nil {
		e.onFocus()
	}
}

func (e *fieldEntry) FocusLost() {
	e.Entry.FocusLost()
	if e.onBlur != nil {
		e.onBlur()
	}
}

// variantTheme pins the default theme to a light or dark variant
type variantTheme struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

func (t *variantTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return t.Theme.Color(name, t.variant)
}

func themeFor(name string) fyne.Theme {
	switch name {
	case "dark":
		return &variantTheme{Theme: theme.DefaultTheme(), variant: theme.VariantDark}
	case "light":
		return &variantTheme{Theme: theme.DefaultTheme(), variant: theme.VariantLight}
	default:
		return theme.DefaultTheme()
	}
}

// PaymentGUI represents the payment form window
type PaymentGUI struct {
	app    fyne.App
	window fyne.Window
	ctrl   *controller.PaymentController

	// Input fields
	entries map[cardform.Field]*fieldEntry

	// Card preview
	cardPreview *fyne.Container
	cardBg      *canvas.Rectangle
	cardFront   *fyne.Container
	cardBack    *fyne.Container
	numberText  *canvas.Text
	holderText  *canvas.Text
	expiryText  *canvas.Text
	brandText   *canvas.Text
	cvvText     *canvas.Text

	// Feedback
	errorLabel   *widget.Label
	statusLabel  *widget.Label
	submitButton *widget.Button

	// updating is set while the GUI writes normalized text back into an
	// entry, so the resulting OnChanged is ignored
	updating bool
}

// NewPaymentGUI builds the window for ctrl on a
func NewPaymentGUI(a fyne.App, ctrl *controller.PaymentController) *PaymentGUI {
	config := ctrl.GetConfig()

	w := a.NewWindow("💳 Payment")
	w.Resize(fyne.NewSize(float32(config.WindowWidth), float32(config.WindowHeight)))
	w.CenterOnScreen()

	pg := &PaymentGUI{
		app:     a,
		window:  w,
		ctrl:    ctrl,
		entries: make(map[cardform.Field]*fieldEntry, len(cardform.Fields)),
	}

	a.Settings().SetTheme(themeFor(config.Theme))

	pg.buildUI()
	pg.setupShortcuts()

	ctrl.SetOnStateChange(func(controller.FormState) {
		fyne.Do(pg.refresh)
	})
	ctrl.SetOnStatusChange(func(status controller.PaymentStatus, id string) {
		if status == controller.StatusSuccess || status == controller.StatusFailure {
			fyne.Do(func() {
				pg.focusFirst()
			})
		}
	})

	pg.refresh()
	return pg
}

func (pg *PaymentGUI) buildUI() {
	// === HEADER ===
	titleText := canvas.NewText("💳 Payment", theme.ForegroundColor())
	titleText.TextSize = 24
	titleText.TextStyle.Bold = true

	settingsButton := widget.NewButtonWithIcon("", theme.SettingsIcon(), pg.showSettings)
	settingsButton.Importance = widget.LowImportance

	helpButton := widget.NewButtonWithIcon("", theme.HelpIcon(), pg.showHelp)
	helpButton.Importance = widget.LowImportance

	header := container.NewBorder(nil, nil, titleText, container.NewHBox(settingsButton, helpButton))

	// === CARD PREVIEW ===
	pg.cardPreview = pg.buildCardPreview()
	if !pg.ctrl.GetConfig().ShowCardPreview {
		pg.cardPreview.Hide()
	}

	// === FORM ===
	form := pg.buildForm()

	// === FEEDBACK ===
	pg.errorLabel = widget.NewLabel("")
	pg.errorLabel.Importance = widget.DangerImportance
	pg.errorLabel.Wrapping = fyne.TextWrapWord

	pg.statusLabel = widget.NewLabel("")
	pg.statusLabel.Alignment = fyne.TextAlignCenter

	pg.submitButton = widget.NewButtonWithIcon("Pay", theme.ConfirmIcon(), pg.onSubmit)
	pg.submitButton.Importance = widget.HighImportance

	content := container.NewVBox(
		container.NewPadded(header),
		widget.NewSeparator(),
		container.NewCenter(pg.cardPreview),
		form,
		pg.errorLabel,
		pg.submitButton,
		pg.statusLabel,
	)

	pg.window.SetContent(container.NewPadded(container.NewVScroll(content)))
}

func (pg *PaymentGUI) buildCardPreview() *fyne.Container {
	pg.cardBg = canvas.NewRectangle(colorDefault)
	pg.cardBg.CornerRadius = 14
	pg.cardBg.SetMinSize(fyne.NewSize(340, 200))

	newCardText := func(size float32, bold bool) *canvas.Text {
		t := canvas.NewText("", colorCardText)
		t.TextSize = size
		t.TextStyle = fyne.TextStyle{Bold: bold, Monospace: true}
		return t
	}

	pg.brandText = newCardText(16, true)
	pg.numberText = newCardText(20, true)
	pg.holderText = newCardText(13, false)
	pg.expiryText = newCardText(13, false)

	pg.cardFront = container.NewPadded(container.NewVBox(
		container.NewHBox(layout.NewSpacer(), pg.brandText),
		layout.NewSpacer(),
		container.NewCenter(pg.numberText),
		layout.NewSpacer(),
		container.NewHBox(pg.holderText, layout.NewSpacer(), pg.expiryText),
	))

	stripe := canvas.NewRectangle(colorStripe)
	stripe.SetMinSize(fyne.NewSize(340, 36))

	pg.cvvText = newCardText(16, true)
	cvvCaption := canvas.NewText("CVV", colorCardText)
	cvvCaption.TextSize = 11

	pg.cardBack = container.NewVBox(
		layout.NewSpacer(),
		stripe,
		container.NewPadded(container.NewHBox(layout.NewSpacer(), container.NewVBox(cvvCaption, pg.cvvText))),
		layout.NewSpacer(),
	)
	pg.cardBack.Hide()

	return container.NewStack(pg.cardBg, pg.cardFront, pg.cardBack)
}

func (pg *PaymentGUI) buildForm() *widget.Form {
	placeholders := map[cardform.Field]string{
		cardform.FieldName:       "Name as on card",
		cardform.FieldCardNumber: "0000 0000 0000 0000",
		cardform.FieldExpireDate: "MM/YY",
		cardform.FieldCVV:        "123",
	}

	for _, field := range cardform.Fields {
		field := field
		entry := newFieldEntry()
		entry.SetPlaceHolder(placeholders[field])

		entry.OnChanged = func(text string) {
			pg.onInput(field, entry, text)
		}
		entry.onBlur = func() {
			pg.ctrl.Blur(field)
			if field == cardform.FieldCVV {
				pg.ctrl.Flip(false)
			}
		}
		if field == cardform.FieldCVV {
			entry.Password = true
			entry.onFocus = func() {
				pg.ctrl.Flip(true)
			}
		}
		entry.OnSubmitted = func(string) {
			pg.onSubmit()
		}

		pg.entries[field] = entry
	}

	return widget.NewForm(
		widget.NewFormItem("Cardholder", pg.entries[cardform.FieldName]),
		widget.NewFormItem("Card number", pg.entries[cardform.FieldCardNumber]),
		widget.NewFormItem("Expires", pg.entries[cardform.FieldExpireDate]),
		widget.NewFormItem("CVV", pg.entries[cardform.FieldCVV]),
	)
}

// onInput stores the normalized value and writes it back to the entry.
// The write-back is guarded so it does not run the normalizer again.
func (pg *PaymentGUI) onInput(field cardform.Field, entry *fieldEntry, text string) {
	if pg.updating {
		return
	}

	normalized := pg.ctrl.Input(field, text)
	if normalized != text {
		pg.setEntryText(entry, normalized)
	}
	pg.refresh()
}

func (pg *PaymentGUI) setEntryText(entry *fieldEntry, text string) {
	pg.updating = true
	entry.SetText(text)
	entry.CursorRow = 0
	entry.CursorColumn = utf8.RuneCountInString(text)
	entry.Refresh()
	pg.updating = false
}

// refresh re-renders everything that derives from the controller state
func (pg *PaymentGUI) refresh() {
	state := pg.ctrl.State()

	for field, entry := range pg.entries {
		if entry.Text != state.Value(field) {
			pg.setEntryText(entry, state.Value(field))
		}
	}

	view := pg.ctrl.Card()
	pg.numberText.Text = view.Number
	pg.holderText.Text = view.Holder
	pg.expiryText.Text = view.Expiry
	pg.brandText.Text = strings.ToUpper(view.Brand.DisplayName())
	pg.cvvText.Text = view.CVV
	pg.cardBg.FillColor = brandColor(view.Brand)

	if view.Flipped {
		pg.cardFront.Hide()
		pg.cardBack.Show()
	} else {
		pg.cardBack.Hide()
		pg.cardFront.Show()
	}
	pg.cardPreview.Refresh()

	pg.errorLabel.SetText(pg.ctrl.ErrorMessage())

	switch state.Status {
	case controller.StatusSuccess:
		pg.statusLabel.Importance = widget.SuccessImportance
	case controller.StatusFailure, controller.StatusValidationError:
		pg.statusLabel.Importance = widget.DangerImportance
	default:
		pg.statusLabel.Importance = widget.MediumImportance
	}
	pg.statusLabel.SetText(state.Status.Label())

	pending := state.Status == controller.StatusPending
	for _, entry := range pg.entries {
		if pending {
			entry.Disable()
		} else {
			entry.Enable()
		}
	}
	if pending {
		pg.submitButton.Disable()
	} else {
		pg.submitButton.Enable()
	}
}

func (pg *PaymentGUI) onSubmit() {
	if pg.ctrl.IsPending() {
		return
	}
	// Errors surface through the status label and error message
	_, _ = pg.ctrl.Submit()
	pg.refresh()
}

func (pg *PaymentGUI) focusFirst() {
	if entry, ok := pg.entries[cardform.FieldName]; ok {
		pg.window.Canvas().Focus(entry)
	}
}

func (pg *PaymentGUI) setupShortcuts() {
	// Ctrl+Enter or Cmd+Enter submits from anywhere
	pg.window.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyReturn,
		Modifier: fyne.KeyModifierShortcutDefault,
	}, func(fyne.Shortcut) {
		pg.onSubmit()
	})
}

func (pg *PaymentGUI) showSettings() {
	config := pg.ctrl.GetConfig().Clone()

	delayEntry := widget.NewEntry()
	delayEntry.SetText(config.SubmitDelay.String())

	failureEntry := widget.NewEntry()
	failureEntry.SetText(strconv.FormatFloat(config.FailureRate, 'f', -1, 64))

	maskEntry := widget.NewEntry()
	maskEntry.SetText(config.MaskChar)

	themeSelect := widget.NewSelect([]string{"system", "light", "dark"}, nil)
	themeSelect.SetSelected(config.Theme)

	previewCheck := widget.NewCheck("Show card preview", nil)
	previewCheck.SetChecked(config.ShowCardPreview)

	formItems := []*widget.FormItem{
		widget.NewFormItem("Gateway delay", delayEntry),
		widget.NewFormItem("Failure rate (0-1)", failureEntry),
		widget.NewFormItem("Mask character", maskEntry),
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("", previewCheck),
	}

	dialog.ShowForm("Settings", "Save", "Cancel", formItems, func(confirm bool) {
		if !confirm {
			return
		}

		if d, err := time.ParseDuration(strings.TrimSpace(delayEntry.Text)); err == nil {
			config.SubmitDelay = d
		}
		if rate, err := strconv.ParseFloat(strings.TrimSpace(failureEntry.Text), 64); err == nil {
			config.FailureRate = rate
		}
		config.MaskChar = maskEntry.Text
		config.Theme = themeSelect.Selected
		config.ShowCardPreview = previewCheck.Checked

		if err := pg.applyConfig(config); err != nil {
			dialog.ShowError(err, pg.window)
			return
		}
		pg.statusLabel.SetText("✅ Settings saved")
	}, pg.window)
}

// applyConfig validates, persists and activates config
func (pg *PaymentGUI) applyConfig(config *controller.AppConfig) error {
	config.Normalize()
	if err := pg.ctrl.UpdateConfig(config); err != nil {
		return err
	}
	if err := controller.SaveConfig(config); err != nil {
		logger.L().Warn("config.save_failed", "error", err)
	}

	pg.app.Settings().SetTheme(themeFor(config.Theme))
	if config.ShowCardPreview {
		pg.cardPreview.Show()
	} else {
		pg.cardPreview.Hide()
	}
	pg.refresh()
	return nil
}

func (pg *PaymentGUI) showHelp() {
	helpText := `💳 Payment form

FIELDS:
• Cardholder - at least 2 characters
• Card number - 16 digits, checked with the Luhn checksum
• Expires - MM/YY, valid through the end of the month
• CVV - 3 or 4 digits

The card preview shows the first and last four digits only.
Visa, Mastercard and Mir are recognised from the number prefix.

Payments are simulated: the result arrives after a short delay
and nothing you enter is stored.

Ctrl+Enter submits the form.`

	dialog.ShowInformation("Help", helpText, pg.window)
}

func (pg *PaymentGUI) Run() {
	pg.window.ShowAndRun()
}

func main() {
	a := app.NewWithID("com.paymentform.app")

	config := controller.LoadConfig()

	logPath := filepath.Join(filepath.Dir(controller.ConfigPath()), "payform.log")
	cleanup, err := logger.Setup(logger.Config{Path: logPath})
	if err != nil {
		fmt.Println("⚠️ Logging disabled:", err)
	} else {
		defer cleanup()
	}

	ctrl := controller.NewPaymentController(config)
	NewPaymentGUI(a, ctrl).Run()
}
