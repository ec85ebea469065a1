package main

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kacebover/payment-form/cardform"
	"github.com/kacebover/payment-form/gui/controller"
	"github.com/kacebover/payment-form/internal/logger"
)

// errSilentExit: ненулевой код выхода, результат уже выведен
var errSilentExit = errors.New("silent exit")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errSilentExit) {
			fmt.Fprintln(os.Stderr, "❌ Ошибка:", err)
		}
		os.Exit(1)
	}
}

// formFlags holds the four field values shared by check and submit
type formFlags struct {
	name   string
	number string
	expiry string
	cvv    string
	now    string
}

func (f *formFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "cardholder name")
	cmd.Flags().StringVar(&f.number, "number", "", "card number, any separators")
	cmd.Flags().StringVar(&f.expiry, "expiry", "", "expiry date MM/YY")
	cmd.Flags().StringVar(&f.cvv, "cvv", "", "security code")
	cmd.Flags().StringVar(&f.now, "now", "", "validate expiry against this month (YYYY-MM) instead of today")
}

// clock returns the reference time for expiry checks
func (f *formFlags) clock() (func() time.Time, error) {
	if f.now == "" {
		return time.Now, nil
	}
	t, err := time.Parse("2006-01", f.now)
	if err != nil {
		return nil, fmt.Errorf("--now must be YYYY-MM: %w", err)
	}
	return func() time.Time { return t }, nil
}

// state types every value into a fresh form, as a user would
func (f *formFlags) state() controller.FormState {
	return controller.FormState{}.
		Input(cardform.FieldName, f.name).
		Input(cardform.FieldCardNumber, f.number).
		Input(cardform.FieldExpireDate, f.expiry).
		Input(cardform.FieldCVV, f.cvv)
}

func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
		cleanup    func() error
	)

	root := &cobra.Command{
		Use:           "payform",
		Short:         "Payment card form: formatting, validation and a simulated checkout",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := logger.Config{Debug: verbose}
			if verbose {
				cfg.Output = cmd.ErrOrStderr()
			}
			var err error
			cleanup, err = logger.Setup(cfg)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if cleanup != nil {
				return cleanup()
			}
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "write JSON logs to stderr")
	root.PersistentFlags().StringVar(&configPath, "config", controller.ConfigPath(), "path to config.yaml")

	root.AddCommand(
		formatCmd(),
		checkCmd(),
		maskCmd(&configPath),
		brandCmd(),
		submitCmd(&configPath),
		guiCmd(),
	)
	return root
}

func formatCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "format card|expiry|cvv <raw>",
		Short:     "Normalize raw input the way the form does while typing",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"card", "expiry", "cvv"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var out string
			switch args[0] {
			case "card":
				out = cardform.FormatCardNumber(args[1])
			case "expiry":
				out = cardform.FormatExpiryDate(args[1])
			case "cvv":
				out = cardform.FormatCVV(args[1])
			default:
				return fmt.Errorf("unknown field %q (want card, expiry or cvv)", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func checkCmd() *cobra.Command {
	var form formFlags

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate all four fields as if the form was submitted",
		RunE: func(cmd *cobra.Command, args []string) error {
			clock, err := form.clock()
			if err != nil {
				return err
			}
			now := clock()
			state := form.state().TouchAll()

			printReport(cmd.OutOrStdout(), state, now)

			if !state.Valid(now) {
				logger.L().Info("form.checked", "valid", false)
				return errSilentExit
			}
			logger.L().Info("form.checked", "valid", true)
			return nil
		},
	}

	form.register(cmd)
	return cmd
}

// printReport writes one line per field followed by the selected message
func printReport(w io.Writer, state controller.FormState, now time.Time) {
	errs := state.Errors(now)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, f := range cardform.Fields {
		result := "ok"
		if tag := errs[f].First(f); tag != cardform.NoError {
			result = string(tag)
		}
		fmt.Fprintf(tw, "%s\t%q\t%s\n", f, state.Value(f), result)
	}
	tw.Flush()

	if msg := state.ErrorMessage(now); msg != "" {
		fmt.Fprintf(w, "\n❌ %s\n", msg)
	} else {
		fmt.Fprintln(w, "\n✅ Form is valid")
	}
}

func maskCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "mask [number]",
		Short: "Render the card number as shown on the card preview",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := controller.LoadConfigFrom(*configPath)
			if err != nil {
				return err
			}
			value := ""
			if len(args) == 1 {
				value = args[0]
			}
			masker := cardform.NewMasker(cardform.WithMaskChar(config.MaskRune()))
			fmt.Fprintln(cmd.OutOrStdout(), masker.CardNumber(value))
			return nil
		},
	}
}

func brandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "brand <number>",
		Short: "Detect the card network from the number prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), cardform.CardType(args[0]))
			return nil
		},
	}
}

func submitCmd(configPath *string) *cobra.Command {
	var (
		form        formFlags
		delay       time.Duration
		failureRate float64
		seed        int64
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Run the simulated checkout end to end",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := controller.LoadConfigFrom(*configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("delay") {
				config.SubmitDelay = delay
			}
			if cmd.Flags().Changed("failure-rate") {
				config.FailureRate = failureRate
			}
			if err := config.Validate(); err != nil {
				return err
			}

			clock, err := form.clock()
			if err != nil {
				return err
			}

			opts := []controller.Option{controller.WithClock(clock)}
			if cmd.Flags().Changed("seed") {
				opts = append(opts, controller.WithRandomSource(rand.New(rand.NewSource(seed))))
			}
			ctrl := controller.NewPaymentController(config, opts...)

			out := cmd.OutOrStdout()
			done := make(chan controller.PaymentStatus, 1)
			ctrl.SetOnStatusChange(func(status controller.PaymentStatus, id string) {
				if status == controller.StatusPending {
					fmt.Fprintf(out, "⏳ %s (%s)\n", status.Label(), id)
					return
				}
				done <- status
			})

			ctrl.Input(cardform.FieldName, form.name)
			ctrl.Input(cardform.FieldCardNumber, form.number)
			ctrl.Input(cardform.FieldExpireDate, form.expiry)
			ctrl.Input(cardform.FieldCVV, form.cvv)

			if _, err := ctrl.Submit(); err != nil {
				if errors.Is(err, controller.ErrInvalidForm) {
					printReport(out, ctrl.State(), clock())
					return errSilentExit
				}
				return err
			}

			select {
			case status := <-done:
				fmt.Fprintln(out, statusLine(status))
				if status != controller.StatusSuccess {
					return errSilentExit
				}
				return nil
			case <-time.After(config.SubmitDelay + 5*time.Second):
				return errors.New("timed out waiting for the payment result")
			}
		},
	}

	form.register(cmd)
	cmd.Flags().DurationVar(&delay, "delay", 2*time.Second, "simulated gateway latency")
	cmd.Flags().Float64Var(&failureRate, "failure-rate", 0.3, "probability of a declined payment (0..1)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed the gateway outcome for reproducible runs")
	return cmd
}

func statusLine(status controller.PaymentStatus) string {
	switch status {
	case controller.StatusSuccess:
		return "✅ " + status.Label()
	default:
		return "❌ " + status.Label()
	}
}

func guiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Show how to launch the desktop payment form",
		Run: func(cmd *cobra.Command, args []string) {
			LaunchGUI(cmd.OutOrStdout())
		},
	}
}
