package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/serverless/compose/internal/app"
	"github.com/serverless/compose/internal/lifecycle"
	"github.com/serverless/compose/internal/telemetry"
)

// rootCmd is the only command of serverless-compose. Arguments are not parsed
// by cobra: positional tokens and options are routed by the application so
// that unknown options reach the framework untouched.
var rootCmd = &cobra.Command{
	Use:   "serverless-compose [component:]command [options]",
	Short: "Deploy and manage multiple Serverless Framework services together",
	Long: `serverless-compose runs Serverless Framework commands across the components
declared in serverless-compose.yml.

Global commands run on every component, in dependency order when needed:
  deploy, package   deploy or package components, dependencies first
  remove            remove components, dependents first
  info, logs, outputs

Any other command targets a single component:
  serverless-compose api:deploy
  serverless-compose deploy --service=api
  serverless-compose api:logs --tail`,
	Args:               cobra.ArbitraryArgs,
	DisableFlagParsing: true,
	RunE:               runRoot,
	// Errors are reported once by the lifecycle supervisor.
	SilenceErrors: true,
	SilenceUsage:  true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// runApplication runs the application for the root command. It is set by
// execute once the run state and the supervisor exist.
var runApplication func(cmd *cobra.Command, args []string) error

func runRoot(cmd *cobra.Command, args []string) error {
	if runApplication == nil {
		return printHelp(cmd)
	}
	return runApplication(cmd, args)
}

// SetVersion sets the version reported in help and telemetry.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute runs serverless-compose with the process arguments and exits.
// This function is called by main.main().
func Execute() {
	execute(os.Args[1:])
}

// execute wires the run: the run state and the supervisor come first so that
// every way the process ends is reported, then the root command runs the
// application and hands its result to the supervisor.
func execute(args []string, opts ...lifecycle.Option) {
	cfg := app.LoadConfigFromEnv(GetVersion())
	state := app.NewRunState()
	claims := lifecycle.NewSignalClaims()

	reporter := telemetry.NewReporter(telemetry.ReporterConfig{
		Dir:      cfg.TelemetryDir,
		URL:      cfg.TelemetryURL,
		Disabled: cfg.TelemetryDisabled,
	})
	supervisorOpts := append([]lifecycle.Option{
		lifecycle.WithReporter(reporter),
		lifecycle.WithClaims(claims.Claimed),
	}, opts...)
	supervisor := lifecycle.New(state, cfg.Version, supervisorOpts...)
	supervisor.Install()
	defer supervisor.Close()
	defer supervisor.Recover()

	runApplication = func(cmd *cobra.Command, args []string) error {
		application := app.NewApplication(cfg, state,
			app.WithHelp(func() error { return printHelp(cmd) }),
			app.WithSignalClaimer(claims),
			app.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()),
		)
		return application.Run(cmd.Context(), args)
	}
	rootCmd.SetArgs(args)

	supervisor.Complete(rootCmd.Execute())
}

func printHelp(cmd *cobra.Command) error {
	if v := cmd.Root().Version; v != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "serverless-compose version %s\n\n", v)
	}
	return cmd.Help()
}

func init() {
	// Documentation only, parsing is done by the application.
	rootCmd.Flags().String("stage", "dev", "stage to run the command for")
	rootCmd.Flags().String("service", "", "component to run the command on")
	rootCmd.Flags().Bool("verbose", false, "stream component output and enable debug logs")
}
