package main

import (
	"os"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/mikey/lead-email-generator/internal/adapters/report"
	"github.com/mikey/lead-email-generator/internal/config"
	"github.com/mikey/lead-email-generator/internal/core"
	"github.com/mikey/lead-email-generator/internal/di"
)

var (
	configFile string
	sessionID  string
	verbose    bool
	jsonOutput bool

	app      *di.App
	reporter *report.Console
)

var rootCmd = &cobra.Command{
	Use:          "lead-email-generator",
	Short:        "Generate business email addresses for CSV lead lists",
	Long:         "Groups leads by company, resolves each company's email domain and naming format, and exports the synthesized addresses as CSV.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		mode := cmd.Annotations[sessionAnnotation]

		generated := false
		if sessionID == "" {
			if mode == sessionExisting {
				return eris.Errorf("--session is required for %s", cmd.Name())
			}
			sessionID = uuid.NewString()
			generated = true
		}
		if err := core.ValidateSessionID(sessionID); err != nil {
			return err
		}

		a, err := di.Build(di.Options{ConfigFile: configFile, Verbose: verbose})
		if err != nil {
			return err
		}
		app = a
		reporter = report.NewConsole(cmd.OutOrStdout(), jsonOutput, app.Logger)

		if mode == sessionAny {
			reporter.Session(sessionID, generated)
		}
		return nil
	},
}

func closeApp() {
	if app != nil {
		app.Close()
		app = nil
	}
}

func init() {
	cobra.OnFinalize(closeApp)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "path to config file")
	flags.StringVar(&sessionID, "session", os.Getenv(config.EnvPrefix+"_SESSION"), "session id, generated when empty")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&jsonOutput, "json", false, "print results as JSON")
}

// Session handling per command, stored in cobra annotations
const (
	sessionAnnotation = "session"
	sessionAny        = "any"
	sessionExisting   = "existing"
)

// sessionCommand marks commands that operate on the session and print its id. A new
// session is started when none is given.
func sessionCommand(cmd *cobra.Command) *cobra.Command {
	return annotateSession(cmd, sessionAny)
}

// existingSessionCommand marks commands that only read an earlier session
func existingSessionCommand(cmd *cobra.Command) *cobra.Command {
	return annotateSession(cmd, sessionExisting)
}

func annotateSession(cmd *cobra.Command, mode string) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[sessionAnnotation] = mode
	return cmd
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
