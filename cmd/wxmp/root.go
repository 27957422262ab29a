package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"
	wxmp "github.com/goliatone/go-wxmp"
	"github.com/goliatone/go-wxmp/adapters/gologger"
	"github.com/goliatone/go-wxmp/core"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	configPath string
	envFile    string
	appID      string
	appSecret  string
	token      string
	baseURL    string
	backup     bool
	debug      bool
	timeout    time.Duration
	logJSON    bool
}

// cli carries what every subcommand needs. lookupEnv and extraOptions are
// swapped in tests.
type cli struct {
	out          io.Writer
	errOut       io.Writer
	flags        globalFlags
	lookupEnv    func(string) (string, bool)
	extraOptions []wxmp.Option
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	return newCLI(out, errOut).rootCommand()
}

func newCLI(out, errOut io.Writer) *cli {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	return &cli{out: out, errOut: errOut, lookupEnv: os.LookupEnv}
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "wxmp",
		Short:         "WeChat platform credentials, signatures and OAuth helpers",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadEnvFile(c.flags.envFile, cmd.Flags().Changed("env-file"))
		},
	}
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&c.flags.configPath, "config", "", "YAML config file")
	flags.StringVar(&c.flags.envFile, "env-file", ".env", "dotenv file loaded before WXMP_* variables are read")
	flags.StringVar(&c.flags.appID, "app-id", "", "application id (env WXMP_APP_ID)")
	flags.StringVar(&c.flags.appSecret, "app-secret", "", "application secret (env WXMP_APP_SECRET)")
	flags.StringVar(&c.flags.token, "token", "", "webhook token (env WXMP_TOKEN)")
	flags.StringVar(&c.flags.baseURL, "base-url", "", "API base URL override (env WXMP_BASE_URL)")
	flags.BoolVar(&c.flags.backup, "backup", false, "use the backup API host")
	flags.BoolVar(&c.flags.debug, "debug", false, "log every request and response")
	flags.DurationVar(&c.flags.timeout, "timeout", 0, "per-request timeout")
	flags.BoolVar(&c.flags.logJSON, "log-json", false, "write logs as JSON")

	root.AddCommand(
		c.tokenCommand(),
		c.ticketCommand(),
		c.signCommand(),
		c.verifyCommand(),
		c.oauthCommand(),
		c.serveWebhookCommand(),
	)
	return root
}

func (c *cli) runtimeConfig() core.Config {
	return core.Config{
		AppID:            c.flags.appID,
		AppSecret:        c.flags.appSecret,
		Token:            c.flags.token,
		BaseURL:          c.flags.baseURL,
		UseBackupBaseURL: c.flags.backup,
		Timeout:          c.flags.timeout,
		Debug:            c.flags.debug,
	}
}

func (c *cli) logger() (*gologger.Logrus, error) {
	level := "info"
	if c.flags.debug {
		level = "debug"
	}
	return gologger.NewLogrusWriter(c.errOut, level, c.flags.logJSON)
}

// client resolves file < env < flags and builds a Client.
func (c *cli) client(opts ...wxmp.Option) (*wxmp.Client, error) {
	raw, err := loadRawConfig(c.flags.configPath, c.lookupEnv)
	if err != nil {
		return nil, err
	}
	logger, err := c.logger()
	if err != nil {
		return nil, err
	}
	options := []wxmp.Option{
		wxmp.WithLoggerProvider(gologger.NewProvider(logger)),
		wxmp.WithConfigProvider(core.NewCfgxConfigProvider(core.StaticRawConfigLoader{Values: raw})),
	}
	options = append(options, c.extraOptions...)
	options = append(options, opts...)
	return wxmp.New(c.runtimeConfig(), options...)
}

func (c *cli) printJSON(value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.out, string(data))
	return err
}

func (c *cli) println(value string) error {
	_, err := fmt.Fprintln(c.out, value)
	return err
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
