// Package cli is the headless diagram editor: it loads a company's tables
// into the diagram controller through the API and edits relationships.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"relmap/internal/config"
	"relmap/internal/diagram"
	"relmap/internal/gateway"
	"relmap/internal/logger"
	"relmap/internal/models"
)

const (
	defaultAPIURL = "http://localhost:8080"

	envAPIURL  = "RELMAP_API"
	envCompany = "RELMAP_COMPANY"
	envToken   = "RELMAP_TOKEN"
)

type options struct {
	apiURL     string
	companyID  string
	token      string
	configPath string
	timeout    time.Duration
	verbose    bool
}

// env is what every subcommand needs once the persistent flags are parsed.
type env struct {
	client  *gateway.Client
	session models.Session
	editor  diagram.Config
	log     logger.LoggerI
}

type envKey struct{}

func envFrom(cmd *cobra.Command) *env {
	e, _ := cmd.Context().Value(envKey{}).(*env)
	return e
}

// NewRootCmd builds the erd command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "erd",
		Short: "Edit the relationships between a company's tables",
		Long: `erd loads the tables of one company from the relmap API, lays them out
on the diagram canvas and creates or removes relationships between columns.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			e, err := opts.build()
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), envKey{}, e))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if e := envFrom(cmd); e != nil {
				logger.Cleanup(e.log)
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.apiURL, "api", getenv(envAPIURL, defaultAPIURL), "relmap API base URL")
	flags.StringVar(&opts.companyID, "company", os.Getenv(envCompany), "company UUID")
	flags.StringVar(&opts.token, "token", os.Getenv(envToken), "bearer token sent with every request")
	flags.StringVar(&opts.configPath, "config", "", "editor config file (default: ./"+config.EditorConfigFileName+" if present)")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Second, "per-request timeout")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log requests to stderr")

	root.AddCommand(
		newShowCommand(),
		newConnectCommand(),
		newDeleteCommand(),
		newSuggestCommand(),
		newMermaidCommand(),
	)
	return root
}

func (o *options) build() (*env, error) {
	if o.companyID == "" {
		return nil, errors.New("--company is required (or set " + envCompany + ")")
	}
	companyID, err := uuid.Parse(o.companyID)
	if err != nil {
		return nil, fmt.Errorf("invalid company id %q: %w", o.companyID, err)
	}

	level := logger.LevelWarn
	if o.verbose {
		level = logger.LevelDebug
	}
	log := logger.NewLogger("erd", level)

	editorCfg, err := config.LoadEditorConfig(o.configPath)
	if err != nil {
		return nil, err
	}

	client, err := gateway.New(o.apiURL, gateway.WithTimeout(o.timeout), gateway.WithLogger(log))
	if err != nil {
		return nil, err
	}

	return &env{
		client:  client,
		session: models.Session{CompanyID: companyID, Token: o.token},
		editor:  diagram.ConfigFromEditor(editorCfg),
		log:     log,
	}, nil
}

// loadController returns a controller with the company's tables and
// relationships loaded. The caller closes it.
func (e *env) loadController(ctx context.Context) (*diagram.Controller, error) {
	c := diagram.New(e.client, e.session, e.editor, e.log)
	if err := c.Load(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
