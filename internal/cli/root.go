package cli

import (
	"fmt"

	"github.com/alimgiray/phonebook/internal/repositories"
	"github.com/alimgiray/phonebook/internal/services"
	"github.com/alimgiray/phonebook/pkg/config"
	"github.com/alimgiray/phonebook/pkg/logger"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags and the services opened for the running command.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	selector       *repositories.Selector
	contactService *services.ContactService
	exportService  *services.ExportService
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the phonebook CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "phonebook",
		Short: "Manage phonebook contacts",
		Long: `Create, search, update, delete and export phonebook contacts.

The storage adapter is chosen by DB_ADAPTER (sqlite, localstorage or mysql)
and the matching settings from the environment or a .env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

// withServices opens storage for the duration of fn and closes it afterwards
func (o *RootOptions) withServices(cmd *cobra.Command, fn func() error) (err error) {
	if err := o.open(cmd); err != nil {
		return err
	}
	defer func() {
		if closeErr := o.close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close storage: %w", closeErr)
		}
	}()

	return fn()
}

// open loads configuration and builds the services backed by the configured adapter
func (o *RootOptions) open(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := "warn"
	if o.Verbose {
		level = cfg.Log.Level
	}
	logger.Init(level)
	logger.SetOutput(cmd.ErrOrStderr())

	o.selector = repositories.NewSelector(cfg.Database)
	repo, err := o.selector.Repository()
	if err != nil {
		return fmt.Errorf("open %s storage: %w", o.selector.Adapter(), err)
	}

	o.contactService = services.NewContactService(repo)
	o.exportService = services.NewExportService(o.contactService)
	return nil
}

func (o *RootOptions) close() error {
	if o.selector == nil {
		return nil
	}
	err := o.selector.Close()
	o.selector = nil
	return err
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
