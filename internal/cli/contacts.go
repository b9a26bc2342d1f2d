package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alimgiray/phonebook/internal/models"
	"github.com/alimgiray/phonebook/internal/services"
	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list [query]",
		Short: "List contacts, optionally filtered by a search query",
		Long: `List contacts ordered by first and last name.

A query matches case-insensitively against first name, last name, phone
number and email.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withServices(cmd, func() error {
				list, err := rootOpts.contactService.ListContacts(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				return newFormatter(rootOpts, cmd.OutOrStdout()).ContactList(list)
			})
		},
	}
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withServices(cmd, func() error {
				contact, err := rootOpts.contactService.GetContact(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return newFormatter(rootOpts, cmd.OutOrStdout()).Contact(contact)
			})
		},
	}
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	var input services.CreateContactInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withServices(cmd, func() error {
				contact, err := rootOpts.contactService.CreateContact(cmd.Context(), input)
				if err != nil {
					return err
				}
				return newFormatter(rootOpts, cmd.OutOrStdout()).Contact(contact)
			})
		},
	}

	cmd.Flags().StringVar(&input.FirstName, "first", "", "first name (required)")
	cmd.Flags().StringVar(&input.LastName, "last", "", "last name (required)")
	cmd.Flags().StringVar(&input.PhoneNumber, "phone", "", "phone number (required)")
	cmd.Flags().StringVar(&input.Email, "email", "", "email address")
	cmd.Flags().StringVar(&input.Address, "address", "", "postal address")
	cmd.Flags().StringVar(&input.Notes, "notes", "", "free-form notes")
	_ = cmd.MarkFlagRequired("first")
	_ = cmd.MarkFlagRequired("last")
	_ = cmd.MarkFlagRequired("phone")

	return cmd
}

// patchFlags maps update flags onto contact fields
var patchFlags = []struct {
	name  string
	usage string
	field func(*models.ContactPatch) **string
}{
	{"first", "new first name", func(p *models.ContactPatch) **string { return &p.FirstName }},
	{"last", "new last name", func(p *models.ContactPatch) **string { return &p.LastName }},
	{"phone", "new phone number", func(p *models.ContactPatch) **string { return &p.PhoneNumber }},
	{"email", "new email address, empty to clear", func(p *models.ContactPatch) **string { return &p.Email }},
	{"address", "new postal address, empty to clear", func(p *models.ContactPatch) **string { return &p.Address }},
	{"notes", "new notes, empty to clear", func(p *models.ContactPatch) **string { return &p.Notes }},
}

// NewUpdateCommand creates the update command. Only flags given on the
// command line are applied.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	values := make(map[string]*string, len(patchFlags))

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of an existing contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch models.ContactPatch
			for _, pf := range patchFlags {
				if cmd.Flags().Changed(pf.name) {
					*pf.field(&patch) = values[pf.name]
				}
			}
			if patch.IsEmpty() {
				return errors.New("nothing to update: pass at least one of --first, --last, --phone, --email, --address or --notes")
			}

			return rootOpts.withServices(cmd, func() error {
				contact, err := rootOpts.contactService.UpdateContact(cmd.Context(), args[0], patch)
				if err != nil {
					return err
				}
				return newFormatter(rootOpts, cmd.OutOrStdout()).Contact(contact)
			})
		},
	}

	for _, pf := range patchFlags {
		values[pf.name] = cmd.Flags().String(pf.name, "", pf.usage)
	}

	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return rootOpts.withServices(cmd, func() error {
				if err := rootOpts.contactService.DeleteContact(cmd.Context(), id); err != nil {
					return err
				}
				return newFormatter(rootOpts, cmd.OutOrStdout()).Message(
					map[string]string{"deleted": id},
					"Deleted contact %s", id,
				)
			})
		},
	}
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export [query]",
		Short: "Export contacts to an XLSX workbook",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withServices(cmd, func() error {
				return runExport(cmd, rootOpts, out, strings.Join(args, " "))
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "contacts.xlsx", "output file")

	return cmd
}

func runExport(cmd *cobra.Command, opts *RootOptions, path, query string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	count, err := opts.exportService.ExportXLSX(cmd.Context(), query, f)
	if err != nil {
		return err
	}

	return newFormatter(opts, cmd.OutOrStdout()).Message(
		map[string]interface{}{"exported": count, "path": path},
		"Exported %d contacts to %s", count, path,
	)
}
