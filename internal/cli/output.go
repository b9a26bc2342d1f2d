package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/alimgiray/phonebook/internal/models"
	"github.com/alimgiray/phonebook/internal/services"
)

// OutputFormatter renders command results as JSON or human-readable text.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

func newFormatter(opts *RootOptions, w io.Writer) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: w}
}

func (f *OutputFormatter) isJSON() bool {
	return f.Format == "json"
}

func (f *OutputFormatter) encode(v interface{}) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ContactList prints a listing as a table followed by a match count
func (f *OutputFormatter) ContactList(list services.ContactList) error {
	if f.isJSON() {
		return f.encode(list)
	}

	if len(list.Contacts) == 0 {
		_, err := fmt.Fprintf(f.Writer, "No contacts found (%d total)\n", list.Total)
		return err
	}

	tw := tabwriter.NewWriter(f.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPHONE\tEMAIL")
	for _, c := range list.Contacts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, c.FullName(), c.FormattedPhoneNumber(), c.Email)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(f.Writer, "%d of %d contacts\n", len(list.Contacts), list.Total)
	return err
}

// Contact prints every field of a single contact
func (f *OutputFormatter) Contact(c models.Contact) error {
	if f.isJSON() {
		return f.encode(c)
	}

	tw := tabwriter.NewWriter(f.Writer, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", c.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", c.FullName())
	fmt.Fprintf(tw, "Phone:\t%s\n", c.FormattedPhoneNumber())
	if c.Email != "" {
		fmt.Fprintf(tw, "Email:\t%s\n", c.Email)
	}
	if c.Address != "" {
		fmt.Fprintf(tw, "Address:\t%s\n", c.Address)
	}
	if c.Notes != "" {
		fmt.Fprintf(tw, "Notes:\t%s\n", c.Notes)
	}
	fmt.Fprintf(tw, "Created:\t%s\n", c.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(tw, "Updated:\t%s\n", c.UpdatedAt.Format(time.RFC3339))
	return tw.Flush()
}

// Message prints a confirmation; JSON output carries data instead of text
func (f *OutputFormatter) Message(data interface{}, format string, args ...interface{}) error {
	if f.isJSON() {
		return f.encode(data)
	}
	_, err := fmt.Fprintf(f.Writer, format+"\n", args...)
	return err
}
