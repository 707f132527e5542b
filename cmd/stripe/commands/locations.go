package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/stripekit/internal/constants"
	"github.com/fivetwenty-io/stripekit/pkg/stripe"
)

// NewLocationsCommand creates the terminal locations command group.
func NewLocationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "locations",
		Aliases: []string{"location", "loc"},
		Short:   "Manage terminal locations",
		Long:    "Create, view, update, delete and list terminal locations",
	}

	cmd.AddCommand(newLocationsCreateCommand())
	cmd.AddCommand(newLocationsGetCommand())
	cmd.AddCommand(newLocationsUpdateCommand())
	cmd.AddCommand(newLocationsDeleteCommand())
	cmd.AddCommand(newLocationsListCommand())

	return cmd
}

// Address flag names.
const (
	flagLine1      = "line1"
	flagLine2      = "line2"
	flagCity       = "city"
	flagState      = "state"
	flagPostalCode = "postal-code"
	flagCountry    = "country"
)

func addAddressFlags(cmd *cobra.Command) {
	cmd.Flags().String(flagLine1, "", "address line 1")
	cmd.Flags().String(flagLine2, "", "address line 2")
	cmd.Flags().String(flagCity, "", "city")
	cmd.Flags().String(flagState, "", "state or province")
	cmd.Flags().String(flagPostalCode, "", "postal code")
	cmd.Flags().String(flagCountry, "", "two-letter country code")
}

// addressFlags returns the address given on the command line, or nil when no
// address flag was set.
func addressFlags(cmd *cobra.Command) *stripe.Address {
	address := &stripe.Address{
		City:       optString(cmd, flagCity),
		Country:    optString(cmd, flagCountry),
		Line1:      optString(cmd, flagLine1),
		Line2:      optString(cmd, flagLine2),
		PostalCode: optString(cmd, flagPostalCode),
		State:      optString(cmd, flagState),
	}

	if address.City == nil && address.Country == nil && address.Line1 == nil &&
		address.Line2 == nil && address.PostalCode == nil && address.State == nil {
		return nil
	}

	return address
}

func formatAddress(address *stripe.Address) string {
	if address == nil {
		return constants.None
	}

	var parts []string

	for _, part := range []*string{address.Line1, address.Line2, address.City, address.State, address.PostalCode, address.Country} {
		if part != nil && *part != "" {
			parts = append(parts, *part)
		}
	}

	if len(parts) == 0 {
		return constants.None
	}

	return strings.Join(parts, ", ")
}

func newLocationsCreateCommand() *cobra.Command {
	var displayName string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a terminal location",
		Long:  "Create a terminal location to group readers",
		Example: `  stripe locations create --display-name "HQ" --line1 "1 Main St" --city "San Francisco" \
    --state CA --postal-code 94111 --country US`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(displayName) == "" {
				return constants.ErrDisplayNameRequired
			}

			metadata, err := metadataFlag(cmd)
			if err != nil {
				return err
			}

			params := &stripe.LocationCreateParams{
				DisplayName: displayName,
				Metadata:    metadata,
			}

			if address := addressFlags(cmd); address != nil {
				params.Address = *address
			}

			return withClient(cmd, func(ctx context.Context, client stripe.Client) error {
				location, err := client.Locations().Create(ctx, params, requestOptions(cmd)...)
				if err != nil {
					return fmt.Errorf("failed to create location: %w", err)
				}

				return render(cmd.OutOrStdout(), location, propertyTable(locationProperties(location)))
			})
		},
	}

	cmd.Flags().StringVar(&displayName, "display-name", "", "display name (required)")
	addAddressFlags(cmd)
	addMetadataFlag(cmd)
	addIdempotencyFlag(cmd)

	_ = cmd.MarkFlagRequired("display-name")

	return cmd
}

func newLocationsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get LOCATION_ID...",
		Short: "Get terminal locations",
		Long:  "Display one or more terminal locations. Several ids are fetched concurrently.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client stripe.Client) error {
				locations, err := fetchMany(ctx, cmd, args, func(ctx context.Context, id string) (*stripe.Location, error) {
					return client.Locations().Retrieve(ctx, id)
				})
				if len(locations) > 0 {
					renderErr := renderMany(cmd, locations, locationProperties, locationHeaders, locationRow)
					if renderErr != nil {
						return renderErr
					}
				}

				if err != nil {
					return fmt.Errorf("failed to get location: %w", err)
				}

				return nil
			})
		},
	}
}

func newLocationsUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update LOCATION_ID",
		Short: "Update a terminal location",
		Long:  "Update a terminal location. Only flags given are changed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			metadata, err := metadataFlag(cmd)
			if err != nil {
				return err
			}

			params := &stripe.LocationUpdateParams{
				Address:     addressFlags(cmd),
				DisplayName: optString(cmd, "display-name"),
				Metadata:    metadata,
			}

			return withClient(cmd, func(ctx context.Context, client stripe.Client) error {
				location, err := client.Locations().Update(ctx, args[0], params, requestOptions(cmd)...)
				if err != nil {
					return fmt.Errorf("failed to update location: %w", err)
				}

				return render(cmd.OutOrStdout(), location, propertyTable(locationProperties(location)))
			})
		},
	}

	cmd.Flags().String("display-name", "", "display name")
	addAddressFlags(cmd)
	addMetadataFlag(cmd)
	addIdempotencyFlag(cmd)

	return cmd
}

func newLocationsDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete LOCATION_ID",
		Short: "Delete a terminal location",
		Long:  "Delete a terminal location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force && !confirm(cmd, fmt.Sprintf("Really delete location '%s'?", args[0])) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")

				return nil
			}

			return withClient(cmd, func(ctx context.Context, client stripe.Client) error {
				deleted, err := client.Locations().Delete(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to delete location: %w", err)
				}

				return renderDeleted(cmd, deleted)
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "do not ask for confirmation")

	return cmd
}

func newLocationsListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List terminal locations",
		Long:  "List terminal locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := listFilter(cmd)
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client stripe.Client) error {
				page, err := client.Locations().List(ctx, filter)
				if err != nil {
					return fmt.Errorf("failed to list locations: %w", err)
				}

				rows := make([][]string, 0, len(page.Data))
				for i := range page.Data {
					rows = append(rows, locationRow(&page.Data[i]))
				}

				return render(cmd.OutOrStdout(), page, listTable(locationHeaders, rows))
			})
		},
	}

	addListFlags(cmd)

	return cmd
}

var locationHeaders = []string{"ID", "Display Name", "Address"}

func locationRow(location *stripe.Location) []string {
	return []string{location.ID, location.DisplayName, formatAddress(location.Address)}
}

func locationProperties(location *stripe.Location) [][]string {
	return [][]string{
		{"ID", location.ID},
		{"Display Name", location.DisplayName},
		{"Address", formatAddress(location.Address)},
		{"Metadata", formatMetadata(location.Metadata)},
	}
}

// confirm asks a yes/no question on the command's streams.
func confirm(cmd *cobra.Command, question string) bool {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (y/N): ", question)

	var response string

	_, _ = fmt.Fscanln(cmd.InOrStdin(), &response)

	return response == "y" || response == "Y"
}

func renderDeleted(cmd *cobra.Command, deleted *stripe.DeletedObject) error {
	return render(cmd.OutOrStdout(), deleted, propertyTable([][]string{
		{"ID", deleted.ID},
		{"Object", deleted.Object},
		{"Deleted", fmt.Sprintf("%t", deleted.Deleted)},
	}))
}
