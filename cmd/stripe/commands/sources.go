package commands

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/stripekit/internal/constants"
	"github.com/fivetwenty-io/stripekit/pkg/stripe"
)

var (
	sourceTypes = []stripe.SourceType{
		stripe.SourceTypeACHCreditTransfer, stripe.SourceTypeACHDebit, stripe.SourceTypeAlipay,
		stripe.SourceTypeBancontact, stripe.SourceTypeCard, stripe.SourceTypeEPS,
		stripe.SourceTypeGiropay, stripe.SourceTypeIDEAL, stripe.SourceTypeMultibanco,
		stripe.SourceTypeP24, stripe.SourceTypeSEPADebit, stripe.SourceTypeSofort,
		stripe.SourceTypeThreeDSecure, stripe.SourceTypeWechat,
	}
	sourceFlows = []stripe.SourceFlow{
		stripe.SourceFlowCodeVerification, stripe.SourceFlowNone,
		stripe.SourceFlowReceiver, stripe.SourceFlowRedirect,
	}
	sourceUsages = []stripe.SourceUsage{stripe.SourceUsageReusable, stripe.SourceUsageSingleUse}
)

// NewSourcesCommand creates the sources command group.
func NewSourcesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sources",
		Aliases: []string{"source", "src"},
		Short:   "Manage payment sources",
		Long:    "Create, view and update payment sources, and attach them to or detach them from customers",
	}

	cmd.AddCommand(newSourcesCreateCommand())
	cmd.AddCommand(newSourcesGetCommand())
	cmd.AddCommand(newSourcesUpdateCommand())
	cmd.AddCommand(newSourcesAttachCommand())
	cmd.AddCommand(newSourcesDetachCommand())

	return cmd
}

// parseEnum checks value against the allowed values.
func parseEnum[E ~string](value string, allowed []E, invalid error) (E, error) {
	candidate := E(strings.ToLower(strings.TrimSpace(value)))
	if !slices.Contains(allowed, candidate) {
		return "", fmt.Errorf("%w: %q", invalid, value)
	}

	return candidate, nil
}

func addSourceOwnerFlags(cmd *cobra.Command) {
	cmd.Flags().String("owner-email", "", "owner email address")
	cmd.Flags().String("owner-name", "", "owner name")
	cmd.Flags().String("owner-phone", "", "owner phone number")
	addAddressFlags(cmd)
}

// sourceOwnerFlags returns the owner given on the command line, or nil when no
// owner flag was set.
func sourceOwnerFlags(cmd *cobra.Command) *stripe.SourceOwnerParams {
	owner := &stripe.SourceOwnerParams{
		Address: addressFlags(cmd),
		Email:   optString(cmd, "owner-email"),
		Name:    optString(cmd, "owner-name"),
		Phone:   optString(cmd, "owner-phone"),
	}

	if owner.Address == nil && owner.Email == nil && owner.Name == nil && owner.Phone == nil {
		return nil
	}

	return owner
}

//nolint:funlen // One flag per source parameter
func newSourcesCreateCommand() *cobra.Command {
	var sourceType string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a source",
		Long:  "Create a payment source",
		Example: `  stripe sources create --type ach_credit_transfer --currency usd --owner-email jenny@example.com
  stripe sources create --type ideal --amount 1099 --currency eur --redirect-return-url https://shop.example.com/return`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sourceType == "" {
				return constants.ErrTypeRequired
			}

			kind, err := parseEnum(sourceType, sourceTypes, constants.ErrInvalidSourceType)
			if err != nil {
				return err
			}

			metadata, err := metadataFlag(cmd)
			if err != nil {
				return err
			}

			params := &stripe.SourceCreateParams{
				Type:                 kind,
				Amount:               optInt64(cmd, "amount"),
				Metadata:             metadata,
				Owner:                sourceOwnerFlags(cmd),
				ReceiverRefundMethod: optString(cmd, "receiver-refund-method"),
				RedirectReturnURL:    optString(cmd, "redirect-return-url"),
				StatementDescriptor:  optString(cmd, "statement-descriptor"),
				Token:                optString(cmd, "token"),
			}

			if params.Amount != nil && *params.Amount < 0 {
				return constants.ErrInvalidAmount
			}

			if currency := optString(cmd, "currency"); currency != nil {
				code, err := parseCurrency(*currency)
				if err != nil {
					return err
				}

				params.Currency = &code
			}

			if flow := optString(cmd, "flow"); flow != nil {
				value, err := parseEnum(*flow, sourceFlows, constants.ErrInvalidFlow)
				if err != nil {
					return err
				}

				params.Flow = &value
			}

			if usage := optString(cmd, "usage"); usage != nil {
				value, err := parseEnum(*usage, sourceUsages, constants.ErrInvalidUsage)
				if err != nil {
					return err
				}

				params.Usage = &value
			}

			return withClient(cmd, func(ctx context.Context, client stripe.Client) error {
				source, err := client.Sources().Create(ctx, params, requestOptions(cmd)...)
				if err != nil {
					return fmt.Errorf("failed to create source: %w", err)
				}

				return render(cmd.OutOrStdout(), source, propertyTable(sourceProperties(source)))
			})
		},
	}

	cmd.Flags().StringVar(&sourceType, "type", "", "source type, e.g. ach_credit_transfer, card, ideal (required)")
	cmd.Flags().Int64("amount", 0, "amount in the smallest currency unit")
	cmd.Flags().String("currency", "", "three-letter currency code")
	cmd.Flags().String("flow", "", "authentication flow (redirect, receiver, code_verification, none)")
	cmd.Flags().String("usage", "", "reusable or single_use")
	cmd.Flags().String("redirect-return-url", "", "URL the customer returns to after a redirect flow")
	cmd.Flags().String("receiver-refund-method", "", "refund attributes method for receiver flows (email, manual, none)")
	cmd.Flags().String("statement-descriptor", "", "statement descriptor")
	cmd.Flags().String("token", "", "token to create the source from")
	addSourceOwnerFlags(cmd)
	addMetadataFlag(cmd)
	addIdempotencyFlag(cmd)

	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func newSourcesGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get SOURCE_ID...",
		Short: "Get sources",
		Long:  "Display one or more sources. Several ids are fetched concurrently.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var params *stripe.SourceRetrieveParams
			if secret := optString(cmd, "client-secret"); secret != nil {
				params = &stripe.SourceRetrieveParams{ClientSecret: secret}
			}

			return withClient(cmd, func(ctx context.Context, client stripe.Client) error {
				sources, err := fetchMany(ctx, cmd, args, func(ctx context.Context, id string) (*stripe.Source, error) {
					return client.Sources().Retrieve(ctx, id, params)
				})
				if len(sources) > 0 {
					renderErr := renderMany(cmd, sources, sourceProperties, sourceHeaders, sourceRow)
					if renderErr != nil {
						return renderErr
					}
				}

				if err != nil {
					return fmt.Errorf("failed to get source: %w", err)
				}

				return nil
			})
		},
	}

	cmd.Flags().String("client-secret", "", "client secret of the source, for publishable key access")

	return cmd
}

func newSourcesUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update SOURCE_ID",
		Short: "Update a source",
		Long:  "Update the owner or metadata of a source. Only flags given are changed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			metadata, err := metadataFlag(cmd)
			if err != nil {
				return err
			}

			params := &stripe.SourceUpdateParams{
				Metadata: metadata,
				Owner:    sourceOwnerFlags(cmd),
			}

			return withClient(cmd, func(ctx context.Context, client stripe.Client) error {
				source, err := client.Sources().Update(ctx, args[0], params, requestOptions(cmd)...)
				if err != nil {
					return fmt.Errorf("failed to update source: %w", err)
				}

				return render(cmd.OutOrStdout(), source, propertyTable(sourceProperties(source)))
			})
		},
	}

	addSourceOwnerFlags(cmd)
	addMetadataFlag(cmd)
	addIdempotencyFlag(cmd)

	return cmd
}

func newSourcesAttachCommand() *cobra.Command {
	var customer string

	cmd := &cobra.Command{
		Use:     "attach SOURCE_ID",
		Short:   "Attach a source to a customer",
		Long:    "Attach a source to a customer so it can be charged again",
		Example: `  stripe sources attach src_123 --customer cus_456`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if customer == "" {
				return constants.ErrCustomerRequired
			}

			return withClient(cmd, func(ctx context.Context, client stripe.Client) error {
				source, err := client.Sources().Attach(ctx, customer, args[0], requestOptions(cmd)...)
				if err != nil {
					return fmt.Errorf("failed to attach source: %w", err)
				}

				return render(cmd.OutOrStdout(), source, propertyTable(sourceProperties(source)))
			})
		},
	}

	cmd.Flags().StringVar(&customer, "customer", "", "customer to attach the source to (required)")
	addIdempotencyFlag(cmd)

	_ = cmd.MarkFlagRequired("customer")

	return cmd
}

func newSourcesDetachCommand() *cobra.Command {
	var customer string

	cmd := &cobra.Command{
		Use:   "detach SOURCE_ID",
		Short: "Detach a source from a customer",
		Long:  "Detach a source from a customer. A detached source cannot be used again.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if customer == "" {
				return constants.ErrCustomerRequired
			}

			return withClient(cmd, func(ctx context.Context, client stripe.Client) error {
				source, err := client.Sources().Detach(ctx, customer, args[0])
				if err != nil {
					return fmt.Errorf("failed to detach source: %w", err)
				}

				return render(cmd.OutOrStdout(), source, propertyTable(sourceProperties(source)))
			})
		},
	}

	cmd.Flags().StringVar(&customer, "customer", "", "customer the source is attached to (required)")

	_ = cmd.MarkFlagRequired("customer")

	return cmd
}

var sourceHeaders = []string{"ID", "Type", "Status", "Flow", "Usage", "Amount", "Customer"}

func sourceAmount(source *stripe.Source) string {
	if source.Amount == nil {
		return constants.NotAvailable
	}

	var currency stripe.Currency
	if source.Currency != nil {
		currency = *source.Currency
	}

	return formatAmount(*source.Amount, currency)
}

func sourceUsage(source *stripe.Source) string {
	if source.Usage == nil {
		return constants.NotAvailable
	}

	return formatStatus(string(*source.Usage))
}

func sourceRow(source *stripe.Source) []string {
	return []string{
		source.ID,
		string(source.Type),
		formatStatus(string(source.Status)),
		formatStatus(string(source.Flow)),
		sourceUsage(source),
		sourceAmount(source),
		valueOr(source.Customer, ""),
	}
}

func sourceProperties(source *stripe.Source) [][]string {
	rows := [][]string{
		{"ID", source.ID},
		{"Type", string(source.Type)},
		{"Status", formatStatus(string(source.Status))},
		{"Flow", formatStatus(string(source.Flow))},
		{"Usage", sourceUsage(source)},
		{"Amount", sourceAmount(source)},
		{"Customer", valueOr(source.Customer, constants.None)},
		{"Statement Descriptor", valueOr(source.StatementDescriptor, constants.None)},
		{"Client Secret", maskAPIKey(source.ClientSecret)},
		{"Created", formatTime(source.Created)},
		{"Metadata", formatMetadata(source.Metadata)},
	}

	if source.Owner != nil {
		rows = append(rows,
			[]string{"Owner Name", valueOr(source.Owner.Name, constants.None)},
			[]string{"Owner Email", valueOr(source.Owner.Email, constants.None)},
			[]string{"Owner Address", formatAddress(source.Owner.Address)},
		)
	}

	if source.Redirect != nil {
		rows = append(rows,
			[]string{"Redirect URL", source.Redirect.URL},
			[]string{"Redirect Status", formatStatus(source.Redirect.Status)},
		)
	}

	return rows
}
