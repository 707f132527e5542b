package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/stripekit/internal/constants"
	"github.com/fivetwenty-io/stripekit/pkg/stripe"
)

// NewTopUpsCommand creates the top-ups command group.
func NewTopUpsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "topups",
		Aliases: []string{"topup", "tu"},
		Short:   "Manage top-ups",
		Long:    "Create, view, update, list and cancel top-ups that add funds to the balance",
	}

	cmd.AddCommand(newTopUpsCreateCommand())
	cmd.AddCommand(newTopUpsGetCommand())
	cmd.AddCommand(newTopUpsUpdateCommand())
	cmd.AddCommand(newTopUpsListCommand())
	cmd.AddCommand(newTopUpsCancelCommand())

	return cmd
}

func newTopUpsCreateCommand() *cobra.Command {
	var (
		amount   int64
		currency string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a top-up",
		Long:  "Add funds to the balance. The amount is in the smallest currency unit.",
		Example: `  stripe topups create --amount 2000 --currency usd --description "Top-up for week of May 31"
  stripe topups create --amount 2000 --currency usd --idempotency-key weekly-2019-05-31`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case amount == 0:
				return constants.ErrAmountRequired
			case amount < 0:
				return constants.ErrInvalidAmount
			case currency == "":
				return constants.ErrCurrencyRequired
			}

			code, err := parseCurrency(currency)
			if err != nil {
				return err
			}

			metadata, err := metadataFlag(cmd)
			if err != nil {
				return err
			}

			params := &stripe.TopUpCreateParams{
				Amount:              amount,
				Currency:            code,
				Description:         optString(cmd, "description"),
				Metadata:            metadata,
				Source:              optString(cmd, "source"),
				StatementDescriptor: optString(cmd, "statement-descriptor"),
				TransferGroup:       optString(cmd, "transfer-group"),
			}

			return withClient(cmd, func(ctx context.Context, client stripe.Client) error {
				topUp, err := client.TopUps().Create(ctx, params, requestOptions(cmd)...)
				if err != nil {
					return fmt.Errorf("failed to create top-up: %w", err)
				}

				return render(cmd.OutOrStdout(), topUp, propertyTable(topUpProperties(topUp)))
			})
		},
	}

	cmd.Flags().Int64Var(&amount, "amount", 0, "amount in the smallest currency unit (required)")
	cmd.Flags().StringVar(&currency, "currency", "", "three-letter currency code (required)")
	cmd.Flags().String("description", "", "description")
	cmd.Flags().String("source", "", "source to pull funds from")
	cmd.Flags().String("statement-descriptor", "", "statement descriptor")
	cmd.Flags().String("transfer-group", "", "transfer group")
	addMetadataFlag(cmd)
	addIdempotencyFlag(cmd)

	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("currency")

	return cmd
}

func newTopUpsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get TOPUP_ID...",
		Short: "Get top-ups",
		Long:  "Display one or more top-ups. Several ids are fetched concurrently.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client stripe.Client) error {
				topUps, err := fetchMany(ctx, cmd, args, func(ctx context.Context, id string) (*stripe.TopUp, error) {
					return client.TopUps().Retrieve(ctx, id)
				})
				if len(topUps) > 0 {
					renderErr := renderMany(cmd, topUps, topUpProperties, topUpHeaders, topUpRow)
					if renderErr != nil {
						return renderErr
					}
				}

				if err != nil {
					return fmt.Errorf("failed to get top-up: %w", err)
				}

				return nil
			})
		},
	}
}

func newTopUpsUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update TOPUP_ID",
		Short: "Update a top-up",
		Long:  "Update the description or metadata of a top-up. Only flags given are changed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			metadata, err := metadataFlag(cmd)
			if err != nil {
				return err
			}

			params := &stripe.TopUpUpdateParams{
				Description: optString(cmd, "description"),
				Metadata:    metadata,
			}

			return withClient(cmd, func(ctx context.Context, client stripe.Client) error {
				topUp, err := client.TopUps().Update(ctx, args[0], params, requestOptions(cmd)...)
				if err != nil {
					return fmt.Errorf("failed to update top-up: %w", err)
				}

				return render(cmd.OutOrStdout(), topUp, propertyTable(topUpProperties(topUp)))
			})
		},
	}

	cmd.Flags().String("description", "", "description")
	addMetadataFlag(cmd)
	addIdempotencyFlag(cmd)

	return cmd
}

func newTopUpsListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List top-ups",
		Long:  "List top-ups, newest first",
		Example: `  stripe topups list --filter status=pending
  stripe topups list --filter created.gte=1560000000 --limit 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := listFilter(cmd)
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client stripe.Client) error {
				page, err := client.TopUps().List(ctx, filter)
				if err != nil {
					return fmt.Errorf("failed to list top-ups: %w", err)
				}

				rows := make([][]string, 0, len(page.Data))
				for i := range page.Data {
					rows = append(rows, topUpRow(&page.Data[i]))
				}

				return render(cmd.OutOrStdout(), page, listTable(topUpHeaders, rows))
			})
		},
	}

	addListFlags(cmd)

	return cmd
}

func newTopUpsCancelCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel TOPUP_ID",
		Short: "Cancel a top-up",
		Long:  "Cancel a pending top-up",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client stripe.Client) error {
				topUp, err := client.TopUps().Cancel(ctx, args[0], requestOptions(cmd)...)
				if err != nil {
					return fmt.Errorf("failed to cancel top-up: %w", err)
				}

				return render(cmd.OutOrStdout(), topUp, propertyTable(topUpProperties(topUp)))
			})
		},
	}

	addIdempotencyFlag(cmd)

	return cmd
}

var topUpHeaders = []string{"ID", "Amount", "Status", "Description", "Created"}

func topUpRow(topUp *stripe.TopUp) []string {
	return []string{
		topUp.ID,
		formatAmount(topUp.Amount, topUp.Currency),
		formatStatus(string(topUp.Status)),
		valueOr(topUp.Description, ""),
		formatTime(topUp.Created),
	}
}

func topUpProperties(topUp *stripe.TopUp) [][]string {
	rows := [][]string{
		{"ID", topUp.ID},
		{"Amount", formatAmount(topUp.Amount, topUp.Currency)},
		{"Status", formatStatus(string(topUp.Status))},
		{"Description", valueOr(topUp.Description, constants.None)},
		{"Statement Descriptor", valueOr(topUp.StatementDescriptor, constants.None)},
		{"Transfer Group", valueOr(topUp.TransferGroup, constants.None)},
		{"Balance Transaction", valueOr(topUp.BalanceTransaction, constants.None)},
		{"Created", formatTime(topUp.Created)},
		{"Metadata", formatMetadata(topUp.Metadata)},
	}

	if topUp.ExpectedAvailabilityDate != nil {
		rows = append(rows, []string{"Expected Availability", formatTime(*topUp.ExpectedAvailabilityDate)})
	}

	if topUp.Source != nil {
		rows = append(rows, []string{"Source", topUp.Source.ID})
	}

	if topUp.FailureCode != nil {
		rows = append(rows, []string{"Failure", *topUp.FailureCode + ": " + valueOr(topUp.FailureMessage, "")})
	}

	return rows
}
