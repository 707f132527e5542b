package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/stripekit/internal/constants"
	"github.com/fivetwenty-io/stripekit/pkg/stripe"
)

// NewAuthorizationsCommand creates the issuing authorizations command group.
func NewAuthorizationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "authorizations",
		Aliases: []string{"authorization", "auth"},
		Short:   "Manage issuing authorizations",
		Long:    "View, list, update, approve and decline issuing card authorizations",
	}

	cmd.AddCommand(newAuthorizationsGetCommand())
	cmd.AddCommand(newAuthorizationsListCommand())
	cmd.AddCommand(newAuthorizationsUpdateCommand())
	cmd.AddCommand(newAuthorizationsApproveCommand())
	cmd.AddCommand(newAuthorizationsDeclineCommand())

	return cmd
}

func newAuthorizationsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get AUTHORIZATION_ID...",
		Short: "Get authorizations",
		Long:  "Display one or more authorizations. Several ids are fetched concurrently.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client stripe.Client) error {
				auths, err := fetchMany(ctx, cmd, args, func(ctx context.Context, id string) (*stripe.Authorization, error) {
					return client.Authorizations().Retrieve(ctx, id)
				})
				if len(auths) > 0 {
					renderErr := renderMany(cmd, auths, authorizationProperties, authorizationHeaders, authorizationRow)
					if renderErr != nil {
						return renderErr
					}
				}

				if err != nil {
					return fmt.Errorf("failed to get authorization: %w", err)
				}

				return nil
			})
		},
	}
}

func newAuthorizationsListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List authorizations",
		Long:    "List issuing authorizations, newest first",
		Example: `  stripe authorizations list --filter status=pending --filter card=ic_123`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := listFilter(cmd)
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client stripe.Client) error {
				page, err := client.Authorizations().List(ctx, filter)
				if err != nil {
					return fmt.Errorf("failed to list authorizations: %w", err)
				}

				rows := make([][]string, 0, len(page.Data))
				for i := range page.Data {
					rows = append(rows, authorizationRow(&page.Data[i]))
				}

				return render(cmd.OutOrStdout(), page, listTable(authorizationHeaders, rows))
			})
		},
	}

	addListFlags(cmd)

	return cmd
}

func newAuthorizationsUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update AUTHORIZATION_ID",
		Short: "Update an authorization",
		Long:  "Set metadata on an authorization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			metadata, err := metadataFlag(cmd)
			if err != nil {
				return err
			}

			params := &stripe.AuthorizationUpdateParams{Metadata: metadata}

			return withClient(cmd, func(ctx context.Context, client stripe.Client) error {
				auth, err := client.Authorizations().Update(ctx, args[0], params, requestOptions(cmd)...)
				if err != nil {
					return fmt.Errorf("failed to update authorization: %w", err)
				}

				return render(cmd.OutOrStdout(), auth, propertyTable(authorizationProperties(auth)))
			})
		},
	}

	addMetadataFlag(cmd)
	addIdempotencyFlag(cmd)

	return cmd
}

func newAuthorizationsApproveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approve AUTHORIZATION_ID",
		Short: "Approve an authorization",
		Long:  "Approve a pending authorization, optionally holding less than the requested amount",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			heldAmount := optInt64(cmd, "held-amount")
			if heldAmount != nil && *heldAmount < 0 {
				return constants.ErrInvalidAmount
			}

			metadata, err := metadataFlag(cmd)
			if err != nil {
				return err
			}

			params := &stripe.AuthorizationApproveParams{
				HeldAmount: heldAmount,
				Metadata:   metadata,
			}

			return withClient(cmd, func(ctx context.Context, client stripe.Client) error {
				auth, err := client.Authorizations().Approve(ctx, args[0], params, requestOptions(cmd)...)
				if err != nil {
					return fmt.Errorf("failed to approve authorization: %w", err)
				}

				return render(cmd.OutOrStdout(), auth, propertyTable(authorizationProperties(auth)))
			})
		},
	}

	cmd.Flags().Int64("held-amount", 0, "amount to hold, when the authorization allows it")
	addMetadataFlag(cmd)
	addIdempotencyFlag(cmd)

	return cmd
}

func newAuthorizationsDeclineCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decline AUTHORIZATION_ID",
		Short: "Decline an authorization",
		Long:  "Decline a pending authorization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client stripe.Client) error {
				auth, err := client.Authorizations().Decline(ctx, args[0], requestOptions(cmd)...)
				if err != nil {
					return fmt.Errorf("failed to decline authorization: %w", err)
				}

				return render(cmd.OutOrStdout(), auth, propertyTable(authorizationProperties(auth)))
			})
		},
	}

	addIdempotencyFlag(cmd)

	return cmd
}

var authorizationHeaders = []string{"ID", "Amount", "Held", "Status", "Approved", "Merchant", "Created"}

func authorizationRow(auth *stripe.Authorization) []string {
	merchant := constants.NotAvailable
	if auth.MerchantData != nil {
		merchant = valueOr(auth.MerchantData.Name, auth.MerchantData.NetworkID)
	}

	return []string{
		auth.ID,
		formatAmount(auth.PendingAuthorizedAmount+auth.AuthorizedAmount, auth.AuthorizedCurrency),
		formatAmount(auth.PendingHeldAmount+auth.HeldAmount, auth.HeldCurrency),
		formatStatus(string(auth.Status)),
		strconv.FormatBool(auth.Approved),
		merchant,
		formatTime(auth.Created),
	}
}

func authorizationProperties(auth *stripe.Authorization) [][]string {
	rows := [][]string{
		{"ID", auth.ID},
		{"Status", formatStatus(string(auth.Status))},
		{"Approved", strconv.FormatBool(auth.Approved)},
		{"Method", formatStatus(auth.AuthorizationMethod)},
		{"Authorized", formatAmount(auth.AuthorizedAmount, auth.AuthorizedCurrency)},
		{"Pending Authorized", formatAmount(auth.PendingAuthorizedAmount, auth.AuthorizedCurrency)},
		{"Held", formatAmount(auth.HeldAmount, auth.HeldCurrency)},
		{"Pending Held", formatAmount(auth.PendingHeldAmount, auth.HeldCurrency)},
		{"Held Amount Controllable", strconv.FormatBool(auth.IsHeldAmountControllable)},
		{"Cardholder", valueOr(auth.Cardholder, constants.None)},
		{"Wallet", valueOr(auth.Wallet, constants.None)},
		{"Created", formatTime(auth.Created)},
		{"Metadata", formatMetadata(auth.Metadata)},
	}

	if auth.Card != nil {
		rows = append(rows, []string{"Card", fmt.Sprintf("%s (%s ****%s)", auth.Card.ID, auth.Card.Brand, auth.Card.Last4)})
	}

	if auth.MerchantData != nil {
		rows = append(rows,
			[]string{"Merchant", valueOr(auth.MerchantData.Name, auth.MerchantData.NetworkID)},
			[]string{"Merchant Category", auth.MerchantData.Category},
		)
	}

	return rows
}
