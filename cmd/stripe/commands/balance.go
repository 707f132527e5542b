package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/stripekit/internal/constants"
	"github.com/fivetwenty-io/stripekit/pkg/stripe"
)

// NewBalanceCommand creates the balance command group.
func NewBalanceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the account balance",
		Long:  "Show the available and pending balance, and browse balance transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client stripe.Client) error {
				balance, err := client.Balance().Retrieve(ctx)
				if err != nil {
					return fmt.Errorf("failed to retrieve balance: %w", err)
				}

				return render(cmd.OutOrStdout(), balance, listTable(
					[]string{"State", "Amount", "Currency"},
					balanceRows(balance),
				))
			})
		},
	}

	cmd.AddCommand(newBalanceTransactionsCommand())

	return cmd
}

func balanceRows(balance *stripe.Balance) [][]string {
	rows := make([][]string, 0, len(balance.Available)+len(balance.Pending)+len(balance.ConnectReserved))

	for _, group := range []struct {
		state   string
		amounts []stripe.BalanceAmount
	}{
		{"Available", balance.Available},
		{"Pending", balance.Pending},
		{"Connect Reserved", balance.ConnectReserved},
	} {
		for _, amount := range group.amounts {
			rows = append(rows, []string{
				group.state,
				formatAmount(amount.Amount, amount.Currency),
				string(amount.Currency),
			})
		}
	}

	return rows
}

func newBalanceTransactionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"txn", "history"},
		Short:   "Browse balance transactions",
		Long:    "List and inspect the movements of funds on the balance",
	}

	cmd.AddCommand(newBalanceTransactionsListCommand())
	cmd.AddCommand(newBalanceTransactionsGetCommand())

	return cmd
}

func newBalanceTransactionsListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List balance transactions",
		Long:  "List balance transactions, newest first",
		Example: `  stripe balance transactions list --limit 20
  stripe balance transactions list --filter type=topup --filter created.gte=1560000000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := listFilter(cmd)
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client stripe.Client) error {
				page, err := client.Balance().ListTransactions(ctx, filter)
				if err != nil {
					return fmt.Errorf("failed to list balance transactions: %w", err)
				}

				rows := make([][]string, 0, len(page.Data))
				for i := range page.Data {
					rows = append(rows, balanceTransactionRow(&page.Data[i]))
				}

				return render(cmd.OutOrStdout(), page, listTable(balanceTransactionHeaders, rows))
			})
		},
	}

	addListFlags(cmd)

	return cmd
}

func newBalanceTransactionsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get TRANSACTION_ID...",
		Short: "Get balance transactions",
		Long:  "Display one or more balance transactions. Several ids are fetched concurrently.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client stripe.Client) error {
				txns, err := fetchMany(ctx, cmd, args, func(ctx context.Context, id string) (*stripe.BalanceTransaction, error) {
					return client.Balance().RetrieveTransaction(ctx, id)
				})
				if len(txns) > 0 {
					renderErr := renderMany(cmd, txns, balanceTransactionProperties, balanceTransactionHeaders, balanceTransactionRow)
					if renderErr != nil {
						return renderErr
					}
				}

				if err != nil {
					return fmt.Errorf("failed to get balance transaction: %w", err)
				}

				return nil
			})
		},
	}
}

var balanceTransactionHeaders = []string{"ID", "Type", "Amount", "Fee", "Net", "Status", "Available On"}

func balanceTransactionRow(txn *stripe.BalanceTransaction) []string {
	return []string{
		txn.ID,
		txn.Type,
		formatAmount(txn.Amount, txn.Currency),
		formatAmount(txn.Fee, txn.Currency),
		formatAmount(txn.Net, txn.Currency),
		formatStatus(txn.Status),
		formatTime(txn.AvailableOn),
	}
}

func balanceTransactionProperties(txn *stripe.BalanceTransaction) [][]string {
	rows := [][]string{
		{"ID", txn.ID},
		{"Type", txn.Type},
		{"Amount", formatAmount(txn.Amount, txn.Currency)},
		{"Fee", formatAmount(txn.Fee, txn.Currency)},
		{"Net", formatAmount(txn.Net, txn.Currency)},
		{"Status", formatStatus(txn.Status)},
		{"Description", valueOr(txn.Description, constants.None)},
		{"Source", valueOr(txn.Source, constants.None)},
		{"Created", formatTime(txn.Created)},
		{"Available On", formatTime(txn.AvailableOn)},
	}

	if txn.ExchangeRate != nil {
		rows = append(rows, []string{"Exchange Rate", strconv.FormatFloat(*txn.ExchangeRate, 'f', -1, 64)})
	}

	for _, fee := range txn.FeeDetails {
		rows = append(rows, []string{"Fee: " + fee.Type, formatAmount(fee.Amount, fee.Currency)})
	}

	return rows
}
