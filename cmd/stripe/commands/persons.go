package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/stripekit/internal/constants"
	"github.com/fivetwenty-io/stripekit/pkg/stripe"
)

const dobLayout = "2006-01-02"

// NewPersonsCommand creates the persons command group.
func NewPersonsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "persons",
		Aliases: []string{"person"},
		Short:   "Manage the persons of a connected account",
		Long:    "Create, view, update, delete and list the persons associated with a connected account",
	}

	cmd.AddCommand(newPersonsCreateCommand())
	cmd.AddCommand(newPersonsGetCommand())
	cmd.AddCommand(newPersonsUpdateCommand())
	cmd.AddCommand(newPersonsDeleteCommand())
	cmd.AddCommand(newPersonsListCommand())

	return cmd
}

func addPersonFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("first-name", "", "first name")
	flags.String("last-name", "", "last name")
	flags.String("maiden-name", "", "maiden name")
	flags.String("email", "", "email address")
	flags.String("phone", "", "phone number")
	flags.String("gender", "", "gender (female, male)")
	flags.String("dob", "", "date of birth as YYYY-MM-DD")
	flags.String("id-number", "", "government-issued id number")
	flags.String("ssn-last-4", "", "last four digits of the SSN")
	flags.Bool("director", false, "person is a director")
	flags.Bool("executive", false, "person is an executive")
	flags.Bool("owner", false, "person is an owner")
	flags.Bool("representative", false, "person is the account representative")
	flags.Float64("percent-ownership", 0, "percent of the account the person owns")
	flags.String("title", "", "job title")
	flags.String("document-front", "", "file id of the identity document front")
	flags.String("document-back", "", "file id of the identity document back")
	addAddressFlags(cmd)
	addMetadataFlag(cmd)
	addIdempotencyFlag(cmd)
}

// personParams builds person parameters from the flags that were set.
func personParams(cmd *cobra.Command) (*stripe.PersonParams, error) {
	metadata, err := metadataFlag(cmd)
	if err != nil {
		return nil, err
	}

	params := &stripe.PersonParams{
		Address:    addressFlags(cmd),
		Email:      optString(cmd, "email"),
		FirstName:  optString(cmd, "first-name"),
		IDNumber:   optString(cmd, "id-number"),
		LastName:   optString(cmd, "last-name"),
		MaidenName: optString(cmd, "maiden-name"),
		Metadata:   metadata,
		Phone:      optString(cmd, "phone"),
		SSNLast4:   optString(cmd, "ssn-last-4"),
	}

	if gender := optString(cmd, "gender"); gender != nil {
		value := stripe.PersonGender(*gender)
		if value != stripe.PersonGenderFemale && value != stripe.PersonGenderMale {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidGender, *gender)
		}

		params.Gender = &value
	}

	if dob := optString(cmd, "dob"); dob != nil {
		date, err := time.Parse(dobLayout, *dob)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidDOB, *dob)
		}

		params.DOB = &stripe.DateOfBirth{
			Day:   int64(date.Day()),
			Month: int64(date.Month()),
			Year:  int64(date.Year()),
		}
	}

	relationship := &stripe.PersonRelationshipParams{
		Director:         optBool(cmd, "director"),
		Executive:        optBool(cmd, "executive"),
		Owner:            optBool(cmd, "owner"),
		PercentOwnership: optFloat64(cmd, "percent-ownership"),
		Representative:   optBool(cmd, "representative"),
		Title:            optString(cmd, "title"),
	}

	if relationship.Director != nil || relationship.Executive != nil || relationship.Owner != nil ||
		relationship.PercentOwnership != nil || relationship.Representative != nil || relationship.Title != nil {
		params.Relationship = relationship
	}

	params.Verification = &stripe.PersonVerificationParams{
		DocumentBack:  optString(cmd, "document-back"),
		DocumentFront: optString(cmd, "document-front"),
	}

	return params, nil
}

func accountArg(args []string) (string, error) {
	account := strings.TrimSpace(args[0])
	if account == "" {
		return "", constants.ErrAccountRequired
	}

	return account, nil
}

// optFloat64 returns the flag value when the flag was set.
func optFloat64(cmd *cobra.Command, name string) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}

	value, err := cmd.Flags().GetFloat64(name)
	if err != nil {
		return nil
	}

	return &value
}

func newPersonsCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "create ACCOUNT_ID",
		Short:   "Create a person",
		Long:    "Create a person on a connected account",
		Example: `  stripe persons create acct_123 --first-name Jane --last-name Doe --dob 1980-03-02 --owner --percent-ownership 51.5`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := accountArg(args)
			if err != nil {
				return err
			}

			params, err := personParams(cmd)
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client stripe.Client) error {
				person, err := client.Persons().Create(ctx, account, params, requestOptions(cmd)...)
				if err != nil {
					return fmt.Errorf("failed to create person: %w", err)
				}

				return render(cmd.OutOrStdout(), person, propertyTable(personProperties(person)))
			})
		},
	}

	addPersonFlags(cmd)

	return cmd
}

func newPersonsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ACCOUNT_ID PERSON_ID...",
		Short: "Get persons",
		Long:  "Display one or more persons of a connected account. Several ids are fetched concurrently.",
		Args:  cobra.MinimumNArgs(2), //nolint:mnd // account plus at least one person
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := accountArg(args)
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client stripe.Client) error {
				persons, err := fetchMany(ctx, cmd, args[1:], func(ctx context.Context, id string) (*stripe.Person, error) {
					return client.Persons().Retrieve(ctx, account, id)
				})
				if len(persons) > 0 {
					renderErr := renderMany(cmd, persons, personProperties, personHeaders, personRow)
					if renderErr != nil {
						return renderErr
					}
				}

				if err != nil {
					return fmt.Errorf("failed to get person: %w", err)
				}

				return nil
			})
		},
	}
}

func newPersonsUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update ACCOUNT_ID PERSON_ID",
		Short: "Update a person",
		Long:  "Update a person of a connected account. Only flags given are changed.",
		Args:  cobra.ExactArgs(2), //nolint:mnd // account and person
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := accountArg(args)
			if err != nil {
				return err
			}

			params, err := personParams(cmd)
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client stripe.Client) error {
				person, err := client.Persons().Update(ctx, account, args[1], params, requestOptions(cmd)...)
				if err != nil {
					return fmt.Errorf("failed to update person: %w", err)
				}

				return render(cmd.OutOrStdout(), person, propertyTable(personProperties(person)))
			})
		},
	}

	addPersonFlags(cmd)

	return cmd
}

func newPersonsDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete ACCOUNT_ID PERSON_ID",
		Short: "Delete a person",
		Long:  "Delete a person from a connected account",
		Args:  cobra.ExactArgs(2), //nolint:mnd // account and person
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := accountArg(args)
			if err != nil {
				return err
			}

			if !force && !confirm(cmd, fmt.Sprintf("Really delete person '%s' of '%s'?", args[1], account)) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")

				return nil
			}

			return withClient(cmd, func(ctx context.Context, client stripe.Client) error {
				deleted, err := client.Persons().Delete(ctx, account, args[1])
				if err != nil {
					return fmt.Errorf("failed to delete person: %w", err)
				}

				return renderDeleted(cmd, deleted)
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "do not ask for confirmation")

	return cmd
}

func newPersonsListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list ACCOUNT_ID",
		Short:   "List persons",
		Long:    "List the persons of a connected account",
		Example: `  stripe persons list acct_123 --filter relationship.owner=true`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := accountArg(args)
			if err != nil {
				return err
			}

			filter, err := listFilter(cmd)
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client stripe.Client) error {
				page, err := client.Persons().List(ctx, account, filter)
				if err != nil {
					return fmt.Errorf("failed to list persons: %w", err)
				}

				rows := make([][]string, 0, len(page.Data))
				for i := range page.Data {
					rows = append(rows, personRow(&page.Data[i]))
				}

				return render(cmd.OutOrStdout(), page, listTable(personHeaders, rows))
			})
		},
	}

	addListFlags(cmd)

	return cmd
}

var personHeaders = []string{"ID", "Name", "Email", "Roles", "Verification"}

func personName(person *stripe.Person) string {
	first := valueOr(person.FirstName, "")
	last := valueOr(person.LastName, "")

	switch {
	case first == "" && last == "":
		return constants.NotAvailable
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}

func personRoles(relationship *stripe.PersonRelationship) string {
	if relationship == nil {
		return constants.None
	}

	roles := ""

	for _, role := range []struct {
		name string
		set  bool
	}{
		{"director", relationship.Director},
		{"executive", relationship.Executive},
		{"owner", relationship.Owner},
		{"representative", relationship.Representative},
	} {
		if !role.set {
			continue
		}

		if roles != "" {
			roles += ", "
		}

		roles += role.name
	}

	if roles == "" {
		return constants.None
	}

	return roles
}

func personVerification(person *stripe.Person) string {
	if person.Verification == nil {
		return constants.NotAvailable
	}

	return formatStatus(person.Verification.Status)
}

func personRow(person *stripe.Person) []string {
	return []string{
		person.ID,
		personName(person),
		valueOr(person.Email, ""),
		personRoles(person.Relationship),
		personVerification(person),
	}
}

func personProperties(person *stripe.Person) [][]string {
	rows := [][]string{
		{"ID", person.ID},
		{"Account", person.Account},
		{"Name", personName(person)},
		{"Email", valueOr(person.Email, constants.None)},
		{"Phone", valueOr(person.Phone, constants.None)},
		{"Address", formatAddress(person.Address)},
		{"Roles", personRoles(person.Relationship)},
		{"ID Number Provided", strconv.FormatBool(person.IDNumberProvided)},
		{"SSN Last 4 Provided", strconv.FormatBool(person.SSNLast4Provided)},
		{"Verification", personVerification(person)},
		{"Created", formatTime(person.Created)},
		{"Metadata", formatMetadata(person.Metadata)},
	}

	if person.DOB != nil {
		rows = append(rows, []string{"Date of Birth", fmt.Sprintf("%04d-%02d-%02d", person.DOB.Year, person.DOB.Month, person.DOB.Day)})
	}

	if person.Relationship != nil {
		if person.Relationship.PercentOwnership != nil {
			rows = append(rows, []string{"Percent Ownership", strconv.FormatFloat(*person.Relationship.PercentOwnership, 'f', -1, 64)})
		}

		if person.Relationship.Title != nil {
			rows = append(rows, []string{"Title", *person.Relationship.Title})
		}
	}

	return rows
}
