package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/stripekit/internal/constants"
	"github.com/fivetwenty-io/stripekit/pkg/stripe"
	"github.com/fivetwenty-io/stripekit/pkg/stripeclient"
)

// Common string constants used throughout the commands package.
const (
	// JSON formatting.
	jsonIndent = "  "

	// Flag names shared by several commands.
	flagMetadata       = "metadata"
	flagFilter         = "filter"
	flagLimit          = "limit"
	flagIdempotencyKey = "idempotency-key"

	// Table headers.
	headerProperty = "Property"
	headerValue    = "Value"

	zeroDecimalDivisor = 1
	twoDecimalDivisor  = 100
)

// Common static errors used throughout the commands package.
var (
	ErrUnknownConfigKey = errors.New("unknown configuration key")
	ErrIDsRequired      = errors.New("at least one id is required")
	ErrInvalidRetries   = errors.New("retries must be a non-negative integer")
)

// zeroDecimalCurrencies are charged in whole units.
var zeroDecimalCurrencies = map[stripe.Currency]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true, "kmf": true,
	"krw": true, "mga": true, "pyg": true, "rwf": true, "ugx": true, "vnd": true,
	"vuv": true, "xaf": true, "xof": true, "xpf": true,
}

// outputFormat returns the configured output format.
func outputFormat() (string, error) {
	output := strings.ToLower(viper.GetString("output"))

	switch output {
	case "", constants.FormatTable:
		return constants.FormatTable, nil
	case constants.FormatJSON, constants.FormatYAML:
		return output, nil
	default:
		return "", fmt.Errorf("%w: %q", constants.ErrInvalidOutput, output)
	}
}

// render writes value as JSON or YAML, or calls table for table output.
func render(writer io.Writer, value interface{}, table func(table *tablewriter.Table) error) error {
	output, err := outputFormat()
	if err != nil {
		return err
	}

	switch output {
	case constants.FormatJSON:
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", jsonIndent)

		err := encoder.Encode(value)
		if err != nil {
			return fmt.Errorf("failed to encode output as JSON: %w", err)
		}

		return nil
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(writer)

		err := encoder.Encode(value)
		if err != nil {
			return fmt.Errorf("failed to encode output as YAML: %w", err)
		}

		return encoder.Close()
	default:
		tw := tablewriter.NewWriter(writer)

		err := table(tw)
		if err != nil {
			return err
		}

		err = tw.Render()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	}
}

// propertyTable renders rows as a two column Property/Value table.
func propertyTable(rows [][]string) func(table *tablewriter.Table) error {
	return func(table *tablewriter.Table) error {
		table.Header(headerProperty, headerValue)

		for _, row := range rows {
			err := table.Append(row)
			if err != nil {
				return fmt.Errorf("failed to append row: %w", err)
			}
		}

		return nil
	}
}

// listTable renders rows under the given headers.
func listTable(headers []string, rows [][]string) func(table *tablewriter.Table) error {
	return func(table *tablewriter.Table) error {
		header := make([]any, 0, len(headers))
		for _, h := range headers {
			header = append(header, h)
		}

		table.Header(header...)

		for _, row := range rows {
			err := table.Append(row)
			if err != nil {
				return fmt.Errorf("failed to append row: %w", err)
			}
		}

		return nil
	}
}

// parseKeyValues parses key=value flags into a map.
func parseKeyValues(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	result := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", constants.KeyValueParts)
		if len(parts) != constants.KeyValueParts || parts[0] == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidKeyValue, pair)
		}

		result[parts[0]] = parts[1]
	}

	return result, nil
}

// parseFilter turns key=value flags into list filter parameters. Dotted keys
// nest, so created.gte=1 becomes created[gte]=1. Keys keep the order given.
func parseFilter(pairs []string) (*stripe.Params, error) {
	params := stripe.NewParams()

	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", constants.KeyValueParts)
		if len(parts) != constants.KeyValueParts || parts[0] == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidKeyValue, pair)
		}

		path := strings.Split(parts[0], ".")
		target := params

		for _, segment := range path[:len(path)-1] {
			existing, ok := target.Get(segment)

			nested, isParams := existing.(*stripe.Params)
			if !ok || !isParams {
				nested = stripe.NewParams()
				target.Set(segment, nested)
			}

			target = nested
		}

		target.Set(path[len(path)-1], stripe.Str(parts[1]))
	}

	return params, nil
}

// listFilter builds list parameters from the --limit and --filter flags.
func listFilter(cmd *cobra.Command) (*stripe.Params, error) {
	filters, err := cmd.Flags().GetStringArray(flagFilter)
	if err != nil {
		return nil, fmt.Errorf("reading --%s: %w", flagFilter, err)
	}

	params, err := parseFilter(filters)
	if err != nil {
		return nil, err
	}

	limit, err := cmd.Flags().GetInt(flagLimit)
	if err != nil {
		return nil, fmt.Errorf("reading --%s: %w", flagLimit, err)
	}

	if limit > 0 {
		params.Set(flagLimit, stripe.Int(min(limit, constants.MaxPageSize)))
	}

	return params, nil
}

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().Int(flagLimit, constants.DefaultPageSize, "maximum number of objects to return (1-100)")
	cmd.Flags().StringArray(flagFilter, nil, "list filter as key=value, dotted keys nest (created.gte=1560000000)")
}

func addMetadataFlag(cmd *cobra.Command) {
	cmd.Flags().StringArray(flagMetadata, nil, "metadata as key=value (repeatable)")
}

func metadataFlag(cmd *cobra.Command) (stripe.Metadata, error) {
	pairs, err := cmd.Flags().GetStringArray(flagMetadata)
	if err != nil {
		return nil, fmt.Errorf("reading --%s: %w", flagMetadata, err)
	}

	metadata, err := parseKeyValues(pairs)
	if err != nil {
		return nil, err
	}

	return metadata, nil
}

func addIdempotencyFlag(cmd *cobra.Command) {
	cmd.Flags().String(flagIdempotencyKey, "", "idempotency key for safely retrying the request")
}

// requestOptions returns the per-call options set on the command line.
func requestOptions(cmd *cobra.Command) []stripe.RequestOption {
	var opts []stripe.RequestOption

	if flag := cmd.Flags().Lookup(flagIdempotencyKey); flag != nil && flag.Value.String() != "" {
		opts = append(opts, stripe.WithIdempotencyKey(flag.Value.String()))
	}

	return opts
}

// optString returns the flag value when the flag was set.
func optString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}

	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return nil
	}

	return &value
}

// optInt64 returns the flag value when the flag was set.
func optInt64(cmd *cobra.Command, name string) *int64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}

	value, err := cmd.Flags().GetInt64(name)
	if err != nil {
		return nil
	}

	return &value
}

// optBool returns the flag value when the flag was set.
func optBool(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}

	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		return nil
	}

	return &value
}

// parseCurrency validates a three-letter currency code.
func parseCurrency(value string) (stripe.Currency, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if len(value) != 3 {
		return "", fmt.Errorf("%w: %q", constants.ErrInvalidCurrency, value)
	}

	for _, r := range value {
		if r < 'a' || r > 'z' {
			return "", fmt.Errorf("%w: %q", constants.ErrInvalidCurrency, value)
		}
	}

	return stripe.Currency(value), nil
}

// formatAmount renders an amount in the smallest currency unit, e.g.
// 2000 usd as "20.00 USD".
func formatAmount(amount int64, currency stripe.Currency) string {
	code := strings.ToUpper(string(currency))

	divisor := int64(twoDecimalDivisor)
	if zeroDecimalCurrencies[currency] {
		divisor = zeroDecimalDivisor
	}

	if divisor == zeroDecimalDivisor {
		return strconv.FormatInt(amount, 10) + " " + code
	}

	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	return fmt.Sprintf("%s%d.%02d %s", sign, amount/divisor, amount%divisor, code)
}

// formatTime renders a unix timestamp.
func formatTime(unix int64) string {
	if unix == 0 {
		return constants.NotAvailable
	}

	return time.Unix(unix, 0).UTC().Format(time.RFC3339)
}

var titleCaser = cases.Title(language.English)

// formatStatus renders an API status for humans, e.g. "single_use" as
// "Single Use".
func formatStatus(status string) string {
	if status == "" {
		return constants.NotAvailable
	}

	return titleCaser.String(strings.ReplaceAll(status, "_", " "))
}

// valueOr returns *value, or fallback when value is nil or empty.
func valueOr(value *string, fallback string) string {
	if value == nil || *value == "" {
		return fallback
	}

	return *value
}

// formatMetadata renders metadata as sorted key=value pairs.
func formatMetadata(metadata stripe.Metadata) string {
	if len(metadata) == 0 {
		return constants.None
	}

	keys := make([]string, 0, len(metadata))
	for key := range metadata {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+metadata[key])
	}

	return strings.Join(pairs, ", ")
}

// maskAPIKey hides all but the last few characters of a key.
func maskAPIKey(key string) string {
	if key == "" {
		return constants.NotAvailable
	}

	if len(key) <= constants.VisibleKeySuffix {
		return constants.MaskedSecret
	}

	return constants.MaskedSecret + key[len(key)-constants.VisibleKeySuffix:]
}

// stderrLogger writes JSON log lines to stderr. Debug lines are only written
// in verbose mode.
type stderrLogger struct {
	mutex   sync.Mutex
	writer  io.Writer
	verbose bool
}

func newStderrLogger(verbose bool) *stderrLogger {
	return &stderrLogger{writer: os.Stderr, verbose: verbose}
}

func (l *stderrLogger) Debug(msg string, fields map[string]interface{}) {
	if l.verbose {
		l.log("debug", msg, fields)
	}
}

func (l *stderrLogger) Info(msg string, fields map[string]interface{}) {
	l.log("info", msg, fields)
}

func (l *stderrLogger) Warn(msg string, fields map[string]interface{}) {
	l.log("warn", msg, fields)
}

func (l *stderrLogger) Error(msg string, fields map[string]interface{}) {
	l.log("error", msg, fields)
}

func (l *stderrLogger) log(level, msg string, fields map[string]interface{}) {
	payload := map[string]interface{}{
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
		"level": level,
		"msg":   msg,
	}

	for key, value := range fields {
		payload[key] = value
	}

	blob, err := json.Marshal(payload)
	if err != nil {
		blob = []byte(fmt.Sprintf(`{"level":%q,"msg":"log_marshal_failed"}`, level))
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	_, _ = l.writer.Write(append(blob, '\n'))
}

// clientConfig builds the client configuration from flags, environment and
// the config file.
func clientConfig() (*stripe.Config, error) {
	apiKey := viper.GetString("api_key")
	if apiKey == "" {
		return nil, constants.ErrNoAPIKeyConfigured
	}

	verbose := viper.GetBool("verbose")

	config := &stripe.Config{
		APIKey:          apiKey,
		APIVersion:      viper.GetString("api_version"),
		BaseURL:         viper.GetString("api_base"),
		StripeAccount:   viper.GetString("account"),
		RetryMax:        viper.GetInt("retries"),
		AutoIdempotency: viper.GetInt("retries") > 0,
		EventsNATSURL:   viper.GetString("events_nats_url"),
		Debug:           verbose,
	}

	if verbose {
		config.Logger = newStderrLogger(true)
	}

	return config, nil
}

// CreateClient creates an API client from the current configuration.
func CreateClient(ctx context.Context) (stripe.Client, error) {
	config, err := clientConfig()
	if err != nil {
		return nil, err
	}

	client, err := stripeclient.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// withClient creates a client, runs fn and closes the client.
func withClient(cmd *cobra.Command, fn func(ctx context.Context, client stripe.Client) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := CreateClient(ctx)
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	return fn(ctx, client)
}

// fetchMany retrieves several objects concurrently. Objects that could not be
// fetched are reported on stderr and the returned error says some failed.
func fetchMany[T any](ctx context.Context, cmd *cobra.Command, ids []string, get func(ctx context.Context, id string) (*T, error)) ([]*T, error) {
	if len(ids) == 0 {
		return nil, ErrIDsRequired
	}

	if len(ids) == 1 {
		item, err := get(ctx, ids[0])
		if err != nil {
			return nil, err
		}

		return []*T{item}, nil
	}

	builder := stripe.NewBatchBuilder()
	for _, id := range ids {
		builder.AddOperation(stripe.Op(id, func(ctx context.Context) (*T, error) {
			return get(ctx, id)
		}))
	}

	results := stripe.NewBatchExecutor(constants.DefaultBatchConcurrency).Execute(ctx, builder.Build())

	items := make([]*T, 0, len(results))

	for _, result := range results {
		if !result.Success {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", result.ID, result.Error)

			continue
		}

		if item, ok := result.Data.(*T); ok {
			items = append(items, item)
		}
	}

	if failed := stripe.Failed(results); len(failed) > 0 {
		return items, fmt.Errorf("%w: %d of %d", constants.ErrSomeOperationsFailed, len(failed), len(results))
	}

	return items, nil
}

// renderMany renders one object as a property table and several as a list.
func renderMany[T any](cmd *cobra.Command, items []*T, properties func(item *T) [][]string, headers []string, row func(item *T) []string) error {
	if len(items) == 1 {
		return render(cmd.OutOrStdout(), items[0], propertyTable(properties(items[0])))
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, row(item))
	}

	return render(cmd.OutOrStdout(), items, listTable(headers, rows))
}
