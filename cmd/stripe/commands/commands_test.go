package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/stripekit/internal/constants"
	"github.com/fivetwenty-io/stripekit/pkg/stripe"
)

// The tests in this file change the global viper state and must not run in
// parallel.

type recordedCall struct {
	method string
	path   string
	query  string
	body   string
	header http.Header
}

type apiServer struct {
	*httptest.Server

	mutex sync.Mutex
	calls []recordedCall
}

func newAPIServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *apiServer {
	t.Helper()

	server := &apiServer{}
	server.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		server.mutex.Lock()
		server.calls = append(server.calls, recordedCall{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			body:   string(body),
			header: r.Header.Clone(),
		})
		server.mutex.Unlock()

		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	return server
}

func (s *apiServer) recorded() []recordedCall {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return append([]recordedCall(nil), s.calls...)
}

func configureViper(t *testing.T, baseURL, output string) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("api_key", "sk_test_cli")
	viper.Set("api_base", baseURL)
	viper.Set("output", output)
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	if args == nil {
		args = []string{}
	}

	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(context.Background())

	return stdout.String(), stderr.String(), err
}

const topUpJSON = `{"id":"tu_1","object":"topup","amount":2000,"currency":"usd","created":1560000000,"status":"pending","metadata":{"order":"42"}}`

func TestTopUpsCommands(t *testing.T) {
	t.Run("create sends form parameters", func(t *testing.T) {
		server := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, topUpJSON)
		})
		configureViper(t, server.URL, constants.FormatJSON)

		stdout, _, err := execute(t, NewTopUpsCommand(), "create",
			"--amount", "2000", "--currency", "USD", "--description", "Weekly",
			"--metadata", "order=42", "--idempotency-key", "weekly-1")
		require.NoError(t, err)

		calls := server.recorded()
		require.Len(t, calls, 1)
		assert.Equal(t, http.MethodPost, calls[0].method)
		assert.Equal(t, "/v1/topups", calls[0].path)
		assert.Equal(t, "amount=2000&currency=usd&description=Weekly&metadata[order]=42", calls[0].body)
		assert.Equal(t, "Bearer sk_test_cli", calls[0].header.Get("Authorization"))
		assert.Equal(t, "weekly-1", calls[0].header.Get(stripe.HeaderIdempotencyKey))

		var topUp stripe.TopUp
		require.NoError(t, json.Unmarshal([]byte(stdout), &topUp))
		assert.Equal(t, "tu_1", topUp.ID)
		assert.Equal(t, stripe.TopUpStatusPending, topUp.Status)
	})

	t.Run("create validates before calling", func(t *testing.T) {
		server := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {})
		configureViper(t, server.URL, constants.FormatJSON)

		_, _, err := execute(t, NewTopUpsCommand(), "create", "--amount", "0", "--currency", "usd")
		require.ErrorIs(t, err, constants.ErrAmountRequired)

		_, _, err = execute(t, NewTopUpsCommand(), "create", "--amount", "100", "--currency", "dollars")
		require.ErrorIs(t, err, constants.ErrInvalidCurrency)

		_, _, err = execute(t, NewTopUpsCommand(), "create", "--amount", "100", "--currency", "usd", "--metadata", "broken")
		require.ErrorIs(t, err, constants.ErrInvalidKeyValue)

		assert.Empty(t, server.recorded())
	})

	t.Run("list passes filters as query", func(t *testing.T) {
		server := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"object":"list","url":"/v1/topups","has_more":false,"data":[`+topUpJSON+`]}`)
		})
		configureViper(t, server.URL, constants.FormatTable)

		stdout, _, err := execute(t, NewTopUpsCommand(), "list",
			"--limit", "3", "--filter", "status=pending", "--filter", "created.gte=1560000000")
		require.NoError(t, err)

		calls := server.recorded()
		require.Len(t, calls, 1)
		assert.Equal(t, http.MethodGet, calls[0].method)

		query, err := url.QueryUnescape(calls[0].query)
		require.NoError(t, err)
		assert.Equal(t, "status=pending&created[gte]=1560000000&limit=3", query)
		assert.Empty(t, calls[0].body)

		assert.Contains(t, stdout, "tu_1")
		assert.Contains(t, stdout, "20.00 USD")
		assert.Contains(t, stdout, "Pending")
	})

	t.Run("get fetches several ids and reports failures", func(t *testing.T) {
		server := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/tu_missing") {
				w.Header().Set("Request-Id", "req_missing")
				w.WriteHeader(http.StatusNotFound)
				_, _ = io.WriteString(w, `{"error":{"type":"invalid_request_error","code":"resource_missing","message":"No such topup: tu_missing"}}`)

				return
			}

			_, _ = io.WriteString(w, topUpJSON)
		})
		configureViper(t, server.URL, constants.FormatJSON)

		stdout, stderr, err := execute(t, NewTopUpsCommand(), "get", "tu_1", "tu_missing")
		require.ErrorIs(t, err, constants.ErrSomeOperationsFailed)

		assert.Len(t, server.recorded(), 2)
		assert.Contains(t, stderr, "tu_missing")
		assert.Contains(t, stdout, `"id": "tu_1"`)
	})

	t.Run("api errors are returned", func(t *testing.T) {
		server := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":{"type":"invalid_request_error","message":"Top-up cannot be canceled"}}`)
		})
		configureViper(t, server.URL, constants.FormatJSON)

		_, _, err := execute(t, NewTopUpsCommand(), "cancel", "tu_1")
		require.Error(t, err)

		var apiErr *stripe.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, stripe.ErrorTypeInvalidRequest, apiErr.Type)
		assert.Contains(t, err.Error(), "failed to cancel top-up")
	})

	t.Run("missing api key", func(t *testing.T) {
		configureViper(t, "http://127.0.0.1:1", constants.FormatJSON)
		viper.Set("api_key", "")

		_, _, err := execute(t, NewTopUpsCommand(), "cancel", "tu_1")
		require.ErrorIs(t, err, constants.ErrNoAPIKeyConfigured)
	})
}

func TestBalanceCommand(t *testing.T) {
	server := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"object":"balance","livemode":false,
			"available":[{"amount":2000,"currency":"usd"}],
			"pending":[{"amount":500,"currency":"jpy"}]}`)
	})
	configureViper(t, server.URL, constants.FormatTable)
	viper.Set("account", "acct_123")

	stdout, _, err := execute(t, NewBalanceCommand())
	require.NoError(t, err)

	calls := server.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "/v1/balance", calls[0].path)
	assert.Equal(t, "acct_123", calls[0].header.Get(stripe.HeaderStripeAccount))

	assert.Contains(t, stdout, "20.00 USD")
	assert.Contains(t, stdout, "500 JPY")
}

func TestSourcesCommands(t *testing.T) {
	const sourceJSON = `{"id":"src_1","object":"source","client_secret":"src_client_secret_abcd","flow":"receiver","status":"pending","type":"ach_credit_transfer","usage":"reusable"}`

	server := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, sourceJSON)
	})
	configureViper(t, server.URL, constants.FormatTable)

	stdout, _, err := execute(t, NewSourcesCommand(), "create",
		"--type", "ach_credit_transfer", "--amount", "1000", "--currency", "usd",
		"--owner-email", "jenny@example.com", "--usage", "reusable")
	require.NoError(t, err)
	assert.Contains(t, stdout, "src_1")
	assert.NotContains(t, stdout, "src_client_secret_abcd")

	_, _, err = execute(t, NewSourcesCommand(), "attach", "src_1", "--customer", "cus_1")
	require.NoError(t, err)

	_, _, err = execute(t, NewSourcesCommand(), "get", "src_1", "--client-secret", "src_client_secret_abcd")
	require.NoError(t, err)

	calls := server.recorded()
	require.Len(t, calls, 3)
	assert.Equal(t, "type=ach_credit_transfer&amount=1000&currency=usd&owner[email]=jenny%40example.com&usage=reusable", calls[0].body)
	assert.Equal(t, "/v1/customers/cus_1/sources", calls[1].path)
	assert.Equal(t, "source=src_1", calls[1].body)
	assert.Equal(t, "/v1/sources/src_1", calls[2].path)
	assert.Equal(t, "client_secret=src_client_secret_abcd", calls[2].query)

	_, _, err = execute(t, NewSourcesCommand(), "create", "--type", "carrier_pigeon")
	require.ErrorIs(t, err, constants.ErrInvalidSourceType)
	assert.Len(t, server.recorded(), 3)
}

func TestLocationsDeleteCommand(t *testing.T) {
	server := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":"tml_1","object":"terminal.location","deleted":true}`)
	})
	configureViper(t, server.URL, constants.FormatJSON)

	cmd := NewLocationsCommand()
	cmd.SetIn(strings.NewReader("n\n"))

	stdout, _, err := execute(t, cmd, "delete", "tml_1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Cancelled")
	assert.Empty(t, server.recorded())

	stdout, _, err = execute(t, NewLocationsCommand(), "delete", "tml_1", "--force")
	require.NoError(t, err)

	calls := server.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodDelete, calls[0].method)
	assert.Equal(t, "/v1/terminal/locations/tml_1", calls[0].path)
	assert.Contains(t, stdout, `"deleted": true`)
}

func TestPersonsCommands(t *testing.T) {
	server := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":"person_1","object":"person","account":"acct_1","first_name":"Jane"}`)
	})
	configureViper(t, server.URL, constants.FormatJSON)

	_, _, err := execute(t, NewPersonsCommand(), "update", "acct_1", "person_1", "--email", "jane@example.com")
	require.NoError(t, err)

	calls := server.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "/v1/accounts/acct_1/persons/person_1", calls[0].path)
	assert.Equal(t, "email=jane%40example.com", calls[0].body)

	_, _, err = execute(t, NewPersonsCommand(), "list", " ")
	require.ErrorIs(t, err, constants.ErrAccountRequired)
}

func TestConfigCommands(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	configFile := filepath.Join(t.TempDir(), "nested", configFileName)
	viper.SetConfigFile(configFile)
	viper.Set("output", constants.FormatJSON)

	_, _, err := execute(t, NewConfigCommand(), "set", "api_key", "sk_test_abcd1234")
	require.NoError(t, err)

	_, _, err = execute(t, NewConfigCommand(), "set", "retries", "3")
	require.NoError(t, err)

	data, err := os.ReadFile(configFile)
	require.NoError(t, err)

	var saved Config
	require.NoError(t, yaml.Unmarshal(data, &saved))
	assert.Equal(t, 3, saved.Retries)
	assert.Equal(t, constants.FormatJSON, saved.Output)

	info, err := os.Stat(configFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(constants.ConfigFilePerm), info.Mode().Perm())

	viper.Set("api_key", "sk_test_abcd1234")

	stdout, _, err := execute(t, NewConfigCommand(), "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "***1234")
	assert.NotContains(t, stdout, "sk_test_abcd1234")

	_, _, err = execute(t, NewConfigCommand(), "set", "colour", "blue")
	require.ErrorIs(t, err, ErrUnknownConfigKey)

	_, _, err = execute(t, NewConfigCommand(), "set", "output", "xml")
	require.ErrorIs(t, err, constants.ErrInvalidOutput)

	_, _, err = execute(t, NewConfigCommand(), "set", "retries", "many")
	require.ErrorIs(t, err, ErrInvalidRetries)

	_, _, err = execute(t, NewConfigCommand(), "clear")
	require.NoError(t, err)

	_, err = os.Stat(configFile)
	assert.True(t, os.IsNotExist(err))
}

func TestConfigureCommand(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	configFile := filepath.Join(t.TempDir(), configFileName)
	viper.SetConfigFile(configFile)
	viper.Set("output", constants.FormatJSON)

	cmd := NewConfigureCommand()
	cmd.SetIn(strings.NewReader("  sk_test_piped9876\n"))

	stdout, _, err := execute(t, cmd, "--account", "acct_9")
	require.NoError(t, err)
	assert.Contains(t, stdout, "***9876")

	data, err := os.ReadFile(configFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "api_key: sk_test_piped9876")
	assert.Contains(t, string(data), "account: acct_9")

	empty := NewConfigureCommand()
	empty.SetIn(strings.NewReader("\n"))

	_, _, err = execute(t, empty)
	require.ErrorIs(t, err, constants.ErrEmptyAPIKey)
}

func TestCommandStructure(t *testing.T) {
	tests := []struct {
		cmd         *cobra.Command
		use         string
		subcommands []string
	}{
		{NewTopUpsCommand(), "topups", []string{"create", "get", "update", "list", "cancel"}},
		{NewAuthorizationsCommand(), "authorizations", []string{"get", "list", "update", "approve", "decline"}},
		{NewBalanceCommand(), "balance", []string{"transactions"}},
		{NewLocationsCommand(), "locations", []string{"create", "get", "update", "delete", "list"}},
		{NewPersonsCommand(), "persons", []string{"create", "get", "update", "delete", "list"}},
		{NewSourcesCommand(), "sources", []string{"create", "get", "update", "attach", "detach"}},
		{NewConfigCommand(), "config", []string{"show", "set", "unset", "clear"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.use, tt.cmd.Use)

		names := make([]string, 0, len(tt.cmd.Commands()))
		for _, sub := range tt.cmd.Commands() {
			names = append(names, sub.Name())
		}

		assert.ElementsMatch(t, tt.subcommands, names, tt.use)
	}

	approve, _, err := NewAuthorizationsCommand().Find([]string{"approve"})
	require.NoError(t, err)
	assert.NotNil(t, approve.Flags().Lookup("held-amount"))
	assert.NotNil(t, approve.Flags().Lookup(flagIdempotencyKey))

	deleteCmd, _, err := NewLocationsCommand().Find([]string{"delete"})
	require.NoError(t, err)
	assert.Equal(t, "f", deleteCmd.Flags().Lookup("force").Shorthand)
}
