package main

import (
	"bytes"
	"context"
	"flag"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/google/subcommands"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tabsplit/internal/auth"
	"github.com/mmynk/tabsplit/internal/calculator"
	"github.com/mmynk/tabsplit/internal/metrics"
	"github.com/mmynk/tabsplit/internal/middleware"
	"github.com/mmynk/tabsplit/internal/service"
	"github.com/mmynk/tabsplit/pkg/api"
)

// run executes one subcommand with args and returns its output.
func run(t *testing.T, cmd subcommands.Command, args ...string) (string, subcommands.ExitStatus) {
	t.Helper()

	var out bytes.Buffer
	old := stdout
	stdout = &out
	defer func() { stdout = old }()

	f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(f)
	require.NoError(t, f.Parse(args))

	status := cmd.Execute(context.Background(), f)
	return out.String(), status
}

// writeExample writes the sample ledger to a temp file.
func writeExample(t *testing.T, args ...string) string {
	t.Helper()
	out, status := run(t, &exampleCmd{}, args...)
	require.Equal(t, subcommands.ExitSuccess, status)

	path := filepath.Join(t.TempDir(), "dinner.json")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o644))
	return path
}

func TestExample(t *testing.T) {
	out, status := run(t, &exampleCmd{})
	require.Equal(t, subcommands.ExitSuccess, status)

	doc, err := api.DecodeDocument([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "cashOnly", doc.PaymentMode)
	require.Len(t, doc.Participants, 3)
	assert.True(t, doc.Participants[0].IsPayer, "first participant added becomes the payer")
	require.NotNil(t, doc.Charges[0].AllocateByTaxableBase)
	assert.True(t, *doc.Charges[0].AllocateByTaxableBase)

	_, status = run(t, &exampleCmd{}, "-mode", "cheque")
	assert.Equal(t, subcommands.ExitUsageError, status)
}

func TestCompute_Report(t *testing.T) {
	path := writeExample(t)

	out, status := run(t, &computeCmd{}, path)
	require.Equal(t, subcommands.ExitSuccess, status)

	for _, want := range []string{
		"Grand total  $54.78",
		"Due $54.78, cash on the table $30.00.",
		"D withdraws $24.78 in cash and pays the bill.",
		"Adam pays D $11.02",
		"Adam pays Joe $3.50",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Warnings")
}

func TestCompute_CardMode(t *testing.T) {
	path := writeExample(t)

	out, status := run(t, &computeCmd{}, "-mode", "cardAllowed", path)
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "D puts $24.78 on their card.")
	assert.Contains(t, out, "Adam pays D $11.02")
}

func TestCompute_EveryoneSquare(t *testing.T) {
	path := filepath.Join(t.TempDir(), "square.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "participants": [
    {"id": "a", "name": "Ann", "cashOnHand": 10},
    {"id": "b", "name": "Ben", "cashOnHand": 10}
  ],
  "items": [{"id": "pizza", "price": 20, "ownerIds": ["a", "b"]}],
  "charges": []
}`), 0o644))

	out, status := run(t, &computeCmd{}, path)
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "The cash covers the bill.")
	assert.Contains(t, out, "Everyone is square.")
}

func TestCompute_JSON(t *testing.T) {
	path := writeExample(t)

	out, status := run(t, &computeCmd{}, "-json", path)
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, `"shortfallToCollect": 24.78`)
}

func TestCompute_Remote(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	m := metrics.New(prometheus.NewRegistry())
	path, handler := api.NewLedgerServiceHandler(
		service.NewLedgerService(calculator.Options{}, m),
		connect.WithInterceptors(middleware.RequireToken(jwtManager)),
	)
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)
	defer server.Close()

	token, err := jwtManager.Generate("cli")
	require.NoError(t, err)

	ledger := writeExample(t)
	out, status := run(t, &computeCmd{}, "-server", server.URL, "-token", token, ledger)
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "Adam pays Joe $3.50")

	_, status = run(t, &computeCmd{}, "-server", server.URL, "-token", "", ledger)
	assert.Equal(t, subcommands.ExitFailure, status)
}

func TestValidate(t *testing.T) {
	out, status := run(t, &validateCmd{}, writeExample(t))
	assert.Equal(t, subcommands.ExitSuccess, status)
	assert.Equal(t, "ok\n", out)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "participants": [{"id": "a"}, {"id": "b"}],
  "items": [],
  "charges": [],
  "expenses": [{"id": "cab", "amount": 90, "participantIds": ["a", "b"], "splitMode": "custom",
    "shares": [{"participantId": "a", "percent": 50}, {"participantId": "b", "percent": 40}]}]
}`), 0o644))
	out, status = run(t, &validateCmd{}, path)
	assert.Equal(t, subcommands.ExitFailure, status)
	assert.True(t, strings.HasPrefix(out, "invalid: custom shares do not sum to 100"), out)
}

func TestToken(t *testing.T) {
	out, status := run(t, &tokenCmd{}, "-secret", "s3cret", "kiosk")
	require.Equal(t, subcommands.ExitSuccess, status)

	claims, err := auth.NewJWTManager("s3cret", time.Hour).Validate(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "kiosk", claims.Client)

	_, status = run(t, &tokenCmd{}, "-secret", "", "kiosk")
	assert.Equal(t, subcommands.ExitUsageError, status)
}
