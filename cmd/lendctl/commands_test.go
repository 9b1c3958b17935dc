package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const dealJSON = `{"program_id":"conventional_cre","state":"CA","terms":{"approved_amount":2000000,"interest_rate":0.075,"term_months":120,"amortization_months":300,"ltv":0.7,"late_fee_percent":0.05},"collateral_types":["Commercial real estate"]}`

func TestDiscloseFromStdin(t *testing.T) {
	out, err := run(t, `{"approved_amount":100000,"interest_rate":0.06,"term_months":360,"amortization_months":360}`, "disclose")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, float64(100000), got["loan_amount"])
	assert.Equal(t, float64(360), got["term_months"])
}

func TestDiscloseWrappedTerms(t *testing.T) {
	out, err := run(t, `{"terms":{"approved_amount":50000,"interest_rate":0.05,"term_months":60}}`, "disclose", "-f", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `"loan_amount": 50000`)
}

func TestEvaluate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deal.json")
	require.NoError(t, os.WriteFile(path, []byte(dealJSON), 0o644))

	out, err := run(t, "", "evaluate", "-f", path, "--strict")
	require.NoError(t, err)
	assert.Contains(t, out, `"enforceable": true`)
}

func TestEvaluateStrictFails(t *testing.T) {
	_, err := run(t, `{"program_id":"nope","state":"TX","terms":{"approved_amount":1}}`, "evaluate", "--strict")
	assert.ErrorIs(t, err, errNotEnforceable)

	_, err = run(t, `{"program_id":"nope","state":"TX","terms":{"approved_amount":1}}`, "evaluate")
	assert.NoError(t, err)

	_, err = run(t, `{"program":"typo"}`, "evaluate")
	assert.Error(t, err)
}

func TestProgramsListsCatalogAndOverlay(t *testing.T) {
	out, err := run(t, "", "programs")
	require.NoError(t, err)
	assert.Contains(t, out, "sba_7a")
	assert.Contains(t, out, "revolving")

	path := filepath.Join(t.TempDir(), "extra.yaml")
	require.NoError(t, os.WriteFile(path, []byte("programs:\n  - id: farm_ag\n    name: Farm\n    structuring_rules: {max_ltv: 0.8, max_term: 240}\n    compliance_checks: [usury_check]\n"), 0o644))
	out, err = run(t, "", "programs", "--programs", path)
	require.NoError(t, err)
	assert.Contains(t, out, "farm_ag")
}

func TestDocumentWritesWorkbook(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.xlsx")
	msg, err := run(t, dealJSON, "document", "-t", "compliance_report", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, msg, "wrote "+out)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("PK")))
}
