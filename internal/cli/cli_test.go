package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interactors-overlay/internal/domain"
	"github.com/interactors-overlay/pkg/resource"
)

func testConfig(t *testing.T) *domain.Config {
	t.Helper()
	dir := t.TempDir()
	return &domain.Config{
		Parser: domain.ParserConfig{DefaultFormat: "tuple", WorkDir: dir},
		Overlay: domain.OverlayConfig{
			Driver:     "sqlite",
			SQLitePath: filepath.Join(dir, "overlays.db"),
		},
		Resources: domain.ResourceConfig{DefaultInteractionURL: resource.DefaultInteractionURL},
	}
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, cfg *domain.Config, args ...string) (string, error) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	var out bytes.Buffer
	err := NewCLI(cfg, logger, &out).Run(context.Background(), args)
	return out.String(), err
}

func TestCLI_Help(t *testing.T) {
	out, err := run(t, testConfig(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")

	out, err = run(t, testConfig(t), "help")
	require.NoError(t, err)
	assert.Contains(t, out, "parse <file>")
}

func TestCLI_UnknownCommand(t *testing.T) {
	out, err := run(t, testConfig(t), "classify")
	assert.ErrorIs(t, err, ErrUsage)
	assert.Contains(t, out, "Unknown command: classify")
}

func TestCLI_ParseUsage(t *testing.T) {
	cfg := testConfig(t)
	input := writeInput(t, "ID A\tID B\nQ13501\tP04637\n")

	_, err := run(t, cfg, "parse")
	assert.ErrorIs(t, err, ErrUsage)

	_, err = run(t, cfg, "parse", "-persist", input)
	assert.ErrorIs(t, err, ErrUsage)

	_, err = run(t, cfg, "parse", "-format", "xml", input)
	assert.Error(t, err)
}

func TestCLI_ParseTupleWithLinks(t *testing.T) {
	cfg := testConfig(t)
	input := writeInput(t, "ID A\tID B\tEVIDENCE\nQ13501\tP04637\tEBI-1\n")

	out, err := run(t, cfg, "parse", "-resource", "intact", input)
	require.NoError(t, err)

	var result ParseResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.NotNil(t, result.Summary)
	assert.Equal(t, "tuple", result.Summary.Format)
	require.Len(t, result.Summary.Interactions, 1)
	require.Len(t, result.Links, 1)
	assert.Contains(t, result.Links[0].EvidenceURL, "EBI-1")
}

func TestCLI_ParseAutoDetectsMitab(t *testing.T) {
	cfg := testConfig(t)
	cols := []string{
		"uniprotkb:Q13501", "uniprotkb:P04637", "-", "-", "-", "-", "-", "-",
		"-", "-", "-", "-", "-", "intact:EBI-1", "intact-miscore:0.56",
	}
	input := writeInput(t, strings.Join(cols, "\t")+"\n")

	out, err := run(t, cfg, "parse", "-format", "auto", input)
	require.NoError(t, err)

	var result ParseResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "psimitab", result.Summary.Format)
	require.Len(t, result.Summary.Interactions, 1)
	assert.Equal(t, "P04637", result.Summary.Interactions[0].InteractorIDB)
}

func TestCLI_ParseValidationFailure(t *testing.T) {
	cfg := testConfig(t)
	input := writeInput(t, "ID A,ID B\nQ13501,\n")

	out, err := run(t, cfg, "parse", input)
	assert.ErrorIs(t, err, domain.ErrValidationFailed)

	var result ParseResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Summary.Errors, 1)
	assert.Equal(t, domain.KindMissingMandatoryField, result.Summary.Errors[0].Kind)
	assert.Empty(t, result.Links)
}

func TestCLI_StoreAndManageOverlays(t *testing.T) {
	cfg := testConfig(t)
	input := writeInput(t, "ID A\tID B\nQ13501\tP04637\nQ13501\tCHEBI:16027\n")

	out, err := run(t, cfg, "parse", "-store", input)
	require.NoError(t, err)
	var result ParseResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	token := result.Summary.Token
	require.NotEmpty(t, token)

	out, err = run(t, cfg, "overlays", "list")
	require.NoError(t, err)
	assert.Contains(t, out, token)

	out, err = run(t, cfg, "overlays", "get", token)
	require.NoError(t, err)
	assert.Contains(t, out, "CHEBI:16027")

	exported, err := run(t, cfg, "overlays", "export")
	require.NoError(t, err)
	exportFile := writeInput(t, exported)

	out, err = run(t, cfg, "overlays", "import", exportFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 0 overlay(s), skipped 1")

	_, err = run(t, cfg, "overlays", "delete", token)
	require.NoError(t, err)

	_, err = run(t, cfg, "overlays", "get", token)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	fresh := testConfig(t)
	out, err = run(t, fresh, "overlays", "import", exportFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 overlay(s), skipped 0")
}

func TestCLI_OverlaysUsage(t *testing.T) {
	cfg := testConfig(t)

	_, err := run(t, cfg, "overlays")
	assert.ErrorIs(t, err, ErrUsage)

	_, err = run(t, cfg, "overlays", "get")
	assert.ErrorIs(t, err, ErrUsage)

	_, err = run(t, cfg, "overlays", "rename")
	assert.ErrorIs(t, err, ErrUsage)
}

func TestCLI_Resources(t *testing.T) {
	out, err := run(t, testConfig(t), "resources")
	require.NoError(t, err)
	assert.Contains(t, out, "intact")
	assert.Contains(t, out, "uniprot\tinteraction links: false")
}
