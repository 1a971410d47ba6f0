package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Sternrassler/artic-table/internal/testutil"
	"github.com/Sternrassler/artic-table/pkg/catalog"
)

// writeConfig writes a config file pointing the client at baseURL.
func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := fmt.Sprintf("api:\n  base_url: %s\nlogging:\n  level: error\n", baseURL)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

type outcome struct {
	Requested int               `json:"requested"`
	Taken     int               `json:"taken"`
	Exhausted bool              `json:"exhausted"`
	Error     string            `json:"error"`
	Records   []catalog.Artwork `json:"records"`
}

func TestSelectCommand(t *testing.T) {
	mock := testutil.NewMockCatalog(120)
	defer mock.Close()
	cfg := writeConfig(t, mock.URL())

	out, err := execute(t, "--config", cfg, "select", "--count", "15")
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}

	var got outcome
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if got.Taken != 15 || len(got.Records) != 15 {
		t.Errorf("taken = %d records = %d, want 15", got.Taken, len(got.Records))
	}
	if got.Records[14].ID != 15 {
		t.Errorf("last id = %d, want 15", got.Records[14].ID)
	}
	if strings.Contains(out, "\n  ") {
		t.Error("output to a non-terminal should not be indented")
	}
}

func TestSelectCommand_Exhausted(t *testing.T) {
	mock := testutil.NewMockCatalog(12)
	defer mock.Close()
	cfg := writeConfig(t, mock.URL())

	out, err := execute(t, "--config", cfg, "select", "-n", "100")
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}

	var got outcome
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if got.Taken != 12 || !got.Exhausted {
		t.Errorf("taken = %d exhausted = %v, want 12/true", got.Taken, got.Exhausted)
	}
}

func TestSelectCommand_PartialStrict(t *testing.T) {
	mock := testutil.NewMockCatalog(120)
	defer mock.Close()
	mock.SetPageResponse(2, testutil.NewServerErrorResponse())
	cfg := writeConfig(t, mock.URL())

	out, err := execute(t, "--config", cfg, "select", "--count", "20")
	if err != nil {
		t.Fatalf("non-strict select should succeed: %v", err)
	}
	var got outcome
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if got.Taken != 12 || got.Error == "" {
		t.Errorf("taken = %d error = %q", got.Taken, got.Error)
	}

	_, err = execute(t, "--config", cfg, "select", "--count", "20", "--strict")
	if err == nil || !catalog.IsNetworkError(err) {
		t.Errorf("strict select should fail with the page error, got %v", err)
	}
}

func TestSelectCommand_InvalidFlags(t *testing.T) {
	cfg := writeConfig(t, catalog.DefaultBaseURL)

	for _, args := range [][]string{
		{"--config", cfg, "select", "--count", "-1"},
		{"--config", cfg, "select", "--count", "5", "--page", "0"},
	} {
		if _, err := execute(t, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestCachePurge_RedisDisabled(t *testing.T) {
	cfg := writeConfig(t, catalog.DefaultBaseURL)

	_, err := execute(t, "--config", cfg, "cache", "purge")
	if !errors.Is(err, errRedisDisabled) {
		t.Errorf("expected errRedisDisabled, got %v", err)
	}
}

func TestRoot_MissingConfigFile(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"), "select")
	if err == nil {
		t.Error("expected error for missing config file")
	}
}
