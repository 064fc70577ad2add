package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with args and returns its output
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SLUSE_API_URL", "")
	t.Setenv("SLUSE_LOG_LEVEL", "")
	t.Setenv("SLUSE_LOG_FILE", filepath.Join(t.TempDir(), "sluse.log"))
	t.Setenv("SLUSE_DB_PATH", filepath.Join(t.TempDir(), "activity.db"))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--dir", t.TempDir()))
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func TestPeriodsCmd(t *testing.T) {
	out, err := run(t, "periods")
	require.NoError(t, err)
	assert.Contains(t, out, "onLocation")
	assert.Contains(t, out, "toBeInvoiced")
}

func TestFetchCmd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": 1, "displayname": "Festival", "occupancy": "E"}]`))
	}))
	defer server.Close()

	t.Setenv("SLUSE_API_URL", server.URL)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"fetch", "prepped", "--dir", t.TempDir()})
	t.Setenv("SLUSE_DB_PATH", filepath.Join(t.TempDir(), "activity.db"))

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Festival")
}

func TestFetchCmd_UnknownPeriod(t *testing.T) {
	_, err := run(t, "fetch", "someday")
	assert.Error(t, err)
}

func TestActivityCmd_Empty(t *testing.T) {
	out, err := run(t, "activity", "--failed")
	require.NoError(t, err)
	assert.Contains(t, out, "No refresh activity recorded")
}

func TestActivityCmd_BadPeriod(t *testing.T) {
	_, err := run(t, "activity", "--period", "someday")
	assert.Error(t, err)
}

func TestDoctorCmd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	t.Setenv("SLUSE_DB_PATH", filepath.Join(t.TempDir(), "activity.db"))
	t.Setenv("SLUSE_API_URL", server.URL+"/api/projects")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"doctor", "--dir", t.TempDir()})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "✓ Online")
	assert.Contains(t, out.String(), "PERIODS: 4 probed")
}
