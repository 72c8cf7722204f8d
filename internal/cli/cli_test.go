package cli

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

// execute runs the root command with args and returns what it printed
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "jurisflow "+version+"\n", out)
}

func TestNormalizeCommand(t *testing.T) {
	doc := writeFile(t, "caso.yaml", `id: caso-1
variant: social-security
source_text: |
  SENTENÇA
  Tipo de benefício: aposentadoria por idade
  DIB: 01/06/2023
  RMI: R$ 1.320,00
`)

	out, err := execute(t, "normalize", doc, "--no-cache", "--compact")
	require.NoError(t, err)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &record))
	assert.Equal(t, "2023-06-01", record["dib"])
	assert.Equal(t, 1320.0, record["rmi"])
	assert.NotContains(t, strings.TrimSpace(out), "\n")
}

func TestLoadInput(t *testing.T) {
	t.Cleanup(func() { sourcePath, variantName = "", "" })

	_, err := loadInput(nil)
	assert.ErrorContains(t, err, "no input")

	sourcePath = writeFile(t, "sentenca.txt", "RMI: R$ 1.320,00")
	_, err = loadInput(nil)
	assert.ErrorContains(t, err, "--variant")

	variantName = "social-security"
	doc, err := loadInput(nil)
	require.NoError(t, err)
	assert.Equal(t, "RMI: R$ 1.320,00", doc.SourceText)

	_, err = loadInput([]string{"caso.yaml"})
	assert.ErrorContains(t, err, "not both")
}

func TestCheckCommand(t *testing.T) {
	bad := writeFile(t, "registro.json", `{"tipo_beneficio": "pensão alienígena", "rmi": -1}`)

	_, err := execute(t, "check", bad, "--variant", "social-security")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "violations")
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".jurisflow", "config.yaml")

	require.NoError(t, writeDefaultConfig(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tolerance:")
	assert.Contains(t, string(data), "JURISFLOW_")
	assert.NotContains(t, string(data), "api_key")

	assert.ErrorContains(t, writeDefaultConfig(path), "already exists")
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"caso-1", "caso-1"},
		{"lote.jsonl#3", "lote.jsonl_3"},
		{"../segredo", ".._segredo"},
		{"a b/c", "a-b_c"},
		{"", "document"},
		{"..", "document"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
