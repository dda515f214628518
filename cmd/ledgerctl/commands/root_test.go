package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot_RegistraSubcomandos(t *testing.T) {
	root := NewRootCommand()
	for _, path := range [][]string{
		{"migrate", "up"},
		{"migrate", "down"},
		{"thresholds", "seed"},
		{"thresholds", "verify"},
		{"thresholds", "audit"},
		{"companies", "add"},
		{"users", "add"},
		{"lots", "unit-cost"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

// Los errores de entrada se detectan antes de tocar la configuración o la base.
func TestThresholdsSeed_CSVInvalido(t *testing.T) {
	file := filepath.Join(t.TempDir(), "umbrales.csv")
	require.NoError(t, os.WriteFile(file, []byte("flete,trigo,1\n"), 0o600))

	root := NewRootCommand()
	root.SetArgs([]string{"thresholds", "seed", file})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "línea 1")
}

func TestLotsUnitCost_IDInvalido(t *testing.T) {
	root := NewRootCommand()
	root.SetArgs([]string{"lots", "unit-cost", "abc"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lot_id inválido")
}

func TestCompaniesAdd_RolDesconocido(t *testing.T) {
	root := NewRootCommand()
	root.SetArgs([]string{"companies", "add", "x", "X", "Admin"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rol desconocido")
}

func TestUsersAdd_PasswordCorto(t *testing.T) {
	root := NewRootCommand()
	root.SetArgs([]string{"users", "add", "ana@finca.co", "finca", "--password", "corta"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "al menos 8")
}
