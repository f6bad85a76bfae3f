// File: cmd/root_test.go
package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadowglass/inquest/api/schemas"
)

// newPristineRootCmd builds a root command without the persistent pre-run
// hook, so tests can exercise flag handling without touching config files or
// the global logger.
func newPristineRootCmd() *cobra.Command {
	pristine := &cobra.Command{
		Use:     rootCmd.Use,
		Short:   rootCmd.Short,
		Version: Version,
	}
	pristine.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	pristine.AddCommand(newInvestigateCmd())
	pristine.AddCommand(newChatCmd())
	pristine.AddCommand(newExifCmd())
	return pristine
}

func TestRootCmd_VersionFlag(t *testing.T) {
	testRootCmd := newPristineRootCmd()
	var out bytes.Buffer
	testRootCmd.SetOut(&out)
	testRootCmd.SetErr(&out)
	testRootCmd.SetArgs([]string{"--version"})

	err := testRootCmd.ExecuteContext(context.Background())

	require.NoError(t, err)
	assert.Contains(t, out.String(), Version)
}

func TestRootCmd_NoArgs(t *testing.T) {
	testRootCmd := newPristineRootCmd()
	var out bytes.Buffer
	testRootCmd.SetOut(&out)
	testRootCmd.SetErr(&out)
	testRootCmd.SetArgs([]string{})

	err := testRootCmd.ExecuteContext(context.Background())

	require.NoError(t, err)
	assert.Contains(t, out.String(), "OSINT investigation assistant")
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	testRootCmd := newPristineRootCmd()
	names := make(map[string]bool)
	for _, sub := range testRootCmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["investigate"])
	assert.True(t, names["chat"])
	assert.True(t, names["exif"])
}

func TestInvestigateCmd_Flags(t *testing.T) {
	cmd := newInvestigateCmd()
	assert.NotNil(t, cmd.Flags().Lookup("focus"))
	assert.NotNil(t, cmd.Flags().Lookup("max-results"))
	assert.NotNil(t, cmd.Flags().Lookup("news"))
	assert.NotNil(t, cmd.Flags().Lookup("leaks"))
	assert.NotNil(t, cmd.Flags().Lookup("output"))
}

func TestChatCmd_Flags(t *testing.T) {
	cmd := newChatCmd()
	assert.NotNil(t, cmd.Flags().Lookup("language"))
	assert.NotNil(t, cmd.Flags().Lookup("creative"))
}

func TestWriteLinkTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.html")
	report := schemas.Report{
		LinkTables: map[schemas.Category]string{
			schemas.CategoryWeb:  "<table>web</table>",
			schemas.CategoryNews: "<table>news</table>",
		},
	}

	require.NoError(t, writeLinkTables(path, report))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "<h2>Sites</h2>")
	assert.Contains(t, string(content), "<table>web</table>")
	assert.Contains(t, string(content), "<h2>Notícias</h2>")
	// Order follows the category display order.
	assert.Less(t, bytes.Index(content, []byte("Sites")), bytes.Index(content, []byte("Notícias")))
}
