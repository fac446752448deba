package serve_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/statement-ledger/cmd/root"
	"fjacquet/statement-ledger/cmd/serve"
)

func TestServeCommand_Metadata(t *testing.T) {
	assert.Equal(t, "serve", serve.Cmd.Use)
	assert.Contains(t, serve.Cmd.Long, "/api/report")

	flag := serve.Cmd.Flags().Lookup("address")
	require.NotNil(t, flag)
	assert.Equal(t, "a", flag.Shorthand)
	assert.Equal(t, "", flag.DefValue)
}

func TestServeCommand_ListenErrorIsReturned(t *testing.T) {
	dir := t.TempDir()
	root.Flags = root.GlobalFlags{
		LogLevel:  "error",
		StorePath: filepath.Join(dir, "ledger.db"),
		RulesFile: filepath.Join(dir, "rules.yaml"),
	}
	require.NoError(t, root.Initialize(root.Cmd))
	t.Cleanup(func() {
		root.AppContainer = nil
		root.Flags = root.GlobalFlags{}
		_ = serve.Cmd.Flags().Set("address", "")
	})
	require.NoError(t, serve.Cmd.Flags().Set("address", "256.0.0.1:-1"))

	var buf bytes.Buffer
	serve.Cmd.SetOut(&buf)
	serve.Cmd.SetContext(context.Background())

	err := serve.Cmd.RunE(serve.Cmd, nil)
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "ledger.db"))
}
