package utils

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/urfave/cli.v1"

	"github.com/vitelabs/go-referendum/config"
)

func makeConfig(t *testing.T, args ...string) (*config.Config, error) {
	var (
		cfg    *config.Config
		cfgErr error
	)
	app := cli.NewApp()
	app.Flags = []cli.Flag{ConfigFileFlag, DataDirFlag, LogLvlFlag}
	app.Commands = []cli.Command{{
		Name:  "fetch",
		Flags: []cli.Flag{SnapshotFlag, NodeFlag, ConcurrencyFlag, RequestTimeoutFlag, StoreFlag},
		Action: func(ctx *cli.Context) error {
			cfg, cfgErr = MakeConfig(ctx)
			return nil
		},
	}}
	require.NoError(t, app.Run(append([]string{"gvote"}, args...)))
	return cfg, cfgErr
}

func TestMakeConfig_Defaults(t *testing.T) {
	cfg, err := makeConfig(t, "fetch")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestMakeConfig_FileAndFlags(t *testing.T) {
	file := filepath.Join(t.TempDir(), "gvote.json")
	require.NoError(t, ioutil.WriteFile(file, []byte(`{"LogLevel":"dbug","Node":{"Endpoint":"http://file:14265","Concurrency":4}}`), 0644))

	cfg, err := makeConfig(t, "--config", file, "--datadir", "/tmp/../var/gvote",
		"fetch", "--node", "http://flag:14265", "--requesttimeout", "2s", "--store", "/data//store")
	require.NoError(t, err)
	assert.Equal(t, "dbug", cfg.LogLevel)
	assert.Equal(t, "/var/gvote", cfg.DataDir)
	assert.Equal(t, "http://flag:14265", cfg.Endpoint)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, config.Duration(2*time.Second), cfg.RequestTimeout)
	assert.Equal(t, "/data/store", cfg.Store)
}

func TestMakeConfig_Invalid(t *testing.T) {
	_, err := makeConfig(t, "fetch", "--concurrency", "0")
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home := os.Getenv("HOME")
	if home == "" {
		t.Skip("HOME not set")
	}
	assert.Equal(t, filepath.Join(home, "gvote"), ExpandPath("~/gvote"))
	assert.Equal(t, "/a/c", ExpandPath("/a/b/../c"))
}
