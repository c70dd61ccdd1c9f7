package db

import (
	"testing"

	"github.com/stretchr/testify/require"

	cfgpkg "github.com/fatflowers/storetis/pkg/config"
)

func TestDialector(t *testing.T) {
	d, err := dialector(cfgpkg.DBConfig{Driver: cfgpkg.DBDriverPostgres, DSN: "postgres://x"})
	require.NoError(t, err)
	require.Equal(t, "postgres", d.Name())

	d, err = dialector(cfgpkg.DBConfig{Driver: cfgpkg.DBDriverMySQL, DSN: "u:p@tcp(localhost:3306)/db"})
	require.NoError(t, err)
	require.Equal(t, "mysql", d.Name())

	_, err = dialector(cfgpkg.DBConfig{Driver: "sqlite"})
	require.Error(t, err)
}
