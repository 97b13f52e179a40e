package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/opsdrift/dnsherd/internal/config"
	herderrors "github.com/opsdrift/dnsherd/pkg/errors"
)

func TestEffectiveHostTimeout(t *testing.T) {
	t.Parallel()

	// An unset budget falls back to the default so a hung host cannot stall
	// the run; explicit values win and a negative value disables the cap.
	require.Equal(t, config.DefaultHostTimeout, effectiveHostTimeout(0))
	require.Equal(t, 90*time.Second, effectiveHostTimeout(90*time.Second))
	require.Equal(t, -time.Second, effectiveHostTimeout(-time.Second))
}

func TestValidateRunOptions(t *testing.T) {
	t.Parallel()

	base := func() *config.RunConfig {
		return &config.RunConfig{
			OUPath:           `example.com\Servers`,
			IPPrefix:         "10.0.1.*",
			NewDNS:           []string{"10.0.0.1"},
			DirectoryCommand: "echo web01",
			ListCommand:      "echo []",
			ApplyCommand:     "true",
		}
	}

	t.Run("complete configuration passes", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, validateRunOptions(base()))
	})

	t.Run("directory mode needs a directory command", func(t *testing.T) {
		t.Parallel()
		cfg := base()
		cfg.DirectoryCommand = ""
		err := validateRunOptions(cfg)
		require.Error(t, err)

		var confErr *herderrors.ConfigurationError
		require.ErrorAs(t, err, &confErr)
		require.Equal(t, "directory-command", confErr.Field)
	})

	t.Run("list command always required", func(t *testing.T) {
		t.Parallel()
		cfg := base()
		cfg.ListCommand = ""
		err := validateRunOptions(cfg)
		require.Error(t, err)
	})

	t.Run("apply command optional under dry-run", func(t *testing.T) {
		t.Parallel()
		cfg := base()
		cfg.ApplyCommand = ""
		require.Error(t, validateRunOptions(cfg))

		cfg.DryRun = true
		require.NoError(t, validateRunOptions(cfg))
	})
}
