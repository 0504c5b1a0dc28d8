//go:build unit

package controllers_test

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/nix-update-version/internal/domain/commands"
	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
	"github.com/rios0rios0/nix-update-version/internal/infrastructure/controllers"
	"github.com/rios0rios0/nix-update-version/test/domain/commanddoubles"
)

func TestSkeletonController_Execute(t *testing.T) {
	t.Parallel()

	t.Run("should print the generated expression", func(t *testing.T) {
		t.Parallel()

		// given
		log, _ := test.NewNullLogger()
		stub := &commanddoubles.StubSkeletonCommand{Expression: "{ lib }: { }\n"}
		controller := controllers.NewSkeletonController(stub, log)
		cmd := newCommand(t, controller, "")
		var out bytes.Buffer
		cmd.SetOut(&out)
		require.NoError(t, cmd.Flags().Set("maintainer", "alice"))
		require.NoError(t, cmd.Flags().Set("check", "pytest mock"))
		require.NoError(t, cmd.Flags().Set("version", "1.0.0"))

		// when
		err := controller.Execute(cmd, []string{"pypi", "widget"})

		// then
		require.NoError(t, err)
		assert.Equal(t, "{ lib }: { }\n", out.String())
		assert.Equal(t, commands.SkeletonOptions{
			Type:       "pypi",
			Name:       "widget",
			Version:    "1.0.0",
			Maintainer: "alice",
			ExtraCheck: "pytest mock",
		}, stub.LastOpts)
	})

	t.Run("should not print anything when generation fails", func(t *testing.T) {
		t.Parallel()

		// given
		log, _ := test.NewNullLogger()
		stub := &commanddoubles.StubSkeletonCommand{ExecuteErr: entities.ErrInput}
		controller := controllers.NewSkeletonController(stub, log)
		cmd := newCommand(t, controller, "")
		var out bytes.Buffer
		cmd.SetOut(&out)

		// when
		err := controller.Execute(cmd, []string{"npm", "left-pad"})

		// then
		require.ErrorIs(t, err, entities.ErrInput)
		assert.Empty(t, out.String())
	})
}
