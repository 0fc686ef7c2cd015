package loader_test

import (
	"errors"
	"testing"

	"chainflow/core/loader"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type stubFeature struct {
	name    string
	enabled bool
	err     error
	loaded  bool
}

func (s *stubFeature) Name() string    { return s.name }
func (s *stubFeature) IsEnabled() bool { return s.enabled }
func (s *stubFeature) Load(app fiber.Router) error {
	s.loaded = true
	return s.err
}

func TestManager_LoadAll(t *testing.T) {
	t.Run("SkipsDisabled", func(t *testing.T) {
		on := &stubFeature{name: "on", enabled: true}
		off := &stubFeature{name: "off"}

		mgr := loader.NewManager(nil)
		mgr.Register(on)
		mgr.Register(off)

		assert.NoError(t, mgr.LoadAll(fiber.New()))
		assert.True(t, on.loaded)
		assert.False(t, off.loaded)
		assert.Len(t, mgr.Features(), 2)
	})

	t.Run("StopsOnError", func(t *testing.T) {
		broken := &stubFeature{name: "broken", enabled: true, err: errors.New("bad routes")}
		after := &stubFeature{name: "after", enabled: true}

		mgr := loader.NewManager(nil)
		mgr.Register(broken)
		mgr.Register(after)

		err := mgr.LoadAll(fiber.New())
		assert.ErrorContains(t, err, "failed to load feature broken")
		assert.False(t, after.loaded)
	})
}
