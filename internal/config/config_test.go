package config_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/okian/possession/internal/adapters/chart"
	"github.com/okian/possession/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should match the recording defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.FramesPerSecond, convey.ShouldEqual, 50)
			convey.So(cfg.SkipLeadingFrames, convey.ShouldEqual, 1)
			convey.So(cfg.ObjectName, convey.ShouldEqual, "ball")
			convey.So(cfg.HolderName, convey.ShouldEqual, "person")
			convey.So(cfg.PartyAID, convey.ShouldEqual, "0")
			convey.So(cfg.PartyBID, convey.ShouldEqual, "1")
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.UnionRange, convey.ShouldBeFalse)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs that break an invariant", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":        func(c *config.Config) { c.Addr = " " },
			"zero fps":          func(c *config.Config) { c.FramesPerSecond = 0 },
			"negative skip":     func(c *config.Config) { c.SkipLeadingFrames = -1 },
			"same party ids":    func(c *config.Config) { c.PartyBID = c.PartyAID },
			"same names":        func(c *config.Config) { c.HolderName = c.ObjectName },
			"missing name":      func(c *config.Config) { c.ObjectName = "" },
			"zero chart width":  func(c *config.Config) { c.ChartWidth = 0 },
			"narrow chart":      func(c *config.Config) { c.ChartWidth = chart.MinWidth - 1 },
			"short chart":       func(c *config.Config) { c.ChartHeight = 100 },
			"zero tick seconds": func(c *config.Config) { c.ChartTickSeconds = 0 },
		}
		for name, mutate := range cases {
			convey.Convey("Then validation should fail for "+name, func() {
				cfg := config.New()
				mutate(cfg)
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}

func TestConfig_ValidateChartMinimum(t *testing.T) {
	convey.Convey("Given a chart exactly at the smallest drawable size", t, func() {
		cfg := config.New()
		cfg.ChartWidth, cfg.ChartHeight = chart.MinWidth, chart.MinHeight
		convey.So(cfg.Validate(), convey.ShouldBeNil)
	})
}
