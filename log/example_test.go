package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/reshape/log"
)

func ExampleMake() {
	logger := log.Make(os.Stdout, log.WithTimeLayout("none"))
	logger.Info("document loaded", slog.String("path", "reports.yaml"))
	logger.Debug("not shown")
	// Output:
	// level=INFO msg="document loaded" path=reports.yaml
}

func ExampleLogger_Wrap() {
	logger := log.Make(os.Stdout,
		log.WithTimeLayout("none"),
		log.WithFormat(log.FormatJSON),
	).Wrap(log.WithLevel(log.LevelTrace))

	logger.Trace("capture", slog.String("name", "station"), slog.Int("depth", 1))
	// Output:
	// {"level":"TRACE","msg":"capture","name":"station","depth":1}
}
