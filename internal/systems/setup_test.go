package systems

import (
	"io"
	"os"
	"testing"

	"zombieland-server/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.InitWithOutput(io.Discard)
	os.Exit(m.Run())
}
