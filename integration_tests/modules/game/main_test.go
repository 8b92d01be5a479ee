package gameintegrationtests

import (
	"log"
	"os"
	"testing"
)

// TestMain runs the suite with APP_ENV=test and tears the shared containers down.
func TestMain(m *testing.M) {
	oldAppEnv := os.Getenv("APP_ENV")
	os.Setenv("APP_ENV", "test")

	exitCode := m.Run()

	if sharedEnv != nil {
		sharedEnv.Cleanup()
	}
	os.Setenv("APP_ENV", oldAppEnv)
	log.Printf("TestMain: finished with exit code: %d", exitCode)
	os.Exit(exitCode)
}
