package dispatch

import (
	"os/exec"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestLaunch_ReapsExitedCommand(t *testing.T) {
	c := qt.New(t)

	cmd := exec.Command("/bin/sh", "-c", "exit 3")
	done, err := launch(cmd)
	c.Assert(err, qt.IsNil)

	select {
	case err := <-done:
		c.Assert(err, qt.ErrorMatches, "exit status 3")
	case <-time.After(5 * time.Second):
		c.Fatal("command was not reaped")
	}
	c.Assert(cmd.ProcessState, qt.Not(qt.IsNil))
	c.Assert(cmd.ProcessState.Exited(), qt.IsTrue)
}

func TestLaunch_StartFailure(t *testing.T) {
	c := qt.New(t)
	done, err := launch(exec.Command("/nonexistent/rightkit-helper"))
	c.Assert(err, qt.Not(qt.IsNil))
	c.Assert(done, qt.IsNil)
}
