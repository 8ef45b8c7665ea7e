package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Check roots", func() {
	var (
		tmpDir  string
		cfgPath string
		err     error
	)

	BeforeEach(func() {
		tmpDir, err = os.MkdirTemp("", "fswatch-cmd-*")
		Expect(err).To(Succeed())

		cfgPath = flags.CfgPath
		DeferCleanup(func() { flags.CfgPath = cfgPath })
	})

	AfterEach(func() {
		Expect(os.RemoveAll(tmpDir)).To(Succeed())
	})

	writeConfig := func(root string) {
		flags.CfgPath = filepath.Join(tmpDir, "config.yaml")
		Expect(os.WriteFile(flags.CfgPath, []byte(fmt.Sprintf(
			"version: 1\nroots:\n  - path: %s\n", root,
		)), 0o644)).To(Succeed())
	}

	It("should name a root which is not a directory.", func() {
		file := filepath.Join(tmpDir, "file")
		Expect(os.WriteFile(file, []byte("f"), 0o644)).To(Succeed())
		writeConfig(file)

		err = checkRootsCmdRun()

		var notDir *ErrRootNotDirectory
		Expect(errors.As(err, &notDir)).To(BeTrue())
		Expect(notDir.Path).To(Equal(file))
		Expect(notDir.Mode.IsRegular()).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("root " + file + " is not a directory"))
	})

	It("should report a missing root.", func() {
		writeConfig(filepath.Join(tmpDir, "missing"))

		Expect(errors.Is(checkRootsCmdRun(), os.ErrNotExist)).To(BeTrue())
	})
})

var _ = Describe("Cancel by signal", func() {
	It("should stay recognizable when wrapped.", func() {
		err := fmt.Errorf("run engine: %w", &ErrCancelBySignal{Signal: syscall.SIGTERM})

		var bySignal *ErrCancelBySignal
		Expect(errors.As(err, &bySignal)).To(BeTrue())
		Expect(bySignal.Signal).To(Equal(syscall.SIGTERM))
		Expect(bySignal.Error()).To(Equal("fswatch stopped by terminated."))
	})
})

func TestCmd(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Cmd Suite")
}
