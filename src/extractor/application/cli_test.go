package application_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/untracker/src/extractor/application"
	"github.com/veedubyou/untracker/src/extractor/internal/engine/dummy"
	. "github.com/veedubyou/untracker/src/shared/testing"
)

var _ = Describe("RunCLI", func() {
	var (
		workDir   string
		inputPath string
		outputDir string
		loader    *dummy.Loader
		stdout    *bytes.Buffer
		stderr    *bytes.Buffer
	)

	runCLI := func(argv ...string) int {
		return application.RunCLI(context.Background(), argv, stdout, stderr, loader)
	}

	BeforeEach(func() {
		workDir = ExpectSuccess(os.MkdirTemp("", "untracker-cli"))
		DeferCleanup(os.RemoveAll, workDir)

		inputPath = filepath.Join(workDir, "tune.it")
		Expect(os.WriteFile(inputPath, []byte("module bytes"), 0644)).To(Succeed())
		outputDir = filepath.Join(workDir, "out")

		loader = dummy.NewDummyLoader(dummy.Song{
			Instruments:     3,
			Samples:         8,
			DurationSeconds: 0.05,
		})
		stdout = &bytes.Buffer{}
		stderr = &bytes.Buffer{}
	})

	It("extracts every stem", func() {
		Expect(runCLI("-i", inputPath, "-o", outputDir, "--log-format", "discard")).To(Equal(application.ExitOK))

		Expect(listFiles(outputDir)).To(Equal(expectedNames("tune", "instrument", 3, "wav")))
		Expect(stdout.String()).To(ContainSubstring("Extracting 3 instrument stems...\n"))
		Expect(stdout.String()).To(ContainSubstring("Done: 3 stems written to"))
	})

	It("honors the format flag", func() {
		Expect(runCLI("-i", inputPath, "-o", outputDir, "--format", "flac", "--log-format", "discard")).To(Equal(application.ExitOK))
		Expect(listFiles(outputDir)).To(Equal(expectedNames("tune", "instrument", 3, "flac")))
	})

	It("rejects a third channel without creating anything", func() {
		code := runCLI("-i", inputPath, "-o", outputDir, "--channels", "3", "--log-format", "discard")

		Expect(code).To(Equal(application.ExitFailure))
		Expect(outputDir).NotTo(BeADirectory())
		Expect(stderr.String()).To(ContainSubstring("untracker: "))
		Expect(stderr.String()).To(ContainSubstring("  field: channels\n"))
	})

	It("exits with a usage error for bad arguments", func() {
		Expect(runCLI("-o", outputDir)).To(Equal(application.ExitInvalidUsage))
		Expect(stderr.String()).To(ContainSubstring("input module is required"))
	})

	It("exits with a usage error for an unknown log format", func() {
		Expect(runCLI("-i", inputPath, "-o", outputDir, "--log-format", "xml")).To(Equal(application.ExitInvalidUsage))
		Expect(outputDir).NotTo(BeADirectory())
	})

	It("succeeds on help", func() {
		Expect(runCLI("-h")).To(Equal(application.ExitOK))
		Expect(stderr.String()).To(ContainSubstring("Usage: untracker"))
	})

	It("fails when the module cannot be read", func() {
		code := runCLI("-i", filepath.Join(workDir, "missing.it"), "-o", outputDir, "--log-format", "discard")
		Expect(code).To(Equal(application.ExitFailure))
	})
})
