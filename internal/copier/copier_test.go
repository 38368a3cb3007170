package copier_test

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/invoice-renamer/internal/copier"
	"github.com/kpauljoseph/invoice-renamer/pkg/logger"
)

var _ = Describe("Copier", func() {
	var (
		sourceDir string
		outputDir string
		c         *copier.Copier
		ctx       context.Context
	)

	BeforeEach(func() {
		var err error
		sourceDir, err = os.MkdirTemp("", "copier-test-source-*")
		Expect(err).NotTo(HaveOccurred())
		outputDir, err = os.MkdirTemp("", "copier-test-output-*")
		Expect(err).NotTo(HaveOccurred())

		c = copier.New(logger.New(logger.WithOutput(GinkgoWriter), logger.WithPrefix("[copier-test] ")))
		ctx = context.Background()
	})

	AfterEach(func() {
		os.RemoveAll(sourceDir)
		os.RemoveAll(outputDir)
	})

	It("should copy files into a nested output directory", func() {
		src := filepath.Join(sourceDir, "a.pdf")
		Expect(os.WriteFile(src, []byte("invoice a"), 0640)).To(Succeed())
		old := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		Expect(os.Chtimes(src, old, old)).To(Succeed())

		dst := filepath.Join(outputDir, "nested", "out")
		outcomes, err := c.CopyFiles(ctx, []string{src}, dst)
		Expect(err).NotTo(HaveOccurred())
		Expect(outcomes).To(HaveLen(1))
		Expect(outcomes[0].Err).NotTo(HaveOccurred())
		Expect(outcomes[0].Destination).To(Equal(filepath.Join(dst, "a.pdf")))

		data, err := os.ReadFile(outcomes[0].Destination)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("invoice a"))

		info, err := os.Stat(outcomes[0].Destination)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.ModTime().Equal(old)).To(BeTrue())
		Expect(src).To(BeAnExistingFile())
	})

	It("should overwrite an existing copy", func() {
		src := filepath.Join(sourceDir, "a.pdf")
		Expect(os.WriteFile(src, []byte("new"), 0644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(outputDir, "a.pdf"), []byte("old content"), 0644)).To(Succeed())

		outcomes, err := c.CopyFiles(ctx, []string{src}, outputDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(outcomes[0].Err).NotTo(HaveOccurred())

		data, err := os.ReadFile(filepath.Join(outputDir, "a.pdf"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("new"))
	})

	It("should report missing sources without stopping", func() {
		src := filepath.Join(sourceDir, "b.pdf")
		Expect(os.WriteFile(src, []byte("b"), 0644)).To(Succeed())

		outcomes, err := c.CopyFiles(ctx, []string{filepath.Join(sourceDir, "missing.pdf"), src}, outputDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(outcomes[0].Err).To(MatchError(copier.ErrSourceMissing))
		Expect(outcomes[1].Err).NotTo(HaveOccurred())
		Expect(copier.Destinations(outcomes)).To(Equal([]string{filepath.Join(outputDir, "b.pdf")}))
	})

	It("should refuse to copy a file onto itself", func() {
		src := filepath.Join(sourceDir, "self.pdf")
		Expect(os.WriteFile(src, []byte("self"), 0644)).To(Succeed())

		outcomes, err := c.CopyFiles(ctx, []string{src}, sourceDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(outcomes[0].Err).To(MatchError(copier.ErrSameFile))
		Expect(copier.Destinations(outcomes)).To(BeEmpty())

		data, err := os.ReadFile(src)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("self"))
	})

	It("should stop when the context is cancelled", func() {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		outcomes, err := c.CopyFiles(cancelled, []string{"x"}, outputDir)
		Expect(err).To(Equal(context.Canceled))
		Expect(outcomes).To(BeEmpty())
	})
})
