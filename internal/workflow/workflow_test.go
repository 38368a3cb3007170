package workflow_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/invoice-renamer/internal/config"
	"github.com/kpauljoseph/invoice-renamer/internal/rename"
	"github.com/kpauljoseph/invoice-renamer/internal/workflow"
	"github.com/kpauljoseph/invoice-renamer/pkg/logger"
)

// fileTextSource treats each file's content as its text layer.
type fileTextSource struct{}

func (fileTextSource) Text(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	return string(data), err
}

func invoiceText(total, date string) string {
	return fmt.Sprintf("电子发票（普通发票）\n开票日期：%s\n价税合计（小写）¥%s\n", date, total)
}

var _ = Describe("Workflow", func() {
	var (
		ctx       context.Context
		sourceDir string
		outputDir string
		service   *workflow.Service
		cfg       *config.Config
	)

	write := func(name, content string) string {
		path := filepath.Join(sourceDir, name)
		Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
		return path
	}

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		sourceDir, err = os.MkdirTemp("", "workflow-test-source-*")
		Expect(err).NotTo(HaveOccurred())
		outputDir, err = os.MkdirTemp("", "workflow-test-output-*")
		Expect(err).NotTo(HaveOccurred())

		log := logger.New(logger.WithOutput(GinkgoWriter), logger.WithPrefix("[workflow-test] "), logger.WithFlags(0))
		log.SetVerbose(true)

		cfg = config.Default()
		service = workflow.NewService(cfg, fileTextSource{}, log)
	})

	AfterEach(func() {
		os.RemoveAll(sourceDir)
		os.RemoveAll(outputDir)
	})

	It("should rename extracted invoices in place", func() {
		files := []string{
			write("scan1.pdf", invoiceText("100.00", "2025年9月7日")),
			write("scan2.pdf", invoiceText("100.00", "2025年9月7日")),
			write("scan3.pdf", "garbage"),
		}

		proposals, err := service.Propose(ctx, files, []string{"办公用品"})
		Expect(err).NotTo(HaveOccurred())

		names := make([]string, len(proposals))
		for i, p := range proposals {
			names[i] = p.Name
		}
		Expect(names).To(Equal([]string{
			"办公用品 100.00 0907.pdf",
			"办公用品 100.00 0907.pdf",
			"scan3-提取失败.pdf",
		}))

		report, err := service.Apply(ctx, workflow.Request{Sources: files, Names: names, Mode: config.ModeRename})
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Result.Success).To(BeTrue())
		Expect(report.Result.Collisions()).To(HaveLen(1))
		Expect(report.Formatted).To(ContainSubstring("Name collision"))

		Expect(filepath.Join(sourceDir, "办公用品 100.00 0907.pdf")).To(BeAnExistingFile())
		Expect(filepath.Join(sourceDir, "办公用品 100.00 0907_2.pdf")).To(BeAnExistingFile())
		Expect(filepath.Join(sourceDir, "scan3-提取失败.pdf")).To(BeAnExistingFile())
		Expect(files[0]).NotTo(BeAnExistingFile())
	})

	It("should rename copies and keep originals in save-as mode", func() {
		files := []string{write("1.pdf", "one"), write("2.pdf", "two")}

		report, err := service.Apply(ctx, workflow.Request{
			Sources:   files,
			Names:     []string{"2.pdf", "1.pdf"},
			Mode:      config.ModeSaveAs,
			OutputDir: filepath.Join(outputDir, "renamed"),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Copies).To(HaveLen(2))
		Expect(report.Result.Success).To(BeTrue())
		Expect(report.Result.Swaps()).To(HaveLen(1))

		data, err := os.ReadFile(filepath.Join(outputDir, "renamed", "1.pdf"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("two"))

		data, err = os.ReadFile(files[0])
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("one"))
	})

	It("should refuse save-as without an output directory", func() {
		files := []string{write("a.pdf", "a")}
		_, err := service.Apply(ctx, workflow.Request{Sources: files, Names: []string{"b.pdf"}, Mode: config.ModeSaveAs})
		Expect(err).To(MatchError(workflow.ErrNoOutputDir))
	})

	It("should refuse save-as into a source's own directory", func() {
		files := []string{write("a.pdf", "a")}

		_, err := service.Apply(ctx, workflow.Request{
			Sources:   files,
			Names:     []string{"b.pdf"},
			Mode:      config.ModeSaveAs,
			OutputDir: sourceDir + string(filepath.Separator) + ".",
		})
		Expect(err).To(MatchError(workflow.ErrOutputIsSourceDir))
		Expect(files[0]).To(BeAnExistingFile())
		Expect(filepath.Join(sourceDir, "b.pdf")).NotTo(BeAnExistingFile())
	})

	It("should refuse save-as when copies would overwrite each other", func() {
		sub := filepath.Join(sourceDir, "sub")
		Expect(os.Mkdir(sub, 0755)).To(Succeed())
		a := write("a.pdf", "a")
		b := filepath.Join(sub, "a.pdf")
		Expect(os.WriteFile(b, []byte("b"), 0644)).To(Succeed())

		_, err := service.Apply(ctx, workflow.Request{
			Sources:   []string{a, b},
			Names:     []string{"x.pdf", "y.pdf"},
			Mode:      config.ModeSaveAs,
			OutputDir: outputDir,
		})
		Expect(err).To(MatchError(workflow.ErrDuplicateBasename))
		Expect(filepath.Join(outputDir, "a.pdf")).NotTo(BeAnExistingFile())
	})

	It("should report a missing source without renaming the rest", func() {
		files := []string{write("a.pdf", "a"), filepath.Join(sourceDir, "gone.pdf")}

		report, err := service.Apply(ctx, workflow.Request{Sources: files, Names: []string{"x.pdf", "y.pdf"}})
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Result.Success).To(BeFalse())
		Expect(report.Result.Outcomes[1].Err).To(MatchError(rename.ErrNotFound))
		Expect(files[0]).To(BeAnExistingFile())
		Expect(report.Formatted).To(ContainSubstring("FAILURES"))
	})

	It("should reject mismatched requests and unknown modes", func() {
		_, err := service.Apply(ctx, workflow.Request{Sources: []string{"a"}, Names: nil})
		Expect(err).To(MatchError(rename.ErrLengthMismatch))

		_, err = service.Apply(ctx, workflow.Request{Mode: "move"})
		Expect(err).To(HaveOccurred())
	})

	It("should plan without touching the disk", func() {
		files := []string{write("1.pdf", "one"), write("2.pdf", "two")}

		staged, conflicts, err := service.Plan(workflow.Request{Sources: files, Names: []string{"2.pdf", "1.pdf"}})
		Expect(err).NotTo(HaveOccurred())
		Expect(staged).To(Equal([]string{"2.pdf" + cfg.TempSuffix, "1.pdf" + cfg.TempSuffix}))
		Expect(conflicts).To(HaveLen(1))
		Expect(files[0]).To(BeAnExistingFile())
	})

	DescribeTable("SaveAsDir",
		func(configured, override, expected string) {
			c := config.Default()
			c.OutputDir = configured
			Expect(workflow.SaveAsDir(c, override)).To(Equal(expected))
		},
		Entry("override wins", "/cfg", "/flag", "/flag"),
		Entry("config next", "/cfg", "", "/cfg"),
	)
})
