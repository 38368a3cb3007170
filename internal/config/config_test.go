package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/invoice-renamer/internal/config"
	"github.com/kpauljoseph/invoice-renamer/internal/rename"
)

var _ = Describe("Config", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(dir)
	})

	write := func(content string) string {
		path := filepath.Join(dir, "config.yaml")
		Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
		return path
	}

	It("should provide defaults", func() {
		cfg := config.Default()
		Expect(cfg.Categories).To(Equal(config.DefaultCategories))
		Expect(cfg.DefaultCategory).To(Equal("办公用品"))
		Expect(cfg.Mode).To(Equal(config.ModeRename))
		Expect(cfg.TempSuffix).To(Equal(rename.DefaultTempSuffix))
		Expect(cfg.ReportPreviewLimit).To(Equal(rename.DefaultPreviewLimit))
		Expect(cfg.Validate()).To(Succeed())
	})

	It("should return defaults for a missing file when allowed", func() {
		cfg, err := config.Load(filepath.Join(dir, "missing.yaml"), true)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Mode).To(Equal(config.ModeRename))

		_, err = config.Load(filepath.Join(dir, "missing.yaml"), false)
		Expect(err).To(MatchError(os.ErrNotExist))
	})

	It("should load values and fill the rest", func() {
		path := write(`
categories: [差旅, 招待]
mode: save-as
output_dir: /tmp/out
report_preview_limit: 3
`)
		cfg, err := config.Load(path, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Categories).To(Equal([]string{"差旅", "招待"}))
		Expect(cfg.DefaultCategory).To(Equal("差旅"))
		Expect(cfg.Mode).To(Equal(config.ModeSaveAs))
		Expect(cfg.OutputDir).To(Equal("/tmp/out"))
		Expect(cfg.ReportPreviewLimit).To(Equal(3))
		Expect(cfg.TempSuffix).To(Equal(rename.DefaultTempSuffix))
		Expect(cfg.HasCategory("招待")).To(BeTrue())
		Expect(cfg.HasCategory("其他")).To(BeFalse())
	})

	DescribeTable("report_preview_limit",
		func(content string, expected int, listed bool) {
			cfg, err := config.Load(write(content), false)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.ReportPreviewLimit).To(Equal(expected))

			result := &rename.Result{
				Total:    1,
				Success:  true,
				Outcomes: []rename.Outcome{{Source: "/d/a.pdf", Destination: "/d/b.pdf"}},
			}
			report := rename.FormatReport(result, rename.WithPreviewLimit(cfg.ReportPreviewLimit))
			if listed {
				Expect(report).To(ContainSubstring("- a.pdf -> b.pdf"))
			} else {
				Expect(report).NotTo(ContainSubstring("- a.pdf -> b.pdf"))
			}
		},
		Entry("unset uses the default", "mode: rename\n", rename.DefaultPreviewLimit, true),
		Entry("zero uses the default", "report_preview_limit: 0\n", rename.DefaultPreviewLimit, true),
		Entry("negative hides the list", "report_preview_limit: -1\n", -1, false),
	)

	DescribeTable("should reject invalid settings",
		func(content, message string) {
			_, err := config.Load(write(content), false)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(message))
		},
		Entry("unknown mode", "mode: move\n", "unknown mode"),
		Entry("suffix without dot", "temp_suffix: tmp\n", "must start with a dot"),
		Entry("suffix with separator", "temp_suffix: ./x\n", "path separator"),
		Entry("unknown default category", "default_category: 不存在\n", "not one of the categories"),
		Entry("malformed yaml", "categories: [unclosed\n", "failed to parse"),
	)
})
