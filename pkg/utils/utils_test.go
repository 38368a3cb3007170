package utils_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/invoice-renamer/pkg/utils"
)

var _ = Describe("Utils", func() {
	Context("FileHash", func() {
		var dir string

		BeforeEach(func() {
			var err error
			dir, err = os.MkdirTemp("", "utils-test-*")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			os.RemoveAll(dir)
		})

		It("should hash identical content identically", func() {
			a := filepath.Join(dir, "a")
			b := filepath.Join(dir, "b")
			Expect(os.WriteFile(a, []byte("abc"), 0644)).To(Succeed())
			Expect(os.WriteFile(b, []byte("abc"), 0644)).To(Succeed())

			hashA, err := utils.FileHash(a)
			Expect(err).NotTo(HaveOccurred())
			hashB, err := utils.FileHash(b)
			Expect(err).NotTo(HaveOccurred())

			Expect(hashA).To(Equal(hashB))
			Expect(hashA).To(Equal("ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"))
		})

		It("should fail on a missing file", func() {
			_, err := utils.FileHash(filepath.Join(dir, "missing"))
			Expect(err).To(HaveOccurred())
		})
	})

	It("should create a fresh default output directory", func() {
		dir := utils.GetDefaultOutputDir()
		defer os.RemoveAll(dir)

		Expect(dir).To(BeADirectory())
		Expect(filepath.Base(dir)).To(HavePrefix(utils.DefaultOutputDirName))
	})
})
