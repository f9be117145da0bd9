package importer_test

import (
	"archive/zip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"afvalprofiel/src/services/importer"
)

type fetcherStub struct {
	content string
	err     error
}

func (f fetcherStub) Fetch(_ context.Context, _ string, dst io.Writer) error {
	if f.err != nil {
		return f.err
	}
	_, err := dst.Write([]byte(f.content))
	return err
}

// writeZip cria um zip de teste com os arquivos dados (nome -> conteúdo).
func writeZip(dir string, entries map[string]string, dirs ...string) string {
	path := filepath.Join(dir, "source.zip")
	f, err := os.Create(path)
	Expect(err).NotTo(HaveOccurred())
	defer f.Close()

	w := zip.NewWriter(f)
	for _, d := range dirs {
		_, err := w.Create(d + "/")
		Expect(err).NotTo(HaveOccurred())
	}
	for name, content := range entries {
		entry, err := w.Create(name)
		Expect(err).NotTo(HaveOccurred())
		_, err = entry.Write([]byte(content))
		Expect(err).NotTo(HaveOccurred())
	}
	Expect(w.Close()).To(Succeed())

	return path
}

var _ = Describe("StagingArea", func() {
	var staging *importer.StagingArea

	BeforeEach(func() {
		var err error
		staging, err = importer.NewStagingArea()
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		staging.Close()
	})

	Context("permissions", func() {
		It("should keep the staging directory private", func() {
			info, err := os.Stat(staging.Dir())

			Expect(err).NotTo(HaveOccurred())
			Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o700)))
		})

		It("should create files readable by the owner only", func() {
			f, err := staging.CreateFile("data.csv")
			Expect(err).NotTo(HaveOccurred())
			defer f.Close()

			info, err := os.Stat(f.Name())
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))
		})
	})

	Context("archive extraction", func() {
		It("should extract the single data file", func() {
			zipPath := writeZip(GinkgoT().TempDir(), map[string]string{
				"ledigingen.csv": "inhoud",
			})

			extracted, err := staging.ExtractArchive(zipPath)

			Expect(err).NotTo(HaveOccurred())
			content, err := os.ReadFile(extracted)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(content)).To(Equal("inhoud"))
		})

		It("should ignore directory entries", func() {
			zipPath := writeZip(GinkgoT().TempDir(), map[string]string{
				"export/ledigingen.csv": "inhoud",
			}, "export")

			_, err := staging.ExtractArchive(zipPath)

			Expect(err).NotTo(HaveOccurred())
		})

		It("should reject an empty archive", func() {
			zipPath := writeZip(GinkgoT().TempDir(), map[string]string{})

			_, err := staging.ExtractArchive(zipPath)

			Expect(err).To(MatchError(importer.ErrArchive))
		})

		It("should reject an archive with several data files", func() {
			zipPath := writeZip(GinkgoT().TempDir(), map[string]string{
				"a.csv": "a",
				"b.csv": "b",
			})

			_, err := staging.ExtractArchive(zipPath)

			Expect(err).To(MatchError(importer.ErrArchive))
		})
	})

	Context("fetching", func() {
		It("should download a plain file as-is", func() {
			fetcher := fetcherStub{content: "a;b;c"}

			localPath, err := staging.FetchSource(context.Background(), fetcher, "/export/ledigingen.csv")

			Expect(err).NotTo(HaveOccurred())
			Expect(filepath.Dir(localPath)).To(Equal(staging.Dir()))
			content, err := os.ReadFile(localPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(content)).To(Equal("a;b;c"))
		})

		It("should extract a downloaded zip", func() {
			zipPath := writeZip(GinkgoT().TempDir(), map[string]string{
				"ledigingen.csv": "inhoud",
			})
			raw, err := os.ReadFile(zipPath)
			Expect(err).NotTo(HaveOccurred())
			fetcher := fetcherStub{content: string(raw)}

			localPath, err := staging.FetchSource(context.Background(), fetcher, "/export/ledigingen.zip")

			Expect(err).NotTo(HaveOccurred())
			Expect(filepath.Base(localPath)).To(Equal("ledigingen.csv"))
			content, err := os.ReadFile(localPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(content)).To(Equal("inhoud"))
		})

		It("should propagate download failures", func() {
			fetcher := fetcherStub{err: errors.New("connection reset")}

			_, err := staging.FetchSource(context.Background(), fetcher, "/export/ledigingen.csv")

			Expect(err).To(HaveOccurred())
		})
	})

	Context("cleanup", func() {
		It("should remove the directory on Close and stay idempotent", func() {
			dir := staging.Dir()

			staging.Close()
			staging.Close()

			_, err := os.Stat(dir)
			Expect(os.IsNotExist(err)).To(BeTrue())
		})
	})
})
