package importer_test

import (
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"afvalprofiel/src/domain/entities"
	"afvalprofiel/src/services/importer"
)

const rowTestHeader = "SUBJECTID;BSN;SUBJECTNAAM;OBJECTID;OBJECTADRES;CONTAINERID;SLEUTELNUMMER;VERZAMELCONTAINER_J_N;CONTAINERSOORT;LEDIGINGID;GEWICHT_ONVERDEELD;GEWICHT_VERDEELD;LEDIGINGSMOMENT"

// recordsFrom monta Records a partir de um CSV inline, pelo mesmo
// caminho que o import usa.
func recordsFrom(lines ...string) []importer.Record {
	content := strings.Join(lines, "\n")
	src, err := importer.NewCSVSource(strings.NewReader(content))
	Expect(err).NotTo(HaveOccurred())

	records, err := src.ReadChunk(len(lines))
	Expect(err).NotTo(HaveOccurred())
	return records
}

var _ = Describe("NormalizeRow", func() {
	Context("complete row", func() {
		It("should normalize all fields", func() {
			// ARRANGE
			records := recordsFrom(
				rowTestHeader,
				"S001;123456789;Jan Jansen;O001;Keizersgracht 1;C001;K123;J;gft;L001;12.5;12.5;2024-03-15 08:30:00",
			)

			// ACT
			row, keep, err := importer.NormalizeRow(records[0])

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(keep).To(BeTrue())
			Expect(row.SubjectID).To(Equal("S001"))
			Expect(row.NationalID).To(Equal("123456789"))
			Expect(row.SubjectName).To(Equal("Jan Jansen"))
			Expect(row.ObjectID).To(Equal("O001"))
			Expect(row.Address).To(Equal("Keizersgracht 1"))
			Expect(row.ContainerID).To(Equal("C001"))
			Expect(row.WasteType).To(Equal(entities.WasteTypeOrganic))
			Expect(row.IsCollective).To(BeTrue())
			Expect(row.HasKey).To(BeTrue())
			Expect(row.Weight).To(Equal(12.5))
			Expect(row.EmptiedAt).To(Equal(time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC)))
		})
	})

	Context("skip rule", func() {
		It("should drop rows without BSN", func() {
			records := recordsFrom(
				rowTestHeader,
				"S001;;Jan Jansen;O001;Keizersgracht 1;C001;;N;rest;L001;10;10;2024-03-15 08:30:00",
			)

			_, keep, err := importer.NormalizeRow(records[0])

			Expect(err).NotTo(HaveOccurred())
			Expect(keep).To(BeFalse())
		})

		It("should drop rows without LEDIGINGSMOMENT", func() {
			records := recordsFrom(
				rowTestHeader,
				"S001;123456789;Jan Jansen;O001;Keizersgracht 1;C001;;N;rest;L001;10;10;",
			)

			_, keep, err := importer.NormalizeRow(records[0])

			Expect(err).NotTo(HaveOccurred())
			Expect(keep).To(BeFalse())
		})
	})

	Context("waste type classification", func() {
		DescribeTable("maps source text to the enum",
			func(soort string, expected entities.WasteType) {
				records := recordsFrom(
					rowTestHeader,
					"S001;123456789;Jan Jansen;O001;Keizersgracht 1;C001;;N;"+soort+";L001;10;10;2024-03-15 08:30:00",
				)

				row, keep, err := importer.NormalizeRow(records[0])

				Expect(err).NotTo(HaveOccurred())
				Expect(keep).To(BeTrue())
				Expect(row.WasteType).To(Equal(expected))
			},
			Entry("gft", "gft", entities.WasteTypeOrganic),
			Entry("GFT uppercase", "GFT", entities.WasteTypeOrganic),
			Entry("groenafval", "groenafval", entities.WasteTypeOrganic),
			Entry("rest", "rest", entities.WasteTypeResidual),
			Entry("unknown text", "karton", entities.WasteTypeResidual),
			Entry("empty", "", entities.WasteTypeResidual),
		)

		It("should fall back to the legacy FRACTIEID column", func() {
			legacyHeader := strings.Replace(rowTestHeader, "CONTAINERSOORT", "FRACTIEID", 1)
			records := recordsFrom(
				legacyHeader,
				"S001;123456789;Jan Jansen;O001;Keizersgracht 1;C001;;N;groen;L001;10;10;2024-03-15 08:30:00",
			)

			row, keep, err := importer.NormalizeRow(records[0])

			Expect(err).NotTo(HaveOccurred())
			Expect(keep).To(BeTrue())
			Expect(row.WasteType).To(Equal(entities.WasteTypeOrganic))
		})
	})

	Context("collective flag", func() {
		It("should treat empty as N", func() {
			records := recordsFrom(
				rowTestHeader,
				"S001;123456789;Jan Jansen;O001;Keizersgracht 1;C001;;;rest;L001;10;10;2024-03-15 08:30:00",
			)

			row, keep, err := importer.NormalizeRow(records[0])

			Expect(err).NotTo(HaveOccurred())
			Expect(keep).To(BeTrue())
			Expect(row.IsCollective).To(BeFalse())
		})

		It("should fail on an unknown literal", func() {
			records := recordsFrom(
				rowTestHeader,
				"S001;123456789;Jan Jansen;O001;Keizersgracht 1;C001;;X;rest;L001;10;10;2024-03-15 08:30:00",
			)

			_, _, err := importer.NormalizeRow(records[0])

			Expect(err).To(MatchError(importer.ErrInvalidFlag))
		})
	})

	Context("weight", func() {
		It("should fail on an unparseable value", func() {
			records := recordsFrom(
				rowTestHeader,
				"S001;123456789;Jan Jansen;O001;Keizersgracht 1;C001;;N;rest;L001;10;tien;2024-03-15 08:30:00",
			)

			_, _, err := importer.NormalizeRow(records[0])

			Expect(err).To(MatchError(importer.ErrSourceFormat))
		})

		It("should fail on a negative value", func() {
			records := recordsFrom(
				rowTestHeader,
				"S001;123456789;Jan Jansen;O001;Keizersgracht 1;C001;;N;rest;L001;10;-1.5;2024-03-15 08:30:00",
			)

			_, _, err := importer.NormalizeRow(records[0])

			Expect(err).To(MatchError(importer.ErrSourceFormat))
		})
	})

	Context("emptied at", func() {
		It("should accept the T-separated layout", func() {
			records := recordsFrom(
				rowTestHeader,
				"S001;123456789;Jan Jansen;O001;Keizersgracht 1;C001;;N;rest;L001;10;10;2024-03-15T08:30:00",
			)

			row, _, err := importer.NormalizeRow(records[0])

			Expect(err).NotTo(HaveOccurred())
			Expect(row.EmptiedAt).To(Equal(time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC)))
		})

		It("should convert RFC3339 offsets to UTC", func() {
			records := recordsFrom(
				rowTestHeader,
				"S001;123456789;Jan Jansen;O001;Keizersgracht 1;C001;;N;rest;L001;10;10;2024-03-15T08:30:00+02:00",
			)

			row, _, err := importer.NormalizeRow(records[0])

			Expect(err).NotTo(HaveOccurred())
			Expect(row.EmptiedAt).To(Equal(time.Date(2024, 3, 15, 6, 30, 0, 0, time.UTC)))
		})

		It("should fail on garbage", func() {
			records := recordsFrom(
				rowTestHeader,
				"S001;123456789;Jan Jansen;O001;Keizersgracht 1;C001;;N;rest;L001;10;10;15-03-2024",
			)

			_, _, err := importer.NormalizeRow(records[0])

			Expect(err).To(MatchError(importer.ErrSourceFormat))
		})
	})
})
