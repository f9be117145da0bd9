package importer_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/jackc/pgx/v5/pgxpool"

	"afvalprofiel/src/domain/entities"
	"afvalprofiel/src/helper/env"
	"afvalprofiel/src/infra/postgres"
	"afvalprofiel/src/repositories"
	"afvalprofiel/src/services/importer"
	"afvalprofiel/src/test_artefacts/comparer"
	"afvalprofiel/src/test_artefacts/test_seeder"
)

var _ = Describe("ImportService", func() {
	var (
		pool          *pgxpool.Pool
		seeder        test_seeder.TestSeeder
		importService *importer.ImportService
		ctx           context.Context
	)

	dbHost := env.GetString("TEST_DB_HOST", "")
	dbPort := env.GetString("TEST_DB_PORT", "5432")
	dbname := env.GetString("TEST_DB_NAME", "")
	dbUser := env.GetString("TEST_DB_USER", "")
	dbPassword := env.GetString("TEST_DB_PASSWORD", "")
	maxConnections := env.GetInt("TEST_DB_MAX_POOL_CONNECTIONS", 25)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	writeCSV := func(lines ...string) string {
		path := filepath.Join(GinkgoT().TempDir(), "ledigingen.csv")
		content := strings.Join(lines, "\n")
		Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())
		return path
	}

	BeforeEach(func() {
		if dbHost == "" {
			Skip("TEST_DB_HOST not set")
		}

		ctx = context.Background()

		var err error
		pool, err = postgres.NewPostgresClient(dbHost, dbPort, dbname, dbUser, dbPassword, maxConnections)
		if err != nil {
			panic(err)
		}

		datasetWriteRepository := repositories.NewDatasetWriteRepository(pool)
		importService = importer.NewImportService(logger, datasetWriteRepository)
		seeder = test_seeder.New(pool)

		seeder.TruncateTables(ctx)
	})

	AfterEach(func() {
		if pool != nil {
			pool.Close()
		}
	})

	Context("end to end", func() {
		It("should load all entities and emptyings from a CSV", func() {
			// ARRANGE
			path := writeCSV(
				rowTestHeader,
				"S001;111111110;Jan Jansen;O001;Keizersgracht 1;C001;K1;N;gft;L001;20;20;2024-03-01 08:00:00",
				"S001;111111110;Jan Jansen;O001;Keizersgracht 1;C002;;N;rest;L002;30;30;2024-03-02 08:00:00",
				"S002;222222220;Piet Peters;O002;Herengracht 2;C001;K1;N;gft;L003;50;50;2024-03-03 08:00:00",
			)

			// ACT
			stats, err := importService.ImportFromFile(ctx, path, importer.DefaultChunkSize)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.RowsRead).To(Equal(3))
			Expect(stats.RowsSkipped).To(Equal(0))
			Expect(stats.Citizens).To(Equal(2))
			Expect(stats.Containers).To(Equal(2))
			Expect(stats.Locations).To(Equal(2))
			Expect(stats.Emptyings).To(Equal(3))

			citizens, err := seeder.SelectCitizens(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(citizens).To(HaveLen(2))
			Expect(citizens[0]).To(BeComparableTo(
				entities.Citizen{NationalID: "111111110", Name: "Jan Jansen"},
				comparer.ImportGenerated[entities.Citizen](),
			))

			emptyings, err := seeder.SelectEmptyingsByNationalID(ctx, "111111110")
			Expect(err).NotTo(HaveOccurred())
			Expect(emptyings).To(HaveLen(2))
			// newest first
			Expect(emptyings[0]).To(BeComparableTo(
				entities.Emptying{
					Weight:    30,
					EmptiedAt: time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC),
					EmptiedOn: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
				},
				comparer.IgnoreFieldsFor[entities.Emptying]("ID", "ContainerLocationID", "CitizenID", "ContainerID", "CreatedAt", "UpdatedAt"),
				comparer.TimeWithinTolerance(time.Second),
			))
			Expect(emptyings[1].Weight).To(Equal(20.0))
		})

		It("should produce the same dataset for any chunk size", func() {
			lines := []string{
				rowTestHeader,
				"S001;111111110;Jan Jansen;O001;Keizersgracht 1;C001;;N;gft;L001;20;20;2024-03-01 08:00:00",
				"S001;111111110;Jan Jansen;O001;Keizersgracht 1;C002;;N;rest;L002;30;30;2024-03-02 08:00:00",
				"S002;222222220;Piet Peters;O002;Herengracht 2;C001;;N;gft;L003;50;50;2024-03-03 08:00:00",
				"S003;333333330;Kees Klaassen;O003;Prinsengracht 3;C003;K9;J;rest;L004;10;10;2024-03-04 08:00:00",
			}

			for _, chunkSize := range []int{1, 10_000} {
				path := writeCSV(lines...)

				stats, err := importService.ImportFromFile(ctx, path, chunkSize)

				Expect(err).NotTo(HaveOccurred())
				Expect(stats.Emptyings).To(Equal(4))

				for table, expected := range map[string]int{
					"citizens":            3,
					"containers":          3,
					"container_locations": 3,
					"emptyings":           4,
				} {
					count, err := seeder.CountRows(ctx, table)
					Expect(err).NotTo(HaveOccurred())
					Expect(count).To(Equal(expected), "table %s with chunk size %d", table, chunkSize)
				}
			}
		})
	})

	Context("skip rule", func() {
		It("should silently drop incomplete rows in both passes", func() {
			path := writeCSV(
				rowTestHeader,
				"S001;111111110;Jan Jansen;O001;Keizersgracht 1;C001;;N;gft;L001;20;20;2024-03-01 08:00:00",
				"S002;;Piet Peters;O002;Herengracht 2;C002;;N;rest;L002;30;30;2024-03-02 08:00:00",
				"S003;333333330;Kees Klaassen;O003;Prinsengracht 3;C003;;N;rest;L003;40;40;",
			)

			stats, err := importService.ImportFromFile(ctx, path, importer.DefaultChunkSize)

			Expect(err).NotTo(HaveOccurred())
			Expect(stats.RowsRead).To(Equal(3))
			Expect(stats.RowsSkipped).To(Equal(2))
			Expect(stats.Citizens).To(Equal(1))
			Expect(stats.Emptyings).To(Equal(1))
		})
	})

	Context("first occurrence wins", func() {
		It("should keep attributes of the first sighting across the file", func() {
			path := writeCSV(
				rowTestHeader,
				"S001;111111110;Jan Jansen;O001;Keizersgracht 1;C001;;N;gft;L001;20;20;2024-03-01 08:00:00",
				"S001;111111110;J. Jansen-de Vries;O001;Keizersgracht 1-A;C001;K5;N;rest;L002;30;30;2024-03-02 08:00:00",
			)

			_, err := importService.ImportFromFile(ctx, path, importer.DefaultChunkSize)

			Expect(err).NotTo(HaveOccurred())

			citizens, err := seeder.SelectCitizens(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(citizens).To(HaveLen(1))
			Expect(citizens[0].Name).To(Equal("Jan Jansen"))

			containers, err := seeder.SelectContainers(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(containers).To(HaveLen(1))
			Expect(containers[0]).To(BeComparableTo(
				entities.Container{WasteType: entities.WasteTypeOrganic},
				comparer.ImportGenerated[entities.Container](),
			))
		})
	})

	Context("full replace", func() {
		It("should replace the previous dataset entirely", func() {
			first := writeCSV(
				rowTestHeader,
				"S001;111111110;Jan Jansen;O001;Keizersgracht 1;C001;;N;gft;L001;20;20;2024-03-01 08:00:00",
				"S002;222222220;Piet Peters;O002;Herengracht 2;C002;;N;rest;L002;30;30;2024-03-02 08:00:00",
			)
			_, err := importService.ImportFromFile(ctx, first, importer.DefaultChunkSize)
			Expect(err).NotTo(HaveOccurred())

			second := writeCSV(
				rowTestHeader,
				"S009;999999990;Anna Alders;O009;Singel 9;C009;;N;rest;L009;15;15;2024-04-01 08:00:00",
			)
			_, err = importService.ImportFromFile(ctx, second, importer.DefaultChunkSize)
			Expect(err).NotTo(HaveOccurred())

			citizens, err := seeder.SelectCitizens(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(citizens).To(HaveLen(1))
			Expect(citizens[0].NationalID).To(Equal("999999990"))

			count, err := seeder.CountRows(ctx, "emptyings")
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(1))
		})
	})

	Context("failures", func() {
		It("should abort and keep the previous dataset on duplicate BSN", func() {
			// ARRANGE: dataset anterior válido
			first := writeCSV(
				rowTestHeader,
				"S001;111111110;Jan Jansen;O001;Keizersgracht 1;C001;;N;gft;L001;20;20;2024-03-01 08:00:00",
			)
			_, err := importService.ImportFromFile(ctx, first, importer.DefaultChunkSize)
			Expect(err).NotTo(HaveOccurred())

			// dois subject ids distintos com o mesmo BSN
			second := writeCSV(
				rowTestHeader,
				"S002;222222220;Piet Peters;O002;Herengracht 2;C002;;N;rest;L002;30;30;2024-03-02 08:00:00",
				"S003;222222220;Niet Piet;O003;Prinsengracht 3;C003;;N;rest;L003;40;40;2024-03-03 08:00:00",
			)

			// ACT
			_, err = importService.ImportFromFile(ctx, second, importer.DefaultChunkSize)

			// ASSERT
			Expect(err).To(HaveOccurred())

			citizens, err := seeder.SelectCitizens(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(citizens).To(HaveLen(1))
			Expect(citizens[0].NationalID).To(Equal("111111110"))
		})

		It("should fail on a malformed weight without touching the dataset", func() {
			path := writeCSV(
				rowTestHeader,
				"S001;111111110;Jan Jansen;O001;Keizersgracht 1;C001;;N;gft;L001;20;tien;2024-03-01 08:00:00",
			)

			_, err := importService.ImportFromFile(ctx, path, importer.DefaultChunkSize)

			Expect(err).To(MatchError(importer.ErrSourceFormat))

			count, err := seeder.CountRows(ctx, "citizens")
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(0))
		})
	})
})
