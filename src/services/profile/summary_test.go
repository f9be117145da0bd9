package profile

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"afvalprofiel/src/domain"
	"afvalprofiel/src/domain/entities"
)

// white-box: buildSummary é lógica pura, testada sem banco.
var _ = Describe("buildSummary", func() {
	service := NewProfileService(nil)

	emptying := func(wasteType entities.WasteType, weight float64, emptiedAt time.Time) domain.EmptyingWithWasteType {
		return domain.EmptyingWithWasteType{
			Emptying:  entities.Emptying{Weight: weight, EmptiedAt: emptiedAt},
			WasteType: wasteType,
		}
	}

	Context("empty set", func() {
		It("should produce zeroes and a nil period", func() {
			summary := service.buildSummary(nil, 0, 0)

			Expect(summary.TotalWeight).To(BeZero())
			Expect(summary.TotalWeightPerWasteType).To(BeEmpty())
			Expect(summary.EmptyingCount).To(BeZero())
			Expect(summary.Period).To(BeNil())
		})
	})

	Context("mixed waste types", func() {
		It("should aggregate totals and the per-type breakdown", func() {
			// ARRANGE: ordenadas por emptied_at desc, como vêm do banco
			newest := time.Date(2024, 3, 3, 8, 0, 0, 0, time.UTC)
			middle := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)
			oldest := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

			emptyings := []domain.EmptyingWithWasteType{
				emptying(entities.WasteTypeOrganic, 50, newest),
				emptying(entities.WasteTypeResidual, 30, middle),
				emptying(entities.WasteTypeOrganic, 20, oldest),
			}

			// ACT
			summary := service.buildSummary(emptyings, 2, 1)

			// ASSERT
			Expect(summary.TotalWeight).To(Equal(100.0))
			Expect(summary.TotalWeightPerWasteType).To(Equal(map[entities.WasteType]float64{
				entities.WasteTypeOrganic:  70.0,
				entities.WasteTypeResidual: 30.0,
			}))
			Expect(summary.EmptyingCount).To(Equal(3))
			Expect(summary.ContainerCount).To(Equal(2))
			Expect(summary.LocationCount).To(Equal(1))
			Expect(summary.Period.FirstEmptying).To(Equal(oldest))
			Expect(summary.Period.LastEmptying).To(Equal(newest))
		})
	})

	Context("single waste type", func() {
		It("should omit types that do not occur", func() {
			at := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

			summary := service.buildSummary([]domain.EmptyingWithWasteType{
				emptying(entities.WasteTypeResidual, 12.5, at),
			}, 1, 1)

			Expect(summary.TotalWeightPerWasteType).To(HaveLen(1))
			Expect(summary.TotalWeightPerWasteType).NotTo(HaveKey(entities.WasteTypeOrganic))
			Expect(summary.Period.FirstEmptying).To(Equal(at))
			Expect(summary.Period.LastEmptying).To(Equal(at))
		})
	})
})
