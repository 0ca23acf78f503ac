package storage_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"

	"tlinesim/internal/fdtd"
	"tlinesim/internal/sim"
	"tlinesim/internal/storage"
)

var _ = Describe("Store", func() {
	var (
		dir    string
		store  *storage.Store
		params fdtd.Parameters
	)

	BeforeEach(func() {
		dir = filepath.Join(GinkgoT().TempDir(), "run1")
		store = storage.New(dir)
		params = fdtd.Parameters{DeltaZ: 2e-4, DeltaT: 2e-12}
	})

	Describe("Begin", func() {
		It("records grid scalars and returns zero offsets on a fresh destination", func() {
			offs, err := store.Begin(10, 5, sim.SaveEnd, true, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(offs).To(Equal(sim.Offsets{}))

			meta, err := store.Meta()
			Expect(err).NotTo(HaveOccurred())
			Expect(meta.TimeStep).To(Equal(params.DeltaT))
			Expect(meta.LengthStep).To(Equal(params.DeltaZ))
			Expect(meta.TotalPoints).To(Equal(5))
			Expect(meta.BoundaryRows).To(BeZero())
			Expect(meta.FullRows).To(BeZero())
			Expect(meta.HasFull).To(BeFalse())
		})

		It("returns stored row counts as offsets when appending", func() {
			_, err := store.Begin(3, 5, sim.SaveEnd, true, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(store.AppendBoundary(0,
				[]float64{1, 2, 3}, []float64{4, 5, 6},
				[]float64{7, 8, 9}, []float64{10, 11, 12})).To(Succeed())

			reopened := storage.New(dir)
			offs, err := reopened.Begin(4, 5, sim.SaveEnd, false, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(offs).To(Equal(sim.Offsets{Boundary: 3, Full: 0}))
		})

		It("rejects appending onto a destination with different geometry", func() {
			_, err := store.Begin(3, 5, sim.SaveEnd, true, params)
			Expect(err).NotTo(HaveOccurred())

			_, err = store.Begin(3, 9, sim.SaveEnd, false, params)
			Expect(err).To(MatchError(ContainSubstring("5-point line")))
		})

		It("overwrites prior data when asked", func() {
			_, err := store.Begin(3, 5, sim.SaveEnd, true, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(store.AppendBoundary(0,
				[]float64{1}, []float64{2}, []float64{3}, []float64{4})).To(Succeed())

			offs, err := store.Begin(3, 5, sim.SaveEnd, true, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(offs).To(Equal(sim.Offsets{}))

			_, err = os.Stat(filepath.Join(dir, "start.csv"))
			Expect(os.IsNotExist(err)).To(BeTrue())
		})
	})

	Describe("AppendBoundary", func() {
		BeforeEach(func() {
			_, err := store.Begin(6, 5, sim.SaveEnd, true, params)
			Expect(err).NotTo(HaveOccurred())
		})

		It("round-trips both boundary series", func() {
			Expect(store.AppendBoundary(0,
				[]float64{0.5, 0.25}, []float64{0.1, 0.2},
				[]float64{-0.5, -0.25}, []float64{-0.1, -0.2})).To(Succeed())

			volts, currs, err := store.BoundarySeries("start")
			Expect(err).NotTo(HaveOccurred())
			Expect(volts).To(Equal([]float64{0.5, 0.25}))
			Expect(currs).To(Equal([]float64{0.1, 0.2}))

			volts, currs, err = store.BoundarySeries("end")
			Expect(err).NotTo(HaveOccurred())
			Expect(volts).To(Equal([]float64{-0.5, -0.25}))
			Expect(currs).To(Equal([]float64{-0.1, -0.2}))
		})

		It("rejects an offset that does not match the stored row count", func() {
			Expect(store.AppendBoundary(0,
				[]float64{1, 2}, []float64{3, 4}, []float64{5, 6}, []float64{7, 8})).To(Succeed())

			err := store.AppendBoundary(0,
				[]float64{1}, []float64{2}, []float64{3}, []float64{4})
			Expect(err).To(MatchError(ContainSubstring("does not match stored row count 2")))

			Expect(store.AppendBoundary(2,
				[]float64{1}, []float64{2}, []float64{3}, []float64{4})).To(Succeed())

			meta, err := store.Meta()
			Expect(err).NotTo(HaveOccurred())
			Expect(meta.BoundaryRows).To(Equal(3))
		})
	})

	Describe("AppendFull", func() {
		BeforeEach(func() {
			_, err := store.Begin(4, 3, sim.SaveFull, true, params)
			Expect(err).NotTo(HaveOccurred())
		})

		It("round-trips trajectory matrices across batches", func() {
			v1 := mat.NewDense(2, 4, []float64{
				1, 2, 3, 4,
				5, 6, 7, 8,
			})
			c1 := mat.NewDense(2, 3, []float64{
				0.1, 0.2, 0.3,
				0.4, 0.5, 0.6,
			})
			Expect(store.AppendFull(0, v1, c1)).To(Succeed())

			v2 := mat.NewDense(1, 4, []float64{9, 10, 11, 12})
			c2 := mat.NewDense(1, 3, []float64{0.7, 0.8, 0.9})
			Expect(store.AppendFull(2, v2, c2)).To(Succeed())

			volts, err := store.FullVoltages()
			Expect(err).NotTo(HaveOccurred())
			rows, cols := volts.Dims()
			Expect(rows).To(Equal(3))
			Expect(cols).To(Equal(4))
			Expect(volts.At(2, 3)).To(Equal(12.0))

			currs, err := store.FullCurrents()
			Expect(err).NotTo(HaveOccurred())
			Expect(currs.At(0, 1)).To(Equal(0.2))
			Expect(currs.At(2, 2)).To(Equal(0.9))

			meta, err := store.Meta()
			Expect(err).NotTo(HaveOccurred())
			Expect(meta.FullRows).To(Equal(3))
			Expect(meta.HasFull).To(BeTrue())
		})

		It("rejects an offset that does not match the stored row count", func() {
			v := mat.NewDense(1, 4, []float64{1, 2, 3, 4})
			c := mat.NewDense(1, 3, []float64{1, 2, 3})
			Expect(store.AppendFull(0, v, c)).To(Succeed())
			Expect(store.AppendFull(0, v, c)).To(MatchError(ContainSubstring("does not match stored row count 1")))
		})
	})

	Describe("List", func() {
		It("returns every destination under a data directory", func() {
			dataDir := GinkgoT().TempDir()
			for _, name := range []string{"a", "b"} {
				st := storage.New(filepath.Join(dataDir, name))
				_, err := st.Begin(1, 5, sim.SaveEnd, true, params)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(os.MkdirAll(filepath.Join(dataDir, "not-a-store"), 0755)).To(Succeed())

			names, metas, err := storage.List(dataDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(ConsistOf("a", "b"))
			Expect(metas).To(HaveLen(2))
		})

		It("treats a missing data directory as empty", func() {
			names, metas, err := storage.List(filepath.Join(GinkgoT().TempDir(), "missing"))
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(BeEmpty())
			Expect(metas).To(BeEmpty())
		})
	})
})
