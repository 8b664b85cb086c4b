package sim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sheikhrachel/lifeboard/model"
	"github.com/sheikhrachel/lifeboard/sim"
)

func placed(name string, rows, cols, x, y int) *model.Board {
	GinkgoHelper()
	p, ok := model.LookupPattern(name)
	Expect(ok).To(BeTrue(), "pattern %s", name)
	b, err := model.NewBoard(rows, cols)
	Expect(err).NotTo(HaveOccurred())
	Expect(b.Place(p, x, y)).To(Succeed())
	return b
}

func stepN(b *model.Board, n int) *model.Board {
	for range n {
		b = sim.Step(b)
	}
	return b
}

func shifted(cells []model.Cell, dx, dy int) []model.Cell {
	out := make([]model.Cell, len(cells))
	for i, c := range cells {
		out[i] = model.Cell{X: c.X + dx, Y: c.Y + dy}
	}
	return out
}

var _ = Describe("Built-in patterns", func() {
	DescribeTable("return to their start after one period",
		func(name string, period int) {
			b := placed(name, 10, 10, 3, 3)
			start := b.Clone()

			for gen := 1; gen < period; gen++ {
				b = sim.Step(b)
				Expect(b.Equal(start)).To(BeFalse(), "%s repeated early at generation %d", name, gen)
			}
			Expect(sim.Step(b).Equal(start)).To(BeTrue())
		},
		Entry("block is a still life", "block", 1),
		Entry("blinker", "blinker", 2),
		Entry("toad", "toad", 2),
		Entry("beacon", "beacon", 2),
	)

	It("moves a glider one cell diagonally every four generations", func() {
		b := placed("glider", 12, 12, 1, 1)
		start := b.LiveCells()

		b = stepN(b, 4)
		Expect(b.LiveCells()).To(Equal(shifted(start, 1, 1)))

		b = stepN(b, 8)
		Expect(b.LiveCells()).To(Equal(shifted(start, 3, 3)))
	})

	It("turns a glider into a block when it reaches the corner", func() {
		b := stepN(placed("glider", 6, 6, 0, 0), 40)
		Expect(b.CountLiving()).To(Equal(4))
		Expect(sim.Step(b).Equal(b)).To(BeTrue())
	})

	It("keeps an r-pentomino changing", func() {
		b := placed("rpentomino", 20, 20, 8, 8)
		Expect(sim.Step(b).Equal(b)).To(BeFalse())
		Expect(stepN(b, 10).CountLiving()).To(BeNumerically(">", 5))
	})

	Describe("stagnation", func() {
		var history model.History

		BeforeEach(func() {
			history.Reset()
		})

		It("is detected for an oscillator once history fills", func() {
			b := placed("blinker", 5, 5, 1, 2)
			stagnant := make([]bool, 0, 6)
			for range 6 {
				stagnant = append(stagnant, history.IsStagnant(b))
				history.Update(b)
				b = sim.Step(b)
			}
			Expect(stagnant).To(Equal([]bool{false, false, false, true, true, true}))
		})

		It("is not reported while a glider travels", func() {
			b := placed("glider", 20, 20, 0, 0)
			for range 20 {
				Expect(history.IsStagnant(b)).To(BeFalse())
				history.Update(b)
				b = sim.Step(b)
			}
		})
	})
})
