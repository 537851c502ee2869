package design

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/latticeforge/pnrcore/devgraph"
	"github.com/latticeforge/pnrcore/ids"
)

var _ = Describe("Database", func() {
	var (
		table *ids.Table
		db    *Database
		cell  *CellInfo
		net   *NetInfo
		portA ids.Id
	)

	BeforeEach(func() {
		table = ids.NewTable()
		db = NewDatabase()

		var err error
		cell, err = db.AddCell(table.Intern("c0"), table.Intern("LUT4"), ids.None)
		Expect(err).NotTo(HaveOccurred())
		net, err = db.AddNet(table.Intern("n0"), ids.None)
		Expect(err).NotTo(HaveOccurred())

		portA = table.Intern("A")
		Expect(db.AddInput(cell, portA)).To(Succeed())
	})

	Describe("ConnectPort", func() {
		It("links both directions of the port/net duality", func() {
			Expect(db.ConnectPort(net, cell, portA)).To(Succeed())

			Expect(cell.Port(portA).Net).To(Equal(net))
			Expect(net.Users).To(HaveLen(1))
			Expect(net.Users[0].Cell).To(Equal(cell))
			Expect(net.Users[0].Port).To(Equal(portA))
		})

		It("rejects connecting an already-connected port", func() {
			Expect(db.ConnectPort(net, cell, portA)).To(Succeed())
			Expect(db.ConnectPort(net, cell, portA)).To(HaveOccurred())
		})

		It("rejects connecting to a nonexistent port", func() {
			Expect(db.ConnectPort(net, cell, table.Intern("NOPE"))).To(HaveOccurred())
		})
	})

	Describe("BindBel", func() {
		It("rejects binding a cell that already holds a different bel", func() {
			b0 := devgraph.NewBelId(0)
			b1 := devgraph.NewBelId(1)

			Expect(db.BindBel(b0, cell, StrengthStrong)).To(Succeed())
			Expect(db.BindBel(b1, cell, StrengthStrong)).To(HaveOccurred())
		})

		It("is idempotent when rebinding the same (bel, cell) pair", func() {
			b0 := devgraph.NewBelId(0)

			Expect(db.BindBel(b0, cell, StrengthWeak)).To(Succeed())
			Expect(db.BindBel(b0, cell, StrengthWeak)).To(Succeed())
			Expect(db.BoundCell(b0)).To(Equal(cell))
		})
	})
})
