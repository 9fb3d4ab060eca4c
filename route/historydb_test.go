package route_test

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/route"
)

var _ = ginkgo.Describe("HistoryDB", func() {
	ginkgo.It("records one iterations row and one congestion row per congested wire", func() {
		dir, err := os.MkdirTemp("", "pnr-historydb-test")
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		defer os.RemoveAll(dir)

		path := filepath.Join(dir, "history.sqlite3")
		db, err := route.OpenHistoryDB(path)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		defer db.Close()

		congested := []device.WireID{3, 7}
		cost := map[device.WireID]float64{3: 1.5, 7: 2.25}
		historyCost := func(w device.WireID) float64 { return cost[w] }

		gomega.Expect(db.RecordIteration(1, 1.3, congested, historyCost)).To(gomega.Succeed())

		raw, err := sql.Open("sqlite3", path)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		defer raw.Close()

		var iterCount int
		gomega.Expect(raw.QueryRow(`SELECT COUNT(*) FROM iterations`).Scan(&iterCount)).To(gomega.Succeed())
		gomega.Expect(iterCount).To(gomega.Equal(1))

		var congestionCount int
		gomega.Expect(raw.QueryRow(`SELECT COUNT(*) FROM congestion WHERE iter = 1`).Scan(&congestionCount)).To(gomega.Succeed())
		gomega.Expect(congestionCount).To(gomega.Equal(2))
	})

	ginkgo.It("implements route.HistorySink", func() {
		var _ route.HistorySink = (*route.HistoryDB)(nil)
	})
})
