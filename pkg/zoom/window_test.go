package zoom_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/grafana/profileview/pkg/layout"
	"github.com/grafana/profileview/pkg/model"
	"github.com/grafana/profileview/pkg/zoom"
)

func node(name string, w float64, children ...*model.Node) *model.Node {
	return &model.Node{Identity: model.Identity{Function: name}, Weight: w, Children: children}
}

var _ = Describe("Window", func() {
	var (
		l *layout.Layout
		w *zoom.Window
	)

	// root(0) ─┬─ a(1) ── a1(2) ── a2(3)
	//          ├─ b(4)
	//          └─ z(5)  zero weight
	BeforeEach(func() {
		tr := model.NewTree(node("root", 4,
			node("a", 2, node("a1", 2, node("a2", 2))),
			node("b", 2),
			node("z", 0),
		))
		l = layout.Compute(tr)
		w = zoom.NewWindow(l)
	})

	It("starts in the full state", func() {
		Expect(w.State()).To(Equal(zoom.StateFull))
		Expect(w.X()).To(Equal(zoom.Full))
		Expect(w.Y()).To(Equal(zoom.Full))
		_, focused := w.Focus()
		Expect(focused).To(BeFalse())
	})

	It("focuses a node down to its deepest leaf", func() {
		Expect(w.ZoomIn(1)).To(Succeed())
		Expect(w.State()).To(Equal(zoom.StateFocused))
		id, focused := w.Focus()
		Expect(focused).To(BeTrue())
		Expect(id).To(Equal(1))
		Expect(w.X()).To(Equal(zoom.Domain{Lo: 0, Hi: 0.5}))
		Expect(w.Y().Lo).To(BeNumerically("~", 0.25, 1e-9))
		Expect(w.Y().Hi).To(BeNumerically("~", 1, 1e-9))
	})

	It("focuses a leaf down to its own row", func() {
		Expect(w.ZoomIn(4)).To(Succeed())
		Expect(w.X()).To(Equal(zoom.Domain{Lo: 0.5, Hi: 1}))
		Expect(w.Y().Lo).To(BeNumerically("~", 0.25, 1e-9))
		Expect(w.Y().Hi).To(BeNumerically("~", 0.5, 1e-9))
	})

	It("can pin the y domain to the focused row", func() {
		w = zoom.NewWindow(l, zoom.WithYPin(zoom.PinOwnBand))
		Expect(w.ZoomIn(1)).To(Succeed())
		Expect(w.Y().Hi).To(BeNumerically("~", 0.5, 1e-9))
	})

	It("only narrows while zooming into descendants", func() {
		Expect(w.ZoomIn(1)).To(Succeed())
		prevX, prevY := w.X(), w.Y()
		Expect(w.ZoomIn(2)).To(Succeed())
		Expect(prevX.Contains(w.X())).To(BeTrue())
		Expect(prevY.Contains(w.Y())).To(BeTrue())
	})

	It("refocuses an ancestor from the full view", func() {
		Expect(w.ZoomIn(2)).To(Succeed())
		Expect(w.ZoomIn(0)).To(Succeed())
		Expect(w.X()).To(Equal(zoom.Full))
		Expect(w.Y()).To(Equal(zoom.Domain{Lo: 0, Hi: 1}))
		id, _ := w.Focus()
		Expect(id).To(Equal(0))
	})

	It("refuses nodes without width and keeps the state", func() {
		Expect(w.ZoomIn(1)).To(Succeed())
		before := w.Snapshot()
		err := w.ZoomIn(5)
		Expect(zoom.IsDegenerateDomainError(err)).To(BeTrue())
		Expect(w.Snapshot()).To(Equal(before))
	})

	It("rejects unknown nodes", func() {
		Expect(w.ZoomIn(42)).NotTo(Succeed())
		Expect(w.State()).To(Equal(zoom.StateFull))
	})

	It("always returns to the full range on zoom out", func() {
		for id := 0; id < l.Len(); id++ {
			_ = w.ZoomIn(id)
			w.ZoomOut()
			Expect(w.X()).To(Equal(zoom.Domain{Lo: 0, Hi: 1}))
			Expect(w.Y()).To(Equal(zoom.Domain{Lo: 0, Hi: 1}))
			Expect(w.State()).To(Equal(zoom.StateFull))
		}
		w.ZoomOut()
		Expect(w.X()).To(Equal(zoom.Full))
	})

	It("projects rectangles through the window", func() {
		vp := zoom.Viewport{Width: 1000, Height: 400}
		r, _ := l.Rect(1)
		s, err := w.Project(r, vp)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.X0).To(BeNumerically("~", 0, 1e-9))
		Expect(s.X1).To(BeNumerically("~", 500, 1e-9))
		Expect(s.Y0).To(BeNumerically("~", 100, 1e-9))
		Expect(s.Height()).To(BeNumerically("~", 100, 1e-9))

		Expect(w.ZoomIn(1)).To(Succeed())
		s, err = w.Project(r, vp)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Width()).To(BeNumerically("~", 1000, 1e-9))
		Expect(s.Y0).To(BeNumerically("~", 0, 1e-9))

		b, _ := l.Rect(4)
		Expect(w.Visible(b)).To(BeFalse())
		Expect(w.Visible(r)).To(BeTrue())
		root, _ := l.Rect(0)
		Expect(w.Visible(root)).To(BeFalse())
	})
})
