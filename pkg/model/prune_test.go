package model_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/grafana/profileview/pkg/model"
)

func leaf(name string, w float64) *model.Node {
	return &model.Node{Identity: model.Identity{Function: name}, Weight: w}
}

func branch(name string, w float64, children ...*model.Node) *model.Node {
	n := leaf(name, w)
	n.Children = children
	return n
}

func functions(t *model.Tree) []string {
	var res []string
	t.Walk(func(n *model.Node) bool {
		res = append(res, n.Identity.Function)
		return true
	})
	return res
}

var _ = Describe("Prune", func() {
	var tree *model.Tree

	BeforeEach(func() {
		tree = model.NewTree(branch("root", 100,
			branch("a", 60,
				leaf("a1", 55),
				leaf("a2", 5),
			),
			branch("b", 9,
				leaf("b1", 9),
			),
			leaf("c", 31),
		))
	})

	It("removes insignificant subtrees entirely", func() {
		pruned := model.Prune(tree, 0.1, tree.TotalWeight())
		Expect(functions(pruned)).To(Equal([]string{"root", "a", "a1", "c"}))
	})

	It("leaves the input tree untouched", func() {
		model.Prune(tree, 0.5, tree.TotalWeight())
		Expect(tree.Len()).To(Equal(7))
		Expect(functions(tree)).To(Equal([]string{"root", "a", "a1", "a2", "b", "b1", "c"}))
	})

	It("never removes the root", func() {
		pruned := model.Prune(model.NewTree(leaf("root", 1)), 0.5, 1000)
		Expect(functions(pruned)).To(Equal([]string{"root"}))
	})

	It("keeps everything when the total weight is zero", func() {
		pruned := model.Prune(tree, 0.1, 0)
		Expect(pruned.String()).To(Equal(tree.String()))
	})

	It("keeps no surviving node below the cutoff", func() {
		const cutoff = 0.3
		pruned := model.Prune(tree, cutoff, tree.TotalWeight())
		pruned.Walk(func(n *model.Node) bool {
			if n.Parent != nil {
				Expect(n.Weight / tree.TotalWeight()).To(BeNumerically(">=", cutoff))
			}
			return true
		})
		Expect(functions(pruned)).To(Equal([]string{"root", "a", "a1", "c"}))
	})

	It("assigns dense pre-order ids", func() {
		pruned := model.Prune(tree, 0.1, tree.TotalWeight())
		for i, n := range pruned.Nodes() {
			Expect(n.ID).To(Equal(i))
		}
	})

	It("copies explicit color hashes", func() {
		h := uint32(7)
		n := leaf("root", 1)
		n.ColorHash = &h
		pruned := model.Prune(model.NewTree(n), 0, 1)
		Expect(pruned.Root().ColorHash).NotTo(BeIdenticalTo(n.ColorHash))
		Expect(*pruned.Root().ColorHash).To(Equal(h))
	})
})
