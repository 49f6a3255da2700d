package usecase

import (
	"iter"

	"github.com/m-mizutani/drydock/pkg/domain/model"
)

// ExpandMatrix enumerates the cells of family. Only the mobile family has
// sub-dimensions; the others yield a single zero cell. Architecture is the
// outer loop and network the inner one, so the order is stable.
func ExpandMatrix(family model.Family, dims model.Dimensions) iter.Seq[model.MatrixCell] {
	return func(yield func(model.MatrixCell) bool) {
		if family != model.FamilyMobilePackage {
			yield(model.MatrixCell{})
			return
		}
		for _, arch := range dims.Architectures {
			for _, network := range dims.Networks {
				if !yield(model.MatrixCell{Architecture: arch, Network: network}) {
					return
				}
			}
		}
	}
}

// JobInstances enumerates every job instance of every family in fixed order
func JobInstances(dims model.Dimensions) iter.Seq[model.JobInstance] {
	return func(yield func(model.JobInstance) bool) {
		for _, family := range model.Families {
			for cell := range ExpandMatrix(family, dims) {
				if !yield(model.JobInstance{Family: family, Cell: cell}) {
					return
				}
			}
		}
	}
}
