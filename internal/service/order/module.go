package order

import (
	"go.uber.org/fx"

	repo "github.com/oakworks/orderhub/internal/repository/order"
)

// Module provides the order importer to Fx, binding the repository to the
// Store contract.
var Module = fx.Options(
	fx.Provide(func(r *repo.Repository) Store { return r }),
	fx.Provide(NewImporter),
)
