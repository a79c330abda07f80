package migrations

import (
	homebrief "github.com/goliatone/go-homebrief"
)

func init() {
	Register(homebrief.GetMigrationsFS())
}
