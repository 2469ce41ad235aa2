package policy

import (
	"github.com/diewo77/go-backoffice/internal/gate"
	"github.com/diewo77/go-backoffice/internal/models"
)

// Allow-lists per functional area.
var (
	AnyUser    = gate.AnyRole
	Sales      = gate.Allow(models.RoleCEO, models.RoleCommercial)
	QuoteDesk  = gate.Allow(models.RoleCEO, models.RoleCommercial, models.RoleComptable)
	Technical  = gate.Allow(models.RoleCEO, models.RoleTechnicien)
	HR         = gate.Allow(models.RoleCEO, models.RoleRH)
	Field      = gate.Allow(models.RoleCEO, models.RoleCommercial, models.RoleTechnicien)
	Accounting = gate.Allow(models.RoleCEO, models.RoleComptable)
	Admin      = gate.Allow(models.RoleCEO)
)

// FileAccess maps the first segment of a stored object key to the roles
// allowed to download it. Keys under any other prefix are refused.
var FileAccess = map[string]gate.AllowList{
	"factures":  Accounting,
	"documents": Field,
}
