package auth

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/util"
	sqlxadapter "github.com/memwey/casbin-sqlx-adapter"
)

// NewEnforcer creates and configures a new Casbin enforcer backed by the
// application database.
//
// Parameters:
//   - driverName: the database driver, "mysql" or "sqlite3".
//   - dsn: the Data Source Name for the database connection.
//   - modelPath: the file path to the Casbin model configuration (`.conf`).
func NewEnforcer(driverName, dsn, modelPath string) (*casbin.Enforcer, error) {
	// Store policies in the application's database next to the content tables.
	opts := &sqlxadapter.AdapterOptions{
		DriverName:     driverName,
		DataSourceName: dsn,
		TableName:      "casbin_rule",
	}
	adapter := sqlxadapter.NewAdapterFromOptions(opts)

	enforcer, err := casbin.NewEnforcer(modelPath, adapter)
	if err != nil {
		return nil, err
	}

	// keyMatch2 allows wildcard matching in paths (e.g. "/admin/articles/*"
	// against "/admin/articles/3/edit"). The model refers to it by name.
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}

	return enforcer, nil
}
