// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"fmt"
	"net"
	"net/url"

	"github.com/iancoleman/strcase"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // load the SQL driver for postgres

	"github.com/premunia/automation/config"
	"github.com/premunia/automation/extensions"
)

const ExtensionName = "postgres"

const dsnFmt = "postgres://%s@%s:%s/%s"

type extension struct{}

var _ extensions.SQLDBExtension = (*extension)(nil)

func init() {
	extensions.RegisterSQLDBExtension(ExtensionName, &extension{})
}

func (d *extension) StartDBSession(cfg *config.SQL) (extensions.SQLDBSession, error) {
	conns, err := d.createSingleDBConn(cfg)
	if err != nil {
		return nil, err
	}
	return newDBSession(conns), nil
}

func (d *extension) StartAdminDBSession(cfg *config.SQL) (extensions.SQLAdminDBSession, error) {
	conns, err := d.createSingleDBConn(cfg)
	if err != nil {
		return nil, err
	}
	return newAdminDBSession(conns), nil
}

// createSingleDBConn creates a returns a reference to a logical connection to
// the underlying SQL database. The returned object is tied to a single SQL
// database and can be used to perform CRUD operations on the tables in it.
func (d *extension) createSingleDBConn(cfg *config.SQL) (*sqlx.DB, error) {
	host, port, err := net.SplitHostPort(cfg.ConnectAddr)
	if err != nil {
		return nil, fmt.Errorf("invalid connect address, it must be in host:port format, %v, err: %v", cfg.ConnectAddr, err)
	}

	sslParams := url.Values{}
	sslParams.Set("sslmode", "disable")
	db, err := sqlx.Connect(ExtensionName, buildDSN(cfg, host, port, sslParams))
	if err != nil {
		return nil, err
	}

	// Maps struct names in CamelCase to snake without need for db struct tags.
	db.MapperFunc(strcase.ToSnake)
	return db, nil
}

func buildDSN(cfg *config.SQL, host string, port string, params url.Values) string {
	dbName := cfg.DatabaseName
	//NOTE: postgres doesn't allow to connect with empty dbName, the admin dbName is "postgres"
	if dbName == "" {
		dbName = "postgres"
	}

	credentialString := generateCredentialString(cfg.User, cfg.Password)
	dsn := fmt.Sprintf(dsnFmt, credentialString, host, port, dbName)
	if attrs := params.Encode(); attrs != "" {
		dsn += "?" + attrs
	}
	return dsn
}

func generateCredentialString(user string, password string) string {
	userPass := url.PathEscape(user)
	if password != "" {
		userPass += ":" + url.PathEscape(password)
	}
	return userPass
}
