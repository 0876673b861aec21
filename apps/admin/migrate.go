package main

import (
	"database/sql"

	"github.com/pressly/goose/v3"

	appfs "github.com/zhurnalapp/zhurnal/fs"
)

var gooseRunFunc = goose.Run // mockable

func (cli *commandLine) migrate(args []string) error {
	goose.SetBaseFS(appfs.FS)
	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}
	return gooseRunFunc(args[0], cli.gooseDB(), "migrations", rest...)
}

func (cli *commandLine) gooseDB() *sql.DB {
	if cli.db == nil {
		return nil
	}
	return cli.db.DB
}
