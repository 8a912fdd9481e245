package main

import (
	"log"
	"os"

	"github.com/academiadanas/inscripciones/core"
	"github.com/academiadanas/inscripciones/core/adminuser"
	logsvc "github.com/academiadanas/inscripciones/services/logger"
	"github.com/academiadanas/inscripciones/storage/database"
	sqlxrepos "github.com/academiadanas/inscripciones/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up DB
	errAndDie(database.CreateIfNotExist(core.Conf))
	db, err := database.Open(core.Conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())

	svcLogger := logsvc.NewRollbarLogger(logger, core.Conf)
	svcLogger.Enable(false)

	// start CLI
	cli := commandLine{
		db: db,
		usrSvc: adminuser.NewService(
			sqlxrepos.NewAdminUserRepository(db),
			sqlxrepos.NewIdentityProvider(db),
			svcLogger,
		),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
