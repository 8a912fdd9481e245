package main

import (
	"context"
	"fmt"
	"log"
	"os"

	echoapi "github.com/academiadanas/inscripciones/apps/api/echo"
	"github.com/academiadanas/inscripciones/core"
	"github.com/academiadanas/inscripciones/core/adminuser"
	"github.com/academiadanas/inscripciones/core/catalogo"
	"github.com/academiadanas/inscripciones/core/registro"
	emailsvc "github.com/academiadanas/inscripciones/services/email"
	logsvc "github.com/academiadanas/inscripciones/services/logger"
	pdfsvc "github.com/academiadanas/inscripciones/services/pdf"
	"github.com/academiadanas/inscripciones/storage/database"
	sqlxrepos "github.com/academiadanas/inscripciones/storage/database/sqlx"
	"github.com/academiadanas/inscripciones/storage/objstore"
)

func main() {
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		core.Conf,
	)
	logger.Enable(!core.Conf.Debug)

	// set up DB
	if err := database.CreateIfNotExist(core.Conf); err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	db, err := database.Open(core.Conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	defer func() { _ = db.Close() }()
	if err = database.Migrate(db.DB); err != nil {
		logger.Fatal(fmt.Sprintf("migrating database: %v", err), err)
	}

	// set up object storage
	files, err := objstore.NewS3Store(context.Background(), core.Conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up object storage: %v", err), err)
	}

	// set up services
	var mailSvc core.EmailService
	if core.Conf.SendgridApiKey == "" {
		if !core.Conf.Debug {
			// degrade gracefully: receipts still render, delivery reports an error
			logger.Warn("no mail credential configured; email delivery disabled")
		} else {
			mailSvc = emailsvc.NewConsoleService()
		}
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	registroSvc := registro.NewService(sqlxrepos.NewRegistroRepository(db), files, logger)
	notifier := registro.NewNotifier(registroSvc, pdfsvc.NewRenderer(), mailSvc, logger)
	catalogoSvc := catalogo.NewService(sqlxrepos.NewCatalogoRepository(db))
	adminUserSvc := adminuser.NewService(
		sqlxrepos.NewAdminUserRepository(db),
		sqlxrepos.NewIdentityProvider(db),
		logger,
	)

	// start API server
	app := echoapi.NewServer(&echoapi.Options{
		Address:      fmt.Sprintf("%s:%d", core.Conf.Server.Host, core.Conf.Server.Port),
		Logger:       logger,
		RegistroSvc:  registroSvc,
		Notifier:     notifier,
		CatalogoSvc:  catalogoSvc,
		AdminUserSvc: adminUserSvc,
	})
	go app.Start()

	// block until the listener dies or a shutdown is requested
	select {
	case err = <-app.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-app.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), core.Conf.Server.ShutdownTimeout)
		defer cancel()

		if err = app.Stop(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = app.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
