package main

import (
	"context"

	"github.com/academiadanas/inscripciones/core"
	"github.com/academiadanas/inscripciones/core/adminuser"
)

// addAdmin provisions a dashboard account together with its auth identity.
func (cli *commandLine) addAdmin(email, nombre, rol, pwd string) error {
	_, err := cli.usrSvc.Provision(context.Background(), adminuser.NewAdminUser{
		Email:    core.CleanString(email, true /* lower */),
		Nombre:   core.CleanString(nombre),
		Rol:      core.CleanString(rol, true /* lower */),
		Password: pwd,
	})
	return err
}
