package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/jmoiron/sqlx"

	"github.com/academiadanas/inscripciones/core/adminuser"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db     *sqlx.DB
	usrSvc *adminuser.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate up|down|status [ARGS] - run database migrations")
	fmt.Println("  addadmin -email EMAIL -nombre NOMBRE [-rol admin|editor|viewer] - create a dashboard account")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addAdminCmd := flag.NewFlagSet("addadmin", flag.ExitOnError)
	addAdminEmail := addAdminCmd.String("email", "", "The account email. The password will be prompted next.")
	addAdminNombre := addAdminCmd.String("nombre", "", "The account holder's name.")
	addAdminRol := addAdminCmd.String("rol", adminuser.RolAdmin, "The dashboard role: admin, editor or viewer.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "addadmin":
		if err := addAdminCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addAdminEmail == "" || *addAdminNombre == "" {
			addAdminCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addAdminCmd.Usage()
			return errHelp
		}
		return cli.addAdmin(*addAdminEmail, *addAdminNombre, *addAdminRol, string(pwd))
	default:
		cli.printUsage()
		return errHelp
	}
}
