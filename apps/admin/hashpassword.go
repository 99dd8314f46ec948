package main

import (
	"fmt"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var errPasswordMismatch = errors.New("passwords do not match")

func newHashPasswordCmd(cli *commandLine) *cobra.Command {
	return &cobra.Command{
		Use:   "hashpassword",
		Short: "Hash the admin password (prompted) for ADMIN_PASSWORDHASH",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pwd, err := cli.promptPassword("Enter password:")
			if err != nil {
				return err
			}
			if len(pwd) == 0 {
				return usage(cmd)
			}
			confirm, err := cli.promptPassword("Confirm password:")
			if err != nil {
				return err
			}
			if string(confirm) != string(pwd) {
				return errPasswordMismatch
			}
			return cli.hashPassword(pwd)
		},
	}
}

func (cli *commandLine) promptPassword(prompt string) ([]byte, error) {
	_, _ = fmt.Fprint(cli.out, prompt)
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	_, _ = fmt.Fprintln(cli.out)
	return pwd, errors.Wrap(err, "reading password")
}

func (cli *commandLine) hashPassword(pwd []byte) error {
	hash, err := bcrypt.GenerateFromPassword(pwd, bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hashing password")
	}
	_, err = fmt.Fprintln(cli.out, string(hash))
	return err
}
