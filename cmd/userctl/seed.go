package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"frontuser/internal/domain/account"
	"frontuser/internal/domain/party"
)

type seedOptions struct {
	identifier   string
	password     string
	firstName    string
	lastName     string
	email        string
	organization string
	roles        []string
}

func (o seedOptions) validate() error {
	if o.identifier == "" {
		return fmt.Errorf("--identifier is required")
	}
	if len(o.password) < 8 {
		return fmt.Errorf("--password must be at least 8 characters")
	}
	if o.organization == "" && o.firstName == "" && o.lastName == "" {
		return fmt.Errorf("either a person name or --organization is required")
	}
	return nil
}

// party builds the profile the account is bound to.
func (o seedOptions) party() party.Party {
	if o.organization != "" {
		return party.NewOrganization(o.organization)
	}
	return party.NewUser(party.PersonName{FirstName: o.firstName, LastName: o.lastName}, o.email)
}

func newSeedCmd() *cobra.Command {
	var opts seedOptions

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a party and a login account bound to it",
		Long: `Creates a user (or, with --organization, an organization) and a
username/password account assigned to it, in one transaction.

Example:
  userctl seed --identifier ada --password 'correct horse' --first-name Ada --last-name Lovelace`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.validate(); err != nil {
				return err
			}

			ctx, application, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer application.Close()

			hash, err := bcrypt.GenerateFromPassword([]byte(opts.password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}

			p := opts.party()
			acct := account.New(opts.identifier, application.Config.Auth.Provider, string(hash))
			partyID := p.PartyID()
			acct.PartyID = &partyID
			if len(opts.roles) > 0 {
				acct.Roles = opts.roles
			}

			err = application.Infra.TxManager.RunInTransaction(ctx, func(ctx context.Context) error {
				if err := application.PartyService.Create(ctx, p); err != nil {
					return err
				}
				return application.Accounts.Create(ctx, acct)
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "created %s party %s and account %s (%s)\n",
				p.PartyType(), partyID, acct.ID, acct.Identifier)
			return err
		},
	}

	cmd.Flags().StringVar(&opts.identifier, "identifier", "", "Login identifier")
	cmd.Flags().StringVar(&opts.password, "password", "", "Login password")
	cmd.Flags().StringVar(&opts.firstName, "first-name", "", "First name of the user")
	cmd.Flags().StringVar(&opts.lastName, "last-name", "", "Last name of the user")
	cmd.Flags().StringVar(&opts.email, "email", "", "Primary email of the user")
	cmd.Flags().StringVar(&opts.organization, "organization", "", "Create an organization party with this name instead of a user")
	cmd.Flags().StringSliceVar(&opts.roles, "role", nil, "Role to grant (repeatable)")

	return cmd
}
